// Package world describes the hub and its levels: which map setups belong
// to a level, the molehills it holds, how the hub warps into it and what the
// player has to know to get there.
package world

import (
	_ "embed"
	"fmt"
	"os"

	C "github.com/cfoust/rando/pkg/game/constants"
	"github.com/cfoust/rando/pkg/textures"

	"github.com/repeale/fp-go"
	"gopkg.in/yaml.v3"
)

// LevelID is a level's slot in the hub, which is also its index into the
// executable's per-level tables.
type LevelID uint8

const (
	MumbosMountain LevelID = iota
	TreasureTroveCove
	ClankersCavern
	BubblegloopSwamp
	FreezeezyPeak
	Lair
	GobisValley
	ClickClockWood
	RustyBucketBay
	MadMonsterMansion
	NUM_LEVELS = 10
)

// Molehill is a move-teaching slot. Index is its row in the executable's
// molehill table; Ability is what it teaches in the unmodified game.
type Molehill struct {
	Index   int       `yaml:"index"`
	Ability C.Ability `yaml:"ability"`
}

// Entry is the warp in a hub map that leads into the level.
type Entry struct {
	Lobby string   `yaml:"lobby"`
	Warp  C.WarpID `yaml:"warp"`
}

// Art lists the texture records that identify a level in the hub.
type Art struct {
	Painting []textures.TextureID `yaml:"painting"`
	Signs    []textures.TextureID `yaml:"signs"`
	Labels   []textures.TextureID `yaml:"labels"`
}

func (a Art) IDs() []textures.TextureID {
	ids := make([]textures.TextureID, 0, len(a.Painting)+len(a.Signs)+len(a.Labels))
	ids = append(ids, a.Painting...)
	ids = append(ids, a.Signs...)
	return append(ids, a.Labels...)
}

func (a Art) IsEmpty() bool {
	return len(a.IDs()) == 0
}

type Level struct {
	ID    LevelID `yaml:"-"`
	Name  string  `yaml:"name"`
	Short string  `yaml:"short"`
	// Names of the level's map setups in the asset type table. The first
	// one is where the hub warp arrives.
	Maps      []string   `yaml:"maps"`
	Molehills []Molehill `yaml:"molehills"`
	Entry     *Entry     `yaml:"entry"`
	Art       Art        `yaml:"art"`
}

func (l *Level) String() string {
	return l.Short
}

// Gate says that the first Level levels of the order have to teach Ability,
// because the level after them cannot be reached without it.
type Gate struct {
	Level   int       `yaml:"level"`
	Ability C.Ability `yaml:"ability"`
}

type levelsFile struct {
	Lair   LevelID `yaml:"lair"`
	Levels []Level `yaml:"levels"`
	Gates  []Gate  `yaml:"gates"`
}

type Model struct {
	Levels []Level
	Gates  []Gate
	Lair   LevelID
	Graph  *Graph
}

//go:embed levels.yaml
var DEFAULT_LEVELS []byte

//go:embed lair.yaml
var DEFAULT_LAIR []byte

func Parse(levels []byte, lair []byte) (*Model, error) {
	var file levelsFile
	err := yaml.Unmarshal(levels, &file)
	if err != nil {
		return nil, fmt.Errorf("invalid level data: %w", err)
	}

	graph, err := ParseGraph(lair)
	if err != nil {
		return nil, err
	}

	model := Model{
		Levels: file.Levels,
		Gates:  file.Gates,
		Lair:   file.Lair,
		Graph:  graph,
	}

	err = model.validate()
	if err != nil {
		return nil, err
	}

	return &model, nil
}

func (m *Model) validate() error {
	if len(m.Levels) != NUM_LEVELS {
		return fmt.Errorf("expected %d levels, got %d", NUM_LEVELS, len(m.Levels))
	}

	if int(m.Lair) >= len(m.Levels) {
		return fmt.Errorf("lair slot %d is not a level", m.Lair)
	}

	indices := make(map[int]string)
	for i := range m.Levels {
		level := &m.Levels[i]
		level.ID = LevelID(i)

		if level.ID == m.Lair {
			if len(level.Maps) > 0 || len(level.Molehills) > 0 {
				return fmt.Errorf("the lair cannot hold maps or molehills")
			}
			continue
		}

		if len(level.Maps) == 0 {
			return fmt.Errorf("level %s has no maps", level.Short)
		}

		if level.Entry == nil {
			return fmt.Errorf("level %s has no entry warp", level.Short)
		}

		if !m.Graph.Has(level.Maps[0]) {
			return fmt.Errorf("level %s is not in the lair graph", level.Short)
		}

		for _, molehill := range level.Molehills {
			if other, ok := indices[molehill.Index]; ok {
				return fmt.Errorf(
					"molehill %d belongs to both %s and %s",
					molehill.Index,
					other,
					level.Short,
				)
			}
			indices[molehill.Index] = level.Short
		}
	}

	for _, gate := range m.Gates {
		if gate.Level < 1 || gate.Level >= len(m.WorldLevels()) {
			return fmt.Errorf("gate for %s is at invalid level %d", gate.Ability, gate.Level)
		}
	}

	return nil
}

// Default is the level data for the shipped game.
func Default() *Model {
	model, err := Parse(DEFAULT_LEVELS, DEFAULT_LAIR)
	if err != nil {
		panic(err)
	}
	return model
}

// Load reads level data from a file, using the built-in lair graph.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read level data %s: %w", path, err)
	}

	return Parse(data, DEFAULT_LAIR)
}

func (m *Model) Level(id LevelID) *Level {
	if int(id) >= len(m.Levels) {
		panic(fmt.Sprintf("level %d does not exist", id))
	}
	return &m.Levels[id]
}

// WorldLevels are the levels that can be shuffled, in slot order.
func (m *Model) WorldLevels() []LevelID {
	ids := make([]LevelID, len(m.Levels))
	for i := range ids {
		ids[i] = LevelID(i)
	}

	return fp.Filter(func(id LevelID) bool {
		return id != m.Lair
	})(ids)
}

// Slots puts the lair back into a world order, giving the level that
// occupies each hub slot.
func (m *Model) Slots(order []LevelID) []LevelID {
	slots := make([]LevelID, 0, len(order)+1)
	slots = append(slots, order[:m.Lair]...)
	slots = append(slots, m.Lair)
	return append(slots, order[m.Lair:]...)
}

// Molehills flattens the molehills of the levels in order.
func (m *Model) Molehills(order []LevelID) []Molehill {
	molehills := make([]Molehill, 0)
	for _, id := range order {
		molehills = append(molehills, m.Level(id).Molehills...)
	}
	return molehills
}
