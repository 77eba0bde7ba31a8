// Package report records what a run changed, so a seed can be checked or
// shared without opening the patched files.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cfoust/rando/pkg/rando"
	"github.com/cfoust/rando/pkg/world"

	C "github.com/cfoust/rando/pkg/game/constants"

	"gopkg.in/yaml.v3"
)

// Slot says which level sits behind a hub slot.
type Slot struct {
	Slot  string `yaml:"slot"`
	Level string `yaml:"level"`
}

type Molehill struct {
	Level     string    `yaml:"level"`
	Index     int       `yaml:"index"`
	Ability   C.Ability `yaml:"ability"`
	Teach     uint16    `yaml:"teach"`
	Refresher uint16    `yaml:"refresher"`
}

type Entities struct {
	Level   string `yaml:"level"`
	Actors  int    `yaml:"actors"`
	Sprites int    `yaml:"sprites"`
	Linked  int    `yaml:"linked"`
}

type Spoiler struct {
	Seed     int64     `yaml:"seed"`
	Settings string    `yaml:"settings"`
	Version  string    `yaml:"version"`
	Created  time.Time `yaml:"created"`

	Slots         []Slot     `yaml:"slots,omitempty"`
	Molehills     []Molehill `yaml:"molehills,omitempty"`
	Entities      []Entities `yaml:"entities,omitempty"`
	RemovedActors int        `yaml:"removedActors"`
	NoteDoors     []int      `yaml:"noteDoors,omitempty"`
	Moves         bool       `yaml:"moves"`
}

// New starts a spoiler for a seed run under the given settings digest.
func New(seed int64, settings string, version string) *Spoiler {
	return &Spoiler{
		Seed:     seed,
		Settings: settings,
		Version:  version,
		Created:  time.Now().UTC(),
	}
}

// SetWorlds records the level order and molehills of a world shuffle.
func (s *Spoiler) SetWorlds(model *world.Model, worlds *rando.Worlds) {
	s.Slots = make([]Slot, 0, len(worlds.Order))
	for i, id := range model.Slots(worlds.Order) {
		slot := model.Level(world.LevelID(i))
		if slot.ID == model.Lair {
			continue
		}

		s.Slots = append(s.Slots, Slot{
			Slot:  slot.Name,
			Level: model.Level(id).Name,
		})
	}

	s.Molehills = make([]Molehill, 0, len(worlds.Assignments))
	for _, assignment := range worlds.Assignments {
		s.Molehills = append(s.Molehills, Molehill{
			Level:     model.Level(assignment.Level).Name,
			Index:     assignment.Index,
			Ability:   assignment.Molehill.Ability,
			Teach:     assignment.Molehill.Teach,
			Refresher: assignment.Molehill.Refresher,
		})
	}
}

// AddEntities accumulates the counts of an entity shuffle. Running the
// actor and sprite passes separately adds up per level.
func (s *Spoiler) AddEntities(model *world.Model, shuffled []rando.Shuffled) {
	for _, level := range shuffled {
		name := model.Level(level.Level).Name

		var entry *Entities
		for i := range s.Entities {
			if s.Entities[i].Level == name {
				entry = &s.Entities[i]
			}
		}

		if entry == nil {
			s.Entities = append(s.Entities, Entities{Level: name})
			entry = &s.Entities[len(s.Entities)-1]
		}

		entry.Actors += level.Actors
		entry.Sprites += level.Sprites
		entry.Linked += level.Linked
	}
}

func (s *Spoiler) Key() Key {
	return Key{Seed: s.Seed, Settings: s.Settings}
}

func (s *Spoiler) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func Unmarshal(data []byte) (*Spoiler, error) {
	var spoiler Spoiler
	err := yaml.Unmarshal(data, &spoiler)
	if err != nil {
		return nil, fmt.Errorf("invalid spoiler: %w", err)
	}
	return &spoiler, nil
}

// Publish saves the spoiler to every store.
func Publish(ctx context.Context, spoiler *Spoiler, stores ...Store) error {
	for _, store := range stores {
		err := store.Save(ctx, spoiler)
		if err != nil {
			return fmt.Errorf("could not publish spoiler %s: %w", spoiler.Key(), err)
		}
	}

	return nil
}

// Latest loads the newest spoiler for a seed under any settings.
func Latest(ctx context.Context, store Store, seed int64) (*Spoiler, error) {
	keys, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if key.Seed == seed {
			return store.Load(ctx, key)
		}
	}

	return nil, Missing
}
