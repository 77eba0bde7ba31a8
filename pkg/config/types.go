package config

import (
	"fmt"

	"github.com/cfoust/rando/pkg/maps"
	"github.com/cfoust/rando/pkg/rando"

	C "github.com/cfoust/rando/pkg/game/constants"

	"github.com/cespare/xxhash/v2"
	"github.com/repeale/fp-go"
	"gopkg.in/yaml.v3"
)

type Paths struct {
	Archive    string
	Table      string
	Textures   string
	Executable string
	Levels     string
	Layout     string
	Output     string
}

type Entities struct {
	Actors  []uint16
	Sprites []uint16
	Mix     bool
}

type Report struct {
	Directory string
	Redis     string
}

type Config struct {
	Paths        Paths
	Seed         int64
	Worlds       bool
	Moves        bool
	NoteDoors    []int
	Entities     Entities
	RemoveActors []uint16
	Generation   string
	MaxAttempts  int
	LinkDistance int64
	SnapDistance int64
	Report       Report
	History      string
}

func (c *Config) Actors() []C.ActorID {
	return fp.Map(func(id uint16) C.ActorID {
		return C.ActorID(id)
	})(c.Entities.Actors)
}

func (c *Config) Sprites() []C.SpriteID {
	return fp.Map(func(id uint16) C.SpriteID {
		return C.SpriteID(id)
	})(c.Entities.Sprites)
}

func (c *Config) Removed() []C.ActorID {
	return fp.Map(func(id uint16) C.ActorID {
		return C.ActorID(id)
	})(c.RemoveActors)
}

// Settings digests everything that changes the output of a seed. Paths, the
// seed itself and where the spoiler goes are left out.
func (c *Config) Settings() (string, error) {
	data, err := yaml.Marshal(struct {
		Worlds       bool
		Moves        bool
		NoteDoors    []int
		Entities     Entities
		RemoveActors []uint16
		Generation   string
		MaxAttempts  int
		LinkDistance int64
		SnapDistance int64
	}{
		c.Worlds,
		c.Moves,
		c.NoteDoors,
		c.Entities,
		c.RemoveActors,
		c.Generation,
		c.MaxAttempts,
		c.LinkDistance,
		c.SnapDistance,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

func (c *Config) Options() rando.Options {
	return rando.Options{
		MaxAttempts:  c.MaxAttempts,
		LinkDistance: c.LinkDistance,
		SnapDistance: c.SnapDistance,
	}
}

func (c *Config) Maps() (maps.Options, error) {
	switch c.Generation {
	case "signed", "":
		return maps.Options{Generation: maps.SignedPositions}, nil
	case "unsigned":
		return maps.Options{Generation: maps.UnsignedPositions}, nil
	}
	return maps.Options{}, fmt.Errorf("unknown generation %s", c.Generation)
}
