// Package rando shuffles the game: the order of the levels behind the hub,
// the moves the molehills teach and where collectables sit inside each
// level. Everything happens on a loaded archive, texture table and
// executable, which the caller writes back.
package rando

import (
	"fmt"
	"math/rand"

	"github.com/cfoust/rando/pkg/assets"
	"github.com/cfoust/rando/pkg/maps"
	"github.com/cfoust/rando/pkg/textures"
	"github.com/cfoust/rando/pkg/world"
	"github.com/cfoust/rando/pkg/xex"

	C "github.com/cfoust/rando/pkg/game/constants"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnsatisfiable = fmt.Errorf("no arrangement satisfies the constraints")
	ErrNoLinkedFlag  = fmt.Errorf("actor has no flag nearby")
	ErrNoNearbyCube  = fmt.Errorf("no populated cube nearby")
	ErrNoImage       = fmt.Errorf("no executable loaded")
)

// The actor removed from every map unless configured otherwise.
const DEFAULT_REMOVED_ACTOR C.ActorID = 0x373

type Options struct {
	// Shuffles tried before giving up
	MaxAttempts int
	// How far a flag can be from the actor it belongs to
	LinkDistance int64
	// How far a prop can be from the cube it is put back into
	SnapDistance int64
}

var DEFAULT_OPTIONS = Options{
	MaxAttempts:  10000,
	LinkDistance: 500,
	SnapDistance: 2 * maps.CUBE_SIZE,
}

type Randomizer struct {
	Options

	model    *world.Model
	archive  *assets.Archive
	textures *textures.Table
	image    *xex.Image
	rng      *rand.Rand
}

// New creates a randomizer. The texture table and executable may be nil,
// in which case the shuffles that need them either skip them or fail.
func New(
	model *world.Model,
	archive *assets.Archive,
	textureTable *textures.Table,
	image *xex.Image,
	rng *rand.Rand,
	options Options,
) *Randomizer {
	return &Randomizer{
		Options:  options,
		model:    model,
		archive:  archive,
		textures: textureTable,
		image:    image,
		rng:      rng,
	}
}

func (r *Randomizer) Model() *world.Model {
	return r.model
}

// RemoveActors deletes every Prop1 actor with one of the ids from every map
// setup in the archive. It returns how many were removed.
func (r *Randomizer) RemoveActors(ids []C.ActorID) (int, error) {
	remove := make(map[C.ActorID]bool)
	for _, id := range ids {
		remove[id] = true
	}

	removed := 0
	for _, ordinal := range r.archive.MapSetups() {
		setup, err := r.archive.MapSetup(ordinal)
		if err != nil {
			return removed, err
		}

		removed += len(setup.TakeProps1(func(prop maps.Prop1) bool {
			actor, ok := prop.Actor()
			return ok && remove[actor]
		}))
	}

	log.Debug().Int("removed", removed).Msg("removed actors")
	return removed, nil
}

// UnlockMoves makes every file start with every move learned.
func (r *Randomizer) UnlockMoves() error {
	if r.image == nil {
		return ErrNoImage
	}
	return r.image.UnlockMoves()
}

func (r *Randomizer) UnlockNoteDoors(indices []int) error {
	if r.image == nil {
		return ErrNoImage
	}
	return r.image.UnlockNoteDoors(indices)
}
