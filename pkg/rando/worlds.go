package rando

import (
	"fmt"

	"github.com/cfoust/rando/pkg/maps"
	"github.com/cfoust/rando/pkg/world"
	"github.com/cfoust/rando/pkg/xex"

	C "github.com/cfoust/rando/pkg/game/constants"

	"github.com/repeale/fp-go"
	"github.com/rs/zerolog/log"
)

// Assignment is what one molehill teaches after the shuffle.
type Assignment struct {
	Level    world.LevelID
	Index    int
	Molehill xex.Molehill
}

type Worlds struct {
	Order       []world.LevelID
	Assignments []Assignment
}

// ShuffleOrder draws level orders until one has room for every gated
// ability early enough.
func (r *Randomizer) ShuffleOrder() ([]world.LevelID, error) {
	order := r.model.WorldLevels()
	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		r.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		if r.model.AcceptsOrder(order) {
			log.Debug().Int("attempts", attempt+1).Msg("accepted level order")
			return order, nil
		}
	}

	return nil, fmt.Errorf("level order: %w", ErrUnsatisfiable)
}

type warpMatch struct {
	prop *maps.Prop1
	warp C.WarpID
}

// SetWorldOrder points every hub slot at the level the order puts there.
// Leaving a level returns the player to the slot it was entered from, which
// takes the executable; without one only the archive and textures change.
func (r *Randomizer) SetWorldOrder(order []world.LevelID) error {
	slots := r.model.Slots(order)

	// The executable's table is read whole first, since each entry is both
	// read for one slot and written for another
	var warps []xex.LairWarp
	if r.image != nil {
		var err error
		warps, err = r.image.LairWarps(len(slots))
		if err != nil {
			return err
		}
	}

	// Likewise every warp prop is found before any is changed
	matches := make([]warpMatch, 0)
	for i, id := range slots {
		old := r.model.Level(world.LevelID(i))
		if old.ID == r.model.Lair {
			continue
		}
		placed := r.model.Level(id)

		lobby, err := r.archive.NamedMapSetup(old.Entry.Lobby)
		if err != nil {
			return fmt.Errorf("lobby of %s: %w", old, err)
		}

		found := lobby.FindProps1(func(prop maps.Prop1) bool {
			warp, ok := prop.Warp()
			return ok && warp == old.Entry.Warp
		})
		if len(found) == 0 {
			return fmt.Errorf("%s has no %s warp", old.Entry.Lobby, old.Entry.Warp)
		}

		for _, prop := range found {
			matches = append(matches, warpMatch{
				prop: prop,
				warp: placed.Entry.Warp,
			})
		}
	}

	for _, match := range matches {
		match.prop.ID = uint16(match.warp)
	}

	for i, id := range slots {
		old := r.model.Level(world.LevelID(i))
		if old.ID == r.model.Lair {
			continue
		}
		placed := r.model.Level(id)

		err := r.setLevelArt(old, placed)
		if err != nil {
			return err
		}

		if r.image == nil {
			continue
		}

		err = r.image.SetLairWarp(int(placed.ID), warps[old.ID])
		if err != nil {
			return err
		}
	}

	if r.image == nil {
		log.Warn().Msg("no executable, leaving a level returns to its original painting")
	}

	log.Info().
		Strs("order", fp.Map(func(id world.LevelID) string {
			return r.model.Level(id).Short
		})(order)).
		Msg("set level order")

	return nil
}

// setLevelArt makes the textures of old's slot show placed.
func (r *Randomizer) setLevelArt(old, placed *world.Level) error {
	if r.textures == nil || old.Art.IsEmpty() || placed.Art.IsEmpty() {
		return nil
	}

	from := old.Art.IDs()
	to := placed.Art.IDs()
	if len(from) != len(to) ||
		len(old.Art.Painting) != len(placed.Art.Painting) ||
		len(old.Art.Signs) != len(placed.Art.Signs) {
		return fmt.Errorf("art of %s and %s does not line up", old, placed)
	}

	for i := range from {
		err := r.textures.Redirect(from[i], to[i])
		if err != nil {
			return err
		}
	}

	return nil
}

// ReadMolehills reads what each molehill of the order teaches from the
// executable, in the order of world.Model.Molehills.
func (r *Randomizer) ReadMolehills(order []world.LevelID) ([]xex.Molehill, error) {
	if r.image == nil {
		return nil, ErrNoImage
	}

	molehills := r.model.Molehills(order)
	payloads := make([]xex.Molehill, len(molehills))
	for i, molehill := range molehills {
		payload, err := r.image.Molehill(molehill.Index)
		if err != nil {
			return nil, err
		}

		if payload.Ability != molehill.Ability {
			log.Warn().
				Int("molehill", molehill.Index).
				Str("expected", molehill.Ability.String()).
				Str("actual", payload.Ability.String()).
				Msg("molehill teaches something unexpected")
		}

		payloads[i] = payload
	}

	return payloads, nil
}

func abilities(payloads []xex.Molehill) []C.Ability {
	return fp.Map(func(payload xex.Molehill) C.Ability {
		return payload.Ability
	})(payloads)
}

// AssignMolehills shuffles the payloads until every gate's ability is
// taught in time. The payloads are not modified.
func (r *Randomizer) AssignMolehills(order []world.LevelID, payloads []xex.Molehill) ([]xex.Molehill, error) {
	shuffled := append([]xex.Molehill{}, payloads...)
	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		r.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		if r.model.AcceptsMolehills(order, abilities(shuffled)) {
			return shuffled, nil
		}
	}

	return nil, fmt.Errorf("molehills: %w", ErrUnsatisfiable)
}

// ShuffleMolehills reassigns what the molehills teach and writes the result
// into the executable.
func (r *Randomizer) ShuffleMolehills(order []world.LevelID) ([]Assignment, error) {
	payloads, err := r.ReadMolehills(order)
	if err != nil {
		return nil, err
	}

	shuffled, err := r.AssignMolehills(order, payloads)
	if err != nil {
		return nil, err
	}

	err = r.model.CheckReachable(order, abilities(shuffled))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsatisfiable, err)
	}

	assignments := make([]Assignment, 0, len(shuffled))
	i := 0
	for _, id := range order {
		for _, molehill := range r.model.Level(id).Molehills {
			err := r.image.SetMolehill(molehill.Index, shuffled[i])
			if err != nil {
				return nil, err
			}

			assignments = append(assignments, Assignment{
				Level:    id,
				Index:    molehill.Index,
				Molehill: shuffled[i],
			})
			i++
		}
	}

	log.Info().
		Strs("abilities", fp.Map(func(ability C.Ability) string {
			return ability.String()
		})(abilities(shuffled))).
		Msg("assigned molehills")

	return assignments, nil
}

// ShuffleWorlds shuffles the level order and then the molehills to match.
func (r *Randomizer) ShuffleWorlds() (*Worlds, error) {
	order, err := r.ShuffleOrder()
	if err != nil {
		return nil, err
	}

	err = r.SetWorldOrder(order)
	if err != nil {
		return nil, err
	}

	assignments, err := r.ShuffleMolehills(order)
	if err != nil {
		return nil, err
	}

	return &Worlds{
		Order:       order,
		Assignments: assignments,
	}, nil
}
