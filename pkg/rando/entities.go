package rando

import (
	"fmt"

	"github.com/cfoust/rando/pkg/maps"
	"github.com/cfoust/rando/pkg/world"

	C "github.com/cfoust/rando/pkg/game/constants"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

// Entity is a prop that moves between slots, along with the flag it
// cannot be separated from.
type Entity struct {
	Actor  *maps.Prop1
	Sprite *maps.Prop2
	Linked opt.Option[maps.Prop1]
}

// Location is a slot an entity can occupy. Position is in Prop1 coordinates.
type Location struct {
	Map      string
	Cube     int
	Position maps.Position
	Entity   Entity
}

// Shuffled summarizes the entity shuffle of one level.
type Shuffled struct {
	Level   world.LevelID
	Actors  int
	Sprites int
	Linked  int
}

// nearestFlag removes and returns the flag closest to position, if one is
// within distance.
func nearestFlag(
	pool []maps.Placed[maps.Prop1],
	position maps.Position,
	distance int64,
) (maps.Prop1, []maps.Placed[maps.Prop1], bool) {
	best := -1
	var bestDistance int64
	for i, flag := range pool {
		d := flag.Prop.Position.DistanceSquared(position)
		if d > distance*distance {
			continue
		}

		if best == -1 || d < bestDistance {
			best = i
			bestDistance = d
		}
	}

	if best == -1 {
		return maps.Prop1{}, pool, false
	}

	flag := pool[best].Prop
	rest := append(pool[:best:best], pool[best+1:]...)
	return flag, rest, true
}

// ShuffleEntities swaps the given actors and sprites around inside each
// level. Passing both shuffles them together.
func (r *Randomizer) ShuffleEntities(actors []C.ActorID, sprites []C.SpriteID) ([]Shuffled, error) {
	wantActor := make(map[C.ActorID]bool)
	for _, id := range actors {
		wantActor[id] = true
	}

	wantSprite := make(map[C.SpriteID]bool)
	for _, id := range sprites {
		wantSprite[id] = true
	}

	results := make([]Shuffled, 0)
	for _, id := range r.model.WorldLevels() {
		level := r.model.Level(id)
		if len(level.Maps) == 0 {
			continue
		}

		result, err := r.shuffleLevel(level, wantActor, wantSprite)
		if err != nil {
			return nil, fmt.Errorf("could not shuffle %s: %w", level, err)
		}

		log.Debug().
			Str("level", level.Short).
			Int("actors", result.Actors).
			Int("sprites", result.Sprites).
			Int("linked", result.Linked).
			Msg("shuffled entities")

		results = append(results, result)
	}

	return results, nil
}

func (r *Randomizer) shuffleLevel(
	level *world.Level,
	wantActor map[C.ActorID]bool,
	wantSprite map[C.SpriteID]bool,
) (Shuffled, error) {
	result := Shuffled{Level: level.ID}
	setups := make(map[string]*maps.MapSetup)
	pools := make(map[string][]maps.Placed[maps.Prop1])
	locations := make([]Location, 0)

	for _, name := range level.Maps {
		setup, err := r.archive.NamedMapSetup(name)
		if err != nil {
			return result, err
		}
		setups[name] = setup

		pool := setup.TakeProps1(func(prop maps.Prop1) bool {
			return prop.IsFlag()
		})

		for _, placed := range setup.TakeProps1(func(prop maps.Prop1) bool {
			actor, ok := prop.Actor()
			return ok && wantActor[actor]
		}) {
			prop := placed.Prop
			entity := Entity{
				Actor:  &prop,
				Linked: opt.None[maps.Prop1](),
			}

			actor, _ := prop.Actor()
			if actor.NeedsFlag() {
				flag, rest, ok := nearestFlag(pool, prop.Position, r.LinkDistance)
				if !ok {
					return result, fmt.Errorf(
						"%s at %s in %s: %w",
						actor,
						prop.Position,
						name,
						ErrNoLinkedFlag,
					)
				}
				pool = rest
				entity.Linked = opt.Some(flag)
				result.Linked++
			}

			locations = append(locations, Location{
				Map:      name,
				Cube:     placed.Cube,
				Position: prop.Position,
				Entity:   entity,
			})
			result.Actors++
		}

		// Slots are kept in Prop1 coordinates so that actors and sprites
		// can trade places
		generation := setup.Options().Generation
		for _, placed := range setup.TakeProps2(func(prop maps.Prop2) bool {
			return prop.Kind == maps.Prop2Sprite && wantSprite[prop.Sprite]
		}) {
			prop := placed.Prop
			locations = append(locations, Location{
				Map:      name,
				Cube:     placed.Cube,
				Position: generation.Signed(prop.Position),
				Entity: Entity{
					Sprite: &prop,
					Linked: opt.None[maps.Prop1](),
				},
			})
			result.Sprites++
		}

		pools[name] = pool
	}

	r.swap(locations)

	for _, location := range locations {
		setup := setups[location.Map]
		err := r.place(setup, location)
		if err != nil {
			return result, fmt.Errorf("%s: %w", location.Map, err)
		}
	}

	// Flags nothing claimed go back where they were
	for _, name := range level.Maps {
		setup := setups[name]
		for _, placed := range pools[name] {
			err := r.insertFlag(setup, placed.Prop)
			if err != nil {
				return result, fmt.Errorf("%s: %w", name, err)
			}
		}
	}

	return result, nil
}

// swap exchanges the entities of random pairs of locations, 4 times per
// location.
func (r *Randomizer) swap(locations []Location) {
	n := len(locations)
	if n < 2 {
		return
	}

	for k := 0; k < 4*n; k++ {
		i := r.rng.Intn(n)
		j := r.rng.Intn(n - 1)
		if j >= i {
			j++
		}

		locations[i].Entity, locations[j].Entity = locations[j].Entity, locations[i].Entity
	}
}

// place puts the location's entity at the location, followed by its flag.
func (r *Randomizer) place(setup *maps.MapSetup, location Location) error {
	cube := &setup.Cubes[location.Cube]
	entity := location.Entity

	if entity.Actor != nil {
		prop := *entity.Actor
		prop.Position = location.Position
		cube.Props1 = append(cube.Props1, prop)
	}

	if entity.Sprite != nil {
		prop := *entity.Sprite
		prop.Position = setup.Options().Generation.FromSigned(location.Position)
		cube.Props2 = append(cube.Props2, prop)
	}

	if opt.IsNone(entity.Linked) {
		return nil
	}

	flag := entity.Linked.Value
	flag.Position = location.Position
	return r.insertFlag(setup, flag)
}

func (r *Randomizer) insertFlag(setup *maps.MapSetup, flag maps.Prop1) error {
	index := setup.NearestCube(flag.Position, r.SnapDistance)
	if index == -1 {
		return fmt.Errorf("flag at %s: %w", flag.Position, ErrNoNearbyCube)
	}

	cube := &setup.Cubes[index]
	cube.Props1 = append(cube.Props1, flag)
	return nil
}
