package rando

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/cfoust/rando/pkg/assets"
	"github.com/cfoust/rando/pkg/maps"
	"github.com/cfoust/rando/pkg/textures"
	"github.com/cfoust/rando/pkg/world"
	"github.com/cfoust/rando/pkg/xex"

	C "github.com/cfoust/rando/pkg/game/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	Jiggy      C.ActorID  = 0x46
	NoteSprite C.SpriteID = 0x6A0
)

func emptySetup() *maps.MapSetup {
	return &maps.MapSetup{
		Cubes: []maps.Cube{{}},
	}
}

func lobbySetup(warp C.WarpID) *maps.MapSetup {
	setup := emptySetup()
	setup.Cubes[0].Props1 = []maps.Prop1{
		{
			Position: maps.Position{X: 10, Y: 20, Z: 30},
			Category: maps.WarpOrTrigger,
			ID:       uint16(warp),
		},
		{
			Position: maps.Position{X: 50, Y: 20, Z: 30},
			Category: maps.WarpOrTrigger,
			ID:       999,
		},
	}
	return setup
}

func actor(id C.ActorID, x, y, z int32) maps.Prop1 {
	return maps.Prop1{
		Position: maps.Position{X: x, Y: y, Z: z},
		Category: maps.Actor,
		ID:       uint16(id),
	}
}

func flag(x, y, z int32) maps.Prop1 {
	return maps.Prop1{
		Position: maps.Position{X: x, Y: y, Z: z},
		Category: maps.Flags,
		ID:       1,
	}
}

func mountainSetup() *maps.MapSetup {
	return &maps.MapSetup{
		Cubes: []maps.Cube{
			{
				X: 0,
				Props1: []maps.Prop1{
					actor(C.ExtraLife, 100, 100, 100),
					flag(110, 100, 100),
				},
				Props2: []maps.Prop2{
					{
						Kind:     maps.Prop2Sprite,
						Position: maps.Position{X: 500, Y: 0, Z: 0},
						Sprite:   NoteSprite,
					},
				},
			},
			{
				X: 1,
				Props1: []maps.Prop1{
					actor(C.EmptyHoneycomb, 1500, 100, 100),
					flag(1500, 100, 120),
					actor(Jiggy, 1200, 100, 100),
					flag(1800, 100, 500),
					actor(DEFAULT_REMOVED_ACTOR, 1300, 0, 0),
				},
			},
		},
	}
}

// testArchive holds a map setup for every map and lobby the model names.
func testArchive(t *testing.T, model *world.Model) *assets.Archive {
	t.Helper()

	setups := make(map[string]*maps.MapSetup)
	names := make([]string, 0)
	for _, level := range model.Levels {
		for _, name := range level.Maps {
			setups[name] = emptySetup()
			names = append(names, name)
		}

		if level.Entry != nil {
			setups[level.Entry.Lobby] = lobbySetup(level.Entry.Warp)
			names = append(names, level.Entry.Lobby)
		}
	}

	setups["MumbosMountain"] = mountainSetup()
	tower := emptySetup()
	tower.Cubes[0].Props1 = []maps.Prop1{
		actor(C.ExtraLife, 400, 400, 400),
		flag(400, 400, 380),
		actor(DEFAULT_REMOVED_ACTOR, 0, 0, 0),
	}
	setups["MmTickersTower"] = tower

	table, err := assets.NewTable(len(names), []assets.Run{
		{Kind: assets.KindMapSetup, Start: 0, Count: len(names)},
	})
	require.NoError(t, err)

	archive := assets.New(table)
	for i, name := range names {
		require.NoError(t, table.Name(name, assets.Ordinal(i)))
		require.NoError(t, archive.Set(assets.Ordinal(i), assets.Setup{MapSetup: setups[name]}))
	}

	return archive
}

func testImage(t *testing.T, model *world.Model) *xex.Image {
	t.Helper()

	image := xex.New(make([]byte, 0x468000), xex.DefaultLayout())
	for _, level := range model.Levels {
		for _, molehill := range level.Molehills {
			require.NoError(t, image.SetMolehill(molehill.Index, xex.Molehill{
				Teach:     uint16(0x100 + molehill.Index),
				Refresher: uint16(0x200 + molehill.Index),
				Ability:   molehill.Ability,
			}))
		}
	}

	for i := 0; i < world.NUM_LEVELS; i++ {
		require.NoError(t, image.SetLairWarp(i, xex.LairWarp{
			Map:  uint16(0x60 + i),
			Exit: uint16(i),
		}))
	}

	return image
}

func TestGatedOrders(t *testing.T) {
	model := world.Default()

	for seed := int64(0); seed < 1000; seed++ {
		r := New(model, nil, nil, nil, rand.New(rand.NewSource(seed)), DEFAULT_OPTIONS)

		order, err := r.ShuffleOrder()
		require.NoError(t, err)
		require.True(t, model.AcceptsOrder(order))

		first := model.Level(order[0])
		require.NotEmpty(t, first.Molehills, "seed %d", seed)

		payloads := make([]xex.Molehill, 0)
		for _, molehill := range model.Molehills(order) {
			payloads = append(payloads, xex.Molehill{Ability: molehill.Ability})
		}

		assigned, err := r.AssignMolehills(order, payloads)
		require.NoError(t, err)

		taught := abilities(assigned)
		assert.Contains(t, taught[:len(first.Molehills)], C.TalonTrot, "seed %d", seed)
		require.NoError(t, model.CheckReachable(order, taught), "seed %d", seed)
	}
}

func TestUnsatisfiable(t *testing.T) {
	model := world.Default()
	options := DEFAULT_OPTIONS
	options.MaxAttempts = 20

	// Nothing teaches Roll
	model.Gates = append(model.Gates, world.Gate{Level: 1, Ability: C.Roll})
	r := New(model, nil, nil, nil, rand.New(rand.NewSource(1)), options)
	order := model.WorldLevels()
	_, err := r.AssignMolehills(order, []xex.Molehill{{Ability: C.TalonTrot}})
	assert.ErrorIs(t, err, ErrUnsatisfiable)

	// No level has four molehills
	model.Gates = append(model.Gates,
		world.Gate{Level: 1, Ability: C.Dive},
		world.Gate{Level: 1, Ability: C.Climb},
	)
	_, err = r.ShuffleOrder()
	assert.ErrorIs(t, err, ErrUnsatisfiable)

	_, err = r.ShuffleMolehills(order)
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestShuffleWorlds(t *testing.T) {
	model := world.Default()
	table := &textures.Table{Records: make([]textures.Record, 2*world.NUM_LEVELS)}
	for i := range table.Records {
		table.Records[i].Address = uint32(0x1000 * (i + 1))
		table.Records[i].Edited = table.Records[i].Address
	}

	for i := range model.Levels {
		if model.Levels[i].ID == model.Lair {
			continue
		}
		model.Levels[i].Art = world.Art{
			Painting: []textures.TextureID{textures.TextureID(2 * i)},
			Signs:    []textures.TextureID{textures.TextureID(2*i + 1)},
		}
	}

	archive := testArchive(t, model)
	image := testImage(t, model)
	before, err := image.LairWarps(world.NUM_LEVELS)
	require.NoError(t, err)

	r := New(model, archive, table, image, rand.New(rand.NewSource(42)), DEFAULT_OPTIONS)
	result, err := r.ShuffleWorlds()
	require.NoError(t, err)

	slots := model.Slots(result.Order)
	for slot, id := range slots {
		old := model.Level(world.LevelID(slot))
		if old.ID == model.Lair {
			continue
		}
		placed := model.Level(id)

		lobby, err := archive.NamedMapSetup(old.Entry.Lobby)
		require.NoError(t, err)
		assert.Equal(t, uint16(placed.Entry.Warp), lobby.Cubes[0].Props1[0].ID)
		assert.Equal(t, uint16(999), lobby.Cubes[0].Props1[1].ID)

		painting, err := table.Get(textures.TextureID(2 * slot))
		require.NoError(t, err)
		assert.Equal(t, uint32(0x1000*(2*int(id)+1)), painting.Edited)

		warp, err := image.LairWarp(int(id))
		require.NoError(t, err)
		assert.Equal(t, before[slot], warp)
	}

	// Every payload is still taught exactly once
	taught := make([]int, 0)
	for _, assignment := range result.Assignments {
		molehill, err := image.Molehill(assignment.Index)
		require.NoError(t, err)
		assert.Equal(t, assignment.Molehill, molehill)
		taught = append(taught, int(molehill.Teach))
	}
	sort.Ints(taught)
	assert.Equal(t, []int{0x100, 0x101, 0x102, 0x103, 0x104, 0x105, 0x106, 0x107, 0x108}, taught)

	assert.NoError(t, model.CheckReachable(result.Order, taughtAbilities(result.Assignments)))
}

func taughtAbilities(assignments []Assignment) []C.Ability {
	taught := make([]C.Ability, len(assignments))
	for i, assignment := range assignments {
		taught[i] = assignment.Molehill.Ability
	}
	return taught
}

func TestSetWorldOrderWithoutImage(t *testing.T) {
	model := world.Default()
	archive := testArchive(t, model)

	order := model.WorldLevels()
	order[0], order[1] = order[1], order[0]

	r := New(model, archive, nil, nil, rand.New(rand.NewSource(1)), DEFAULT_OPTIONS)
	require.NoError(t, r.SetWorldOrder(order))

	// The hub warps change even though there is no executable to patch
	first := model.Level(world.MumbosMountain)
	lobby, err := archive.NamedMapSetup(first.Entry.Lobby)
	require.NoError(t, err)
	assert.Equal(t, uint16(model.Level(order[0]).Entry.Warp), lobby.Cubes[0].Props1[0].ID)

	// Molehills live in the executable
	r = New(model, testArchive(t, model), nil, nil, rand.New(rand.NewSource(1)), DEFAULT_OPTIONS)
	_, err = r.ShuffleWorlds()
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestShuffleWorldsMissingWarp(t *testing.T) {
	model := world.Default()
	archive := testArchive(t, model)
	lobby, err := archive.NamedMapSetup("GlMmLobby")
	require.NoError(t, err)
	lobby.Cubes[0].Props1 = nil

	r := New(model, archive, nil, testImage(t, model), rand.New(rand.NewSource(1)), DEFAULT_OPTIONS)
	_, err = r.ShuffleWorlds()
	assert.Error(t, err)
}

type census struct {
	props1  int
	props2  int
	slots   []maps.Position
	flagged []maps.Position
	flags   map[maps.Position]int
}

func takeCensus(t *testing.T, archive *assets.Archive, level *world.Level) census {
	c := census{flags: make(map[maps.Position]int)}
	for _, name := range level.Maps {
		setup, err := archive.NamedMapSetup(name)
		require.NoError(t, err)

		for _, cube := range setup.Cubes {
			c.props1 += len(cube.Props1)
			c.props2 += len(cube.Props2)

			for _, prop := range cube.Props1 {
				if prop.IsFlag() {
					c.flags[prop.Position]++
					continue
				}

				id, ok := prop.Actor()
				if !ok || id == DEFAULT_REMOVED_ACTOR {
					continue
				}

				c.slots = append(c.slots, prop.Position)
				if id.NeedsFlag() {
					c.flagged = append(c.flagged, prop.Position)
				}
			}

			for _, prop := range cube.Props2 {
				c.slots = append(c.slots, prop.Position)
			}
		}
	}

	sort.Slice(c.slots, func(i, j int) bool {
		return c.slots[i].String() < c.slots[j].String()
	})
	return c
}

func TestShuffleEntities(t *testing.T) {
	model := world.Default()
	mountain := model.Level(world.MumbosMountain)

	for seed := int64(0); seed < 50; seed++ {
		archive := testArchive(t, model)
		before := takeCensus(t, archive, mountain)

		r := New(model, archive, nil, nil, rand.New(rand.NewSource(seed)), DEFAULT_OPTIONS)
		results, err := r.ShuffleEntities(
			[]C.ActorID{C.ExtraLife, C.EmptyHoneycomb, Jiggy},
			[]C.SpriteID{NoteSprite},
		)
		require.NoError(t, err)
		require.Len(t, results, len(model.WorldLevels()))
		assert.Equal(t, Shuffled{
			Level:   world.MumbosMountain,
			Actors:  4,
			Sprites: 1,
			Linked:  3,
		}, results[0])

		after := takeCensus(t, archive, mountain)
		assert.Equal(t, before.props1, after.props1)
		assert.Equal(t, before.props2, after.props2)
		assert.Equal(t, before.slots, after.slots)

		// Every actor that needs a flag has one right where it is
		for _, position := range after.flagged {
			assert.Positive(t, after.flags[position], "seed %d", seed)
		}

		// The unclaimed flag did not move
		assert.Equal(t, 1, after.flags[maps.Position{X: 1800, Y: 100, Z: 500}])
	}
}

// unsignedMountain holds two actors and a sprite whose x only fits when
// Prop2 positions are unsigned.
func unsignedMountain(t *testing.T) *maps.MapSetup {
	t.Helper()

	setup := emptySetup()
	setup.Cubes[0].Props1 = []maps.Prop1{
		actor(Jiggy, 100, 0, 0),
		actor(Jiggy, 200, 0, 0),
	}
	setup.Cubes[0].Props2 = []maps.Prop2{
		{
			Kind:     maps.Prop2Sprite,
			Position: maps.Position{X: 40000 - 65536, Y: 0, Z: 0},
			Sprite:   NoteSprite,
		},
	}

	data, err := setup.Bytes()
	require.NoError(t, err)

	unsigned, err := maps.FromBytes(data, maps.Options{Generation: maps.UnsignedPositions})
	require.NoError(t, err)
	require.Equal(t, int32(40000), unsigned.Cubes[0].Props2[0].Position.X)
	return unsigned
}

func TestShuffleEntitiesUnsigned(t *testing.T) {
	model := world.Default()

	for seed := int64(0); seed < 20; seed++ {
		archive := testArchive(t, model)
		ordinal, ok := archive.Table().Lookup("MumbosMountain")
		require.True(t, ok)
		setup := unsignedMountain(t)
		require.NoError(t, archive.Set(ordinal, assets.Setup{MapSetup: setup}))

		r := New(model, archive, nil, nil, rand.New(rand.NewSource(seed)), DEFAULT_OPTIONS)
		_, err := r.ShuffleEntities([]C.ActorID{Jiggy}, []C.SpriteID{NoteSprite})
		require.NoError(t, err)

		_, err = setup.Bytes()
		require.NoError(t, err, "seed %d", seed)

		slots := make([]int32, 0)
		for _, prop := range setup.Cubes[0].Props1 {
			slots = append(slots, prop.Position.X)
		}
		for _, prop := range setup.Cubes[0].Props2 {
			slots = append(slots, maps.UnsignedPositions.Signed(prop.Position).X)
		}
		assert.ElementsMatch(t, []int32{100, 200, 40000 - 65536}, slots, "seed %d", seed)
	}
}

func TestShuffleEntityErrors(t *testing.T) {
	model := world.Default()

	archive := testArchive(t, model)
	setup, err := archive.NamedMapSetup("MmTickersTower")
	require.NoError(t, err)
	setup.Cubes[0].Props1 = []maps.Prop1{actor(C.ExtraLife, 0, 0, 0)}

	r := New(model, archive, nil, nil, rand.New(rand.NewSource(1)), DEFAULT_OPTIONS)
	_, err = r.ShuffleEntities([]C.ActorID{C.ExtraLife}, nil)
	assert.True(t, errors.Is(err, ErrNoLinkedFlag))

	options := DEFAULT_OPTIONS
	options.SnapDistance = 0
	r = New(model, testArchive(t, model), nil, nil, rand.New(rand.NewSource(1)), options)
	_, err = r.ShuffleEntities([]C.ActorID{C.ExtraLife}, nil)
	assert.ErrorIs(t, err, ErrNoNearbyCube)
}

func TestRemoveActors(t *testing.T) {
	model := world.Default()
	archive := testArchive(t, model)

	r := New(model, archive, nil, nil, rand.New(rand.NewSource(1)), DEFAULT_OPTIONS)
	removed, err := r.RemoveActors([]C.ActorID{DEFAULT_REMOVED_ACTOR})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	removed, err = r.RemoveActors([]C.ActorID{DEFAULT_REMOVED_ACTOR})
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	assert.ErrorIs(t, r.UnlockMoves(), ErrNoImage)
	assert.ErrorIs(t, r.UnlockNoteDoors([]int{0}), ErrNoImage)
}
