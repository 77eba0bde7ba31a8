package report

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cfoust/rando/pkg/rando"
	"github.com/cfoust/rando/pkg/world"
	"github.com/cfoust/rando/pkg/xex"

	C "github.com/cfoust/rando/pkg/game/constants"

	"github.com/go-redis/redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpoiler(t *testing.T) {
	model := world.Default()
	order := model.WorldLevels()

	spoiler := New(42, "5f1d", "test")
	spoiler.SetWorlds(model, &rando.Worlds{
		Order: order,
		Assignments: []rando.Assignment{
			{
				Level: world.MumbosMountain,
				Index: 0,
				Molehill: xex.Molehill{
					Teach:     1,
					Refresher: 2,
					Ability:   C.TalonTrot,
				},
			},
		},
	})

	// The lair is not a slot
	assert.Len(t, spoiler.Slots, len(order))
	assert.Equal(t, model.Level(world.MumbosMountain).Name, spoiler.Slots[0].Slot)
	assert.Equal(t, spoiler.Slots[0].Slot, spoiler.Slots[0].Level)

	spoiler.AddEntities(model, []rando.Shuffled{
		{Level: world.MumbosMountain, Actors: 2, Linked: 1},
	})
	spoiler.AddEntities(model, []rando.Shuffled{
		{Level: world.MumbosMountain, Sprites: 3},
		{Level: world.FreezeezyPeak, Sprites: 1},
	})
	require.Len(t, spoiler.Entities, 2)
	assert.Equal(t, Entities{
		Level:   model.Level(world.MumbosMountain).Name,
		Actors:  2,
		Sprites: 3,
		Linked:  1,
	}, spoiler.Entities[0])

	data, err := spoiler.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "ability: TalonTrot")

	after, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, spoiler.Slots, after.Slots)
	assert.Equal(t, spoiler.Molehills, after.Molehills)
	assert.Equal(t, spoiler.Entities, after.Entities)
	assert.True(t, spoiler.Created.Equal(after.Created))
	assert.Equal(t, Key{Seed: 42, Settings: "5f1d"}, after.Key())

	_, err = Unmarshal([]byte("seed: [1"))
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	for _, key := range []Key{
		{Seed: 1, Settings: "00ff"},
		{Seed: -7, Settings: "00ff"},
		{Seed: -7},
		{Seed: 0},
	} {
		parsed, err := ParseKey(key.String())
		require.NoError(t, err)
		assert.Equal(t, key, parsed)
	}

	assert.Equal(t, "12-abcd", Key{Seed: 12, Settings: "abcd"}.String())

	_, err := ParseKey("abcd")
	assert.Error(t, err)
	_, err = ParseKey("x-abcd")
	assert.Error(t, err)
}

func TestFSStore(t *testing.T) {
	ctx := context.Background()
	directory := t.TempDir() + "/spoilers"
	store := FSStore(directory)

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = store.Load(ctx, Key{Seed: 1})
	assert.ErrorIs(t, err, Missing)

	first := New(1, "aaaa", "test")
	first.NoteDoors = []int{0, 3}
	first.RemovedActors = 4

	// Same seed, other settings
	second := New(1, "bbbb", "test")
	second.Moves = true

	other := New(2, "aaaa", "test")
	require.NoError(t, Publish(ctx, first, store))
	require.NoError(t, Publish(ctx, second, store))
	require.NoError(t, Publish(ctx, other, store))

	now := time.Now()
	for i, spoiler := range []*Spoiler{first, other, second} {
		modified := now.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(store.path(spoiler.Key()), modified, modified))
	}

	// Files that are not spoilers are skipped
	require.NoError(t, os.WriteFile(directory+"/notes.yaml", []byte("x"), 0644))

	keys, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Key{second.Key(), other.Key(), first.Key()}, keys)

	after, err := store.Load(ctx, first.Key())
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.Seed)
	assert.Equal(t, []int{0, 3}, after.NoteDoors)
	assert.Equal(t, 4, after.RemovedActors)
	assert.False(t, after.Moves)

	latest, err := Latest(ctx, store, 1)
	require.NoError(t, err)
	assert.Equal(t, "bbbb", latest.Settings)
	assert.True(t, latest.Moves)

	_, err = Latest(ctx, store, 3)
	assert.ErrorIs(t, err, Missing)
}

func TestRedisStoreUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client, SPOILER_EXPIRY)

	// A dead server is not the same as a missing spoiler
	_, err := store.Load(ctx, Key{Seed: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, Missing)

	_, err = store.List(ctx)
	assert.Error(t, err)

	err = Publish(ctx, New(1, "aaaa", "test"), store)
	assert.Error(t, err)
}
