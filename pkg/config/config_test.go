package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cfoust/rando/pkg/maps"

	C "github.com/cfoust/rando/pkg/game/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess(t *testing.T) {
	// Default config
	config, err := Process([]string{})
	require.NoError(t, err)
	assert.True(t, config.Worlds)
	assert.Equal(t, "db360.cmp", config.Paths.Archive)
	assert.Equal(t, []C.ActorID{C.ExtraLife, C.EmptyHoneycomb}, config.Actors())
	assert.Equal(t, []C.ActorID{0x373}, config.Removed())
	assert.Equal(t, 10000, config.Options().MaxAttempts)
	assert.Equal(t, "spoilers", config.Report.Directory)

	dir := t.TempDir()

	// yaml config
	{
		yaml := filepath.Join(dir, "config.yaml")
		err = os.WriteFile(yaml, []byte(`
moves: true
noteDoors: [0, 1]
generation: unsigned
paths:
  layout: hooks.yaml
`), 0644)
		require.NoError(t, err)
		config, err := Process([]string{yaml})
		require.NoError(t, err)
		assert.True(t, config.Moves)
		assert.False(t, config.Worlds)
		assert.Equal(t, []int{0, 1}, config.NoteDoors)
		assert.Equal(t, "default.xex", config.Paths.Executable)

		options, err := config.Maps()
		require.NoError(t, err)
		assert.Equal(t, maps.UnsignedPositions, options.Generation)
	}

	// json config
	{
		json := filepath.Join(dir, "config.json")
		err = os.WriteFile(json, []byte(`{
  "entities": {
    "sprites": [1696],
    "mix": true
  }
}`), 0644)
		require.NoError(t, err)
		config, err := Process([]string{json})
		require.NoError(t, err)
		assert.True(t, config.Entities.Mix)
		assert.Equal(t, []C.SpriteID{0x6A0}, config.Sprites())
		assert.Empty(t, config.Actors())
	}

	// multiple yaml
	{
		yaml1 := filepath.Join(dir, "config1.yaml")
		err = os.WriteFile(yaml1, []byte(`
seed: 1234
`), 0644)
		require.NoError(t, err)

		yaml2 := filepath.Join(dir, "config2.yaml")
		err = os.WriteFile(yaml2, []byte(`
paths:
  output: patched
`), 0644)
		require.NoError(t, err)
		config, err := Process([]string{yaml1, yaml2})
		require.NoError(t, err)
		assert.Equal(t, int64(1234), config.Seed)
		assert.Equal(t, "patched", config.Paths.Output)
	}

	// Invalid configs
	{
		bad := filepath.Join(dir, "bad.yaml")
		err = os.WriteFile(bad, []byte(`
noteDoors: [12]
`), 0644)
		require.NoError(t, err)
		_, err = Process([]string{bad})
		assert.Error(t, err)

		conflict := filepath.Join(dir, "conflict.yaml")
		err = os.WriteFile(conflict, []byte(`
seed: 5
`), 0644)
		require.NoError(t, err)
		yaml1 := filepath.Join(dir, "config1.yaml")
		_, err = Process([]string{yaml1, conflict})
		assert.Error(t, err)

		_, err = Process([]string{filepath.Join(dir, "missing.yaml")})
		assert.Error(t, err)

		moves := filepath.Join(dir, "moves.yaml")
		require.NoError(t, os.WriteFile(moves, []byte("moves: true"), 0644))
		_, err = Process([]string{moves})
		assert.ErrorIs(t, err, ErrMovesNeedLayout)

		text := filepath.Join(dir, "config.txt")
		require.NoError(t, os.WriteFile(text, []byte("seed: 1"), 0644))
		_, err = Process([]string{text})
		assert.Error(t, err)
	}
}

func TestSettings(t *testing.T) {
	config, err := Process([]string{})
	require.NoError(t, err)

	settings, err := config.Settings()
	require.NoError(t, err)
	assert.Len(t, settings, 16)

	// Seed and paths do not change the digest
	other := *config
	other.Seed = 99
	other.Paths.Output = "elsewhere"
	other.Report.Directory = ""
	same, err := other.Settings()
	require.NoError(t, err)
	assert.Equal(t, settings, same)

	other.Entities.Mix = !config.Entities.Mix
	changed, err := other.Settings()
	require.NoError(t, err)
	assert.NotEqual(t, settings, changed)
}
