package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := Run{
			Seed:    int64(i % 2),
			Created: start.Add(time.Duration(i) * time.Hour),
			Archive: Digest([]byte{byte(i)}),
			Placements: []*Placement{
				{Slot: "Mumbo's Mountain", Level: "Gobi's Valley"},
				{Slot: "Gobi's Valley", Level: "Mumbo's Mountain"},
			},
		}
		require.NoError(t, Record(db, &run))
		assert.NotZero(t, run.ID)
	}

	runs, err := Recent(db, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(0), runs[0].Seed)
	assert.Equal(t, int64(1), runs[1].Seed)
	require.Len(t, runs[0].Placements, 2)
	assert.Equal(t, "Gobi's Valley", runs[0].Placements[0].Level)

	// Seed 0 is the zero value, so it must not turn into an empty filter
	runs, err = BySeed(db, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = BySeed(db, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "", Digest(nil))
	assert.Len(t, Digest([]byte("archive")), 16)
	assert.NotEqual(t, Digest([]byte("a")), Digest([]byte("b")))
}
