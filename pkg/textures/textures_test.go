package textures

import (
	"path/filepath"
	"testing"

	"github.com/cfoust/rando/pkg/game/io"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) []byte {
	p := io.Buffer{}
	require.NoError(t, p.Put(uint32(3)))
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Put(uint32(0x1000*(i+1))))
		for j := 0; j < RECORD_SIZE-4; j++ {
			p.PutByte(byte(i*16 + j))
		}
	}
	return p
}

func TestRoundTrip(t *testing.T) {
	data := sampleTable(t)

	table, err := Decode(data, 3)
	require.NoError(t, err)
	require.Len(t, table.Records, 3)

	encoded, err := table.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, encoded)

	_, err = Decode(data, DB360_TEXTURES)
	assert.Error(t, err)

	_, err = Decode(data[:30], 0)
	assert.Error(t, err)
}

func TestRedirect(t *testing.T) {
	table, err := Decode(sampleTable(t), 0)
	require.NoError(t, err)

	require.NoError(t, table.Redirect(0, 2))
	require.NoError(t, table.Redirect(2, 0))

	// Redirects read the loaded addresses, so swaps work
	first, err := table.Get(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3000), first.Edited)
	last, err := table.Get(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1000), last.Edited)

	assert.Error(t, table.Redirect(0, 3))

	path := filepath.Join(t.TempDir(), "db360.textures.cmp")
	require.NoError(t, table.Save(path))

	loaded, err := Load(path, 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3000), loaded.Records[0].Address)
	assert.Equal(t, uint32(0x2000), loaded.Records[1].Address)
}
