package xex

import (
	"testing"

	C "github.com/cfoust/rando/pkg/game/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const IMAGE_SIZE = 0x468000

func testImage(t *testing.T) *Image {
	t.Helper()
	return New(make([]byte, IMAGE_SIZE), DefaultLayout())
}

func TestBranch(t *testing.T) {
	assert.Equal(t, uint32(0x4BF5B838), Jump(0x8218aab8, 0x820e62f0))
	assert.Equal(t, uint32(0x4BF5B839), Call(0x8218aab8, 0x820e62f0))
	assert.Equal(t, uint32(0x48000010), Jump(0x82000000, 0x82000010))

	target, link, ok := BranchTarget(0x8218aab8, Call(0x8218aab8, 0x820e62f0))
	assert.True(t, ok)
	assert.True(t, link)
	assert.Equal(t, uint32(0x820e62f0), target)

	target, link, ok = BranchTarget(0x82000000, Jump(0x82000000, 0x82000010))
	assert.True(t, ok)
	assert.False(t, link)
	assert.Equal(t, uint32(0x82000010), target)

	_, _, ok = BranchTarget(0x82000000, BLR)
	assert.False(t, ok)
}

func TestInstructions(t *testing.T) {
	assert.Equal(t, uint32(0x38600005), Li(R3, 5))
	assert.Equal(t, uint32(0x3880000C), Li(R4, 12))
	assert.Equal(t, uint32(0x3860FFFF), Li(R3, -1))
	assert.Equal(t, []uint32{0x7D8802A6, 0x9181FFF8, 0x9421FFA0}, Prologue())
	assert.Equal(t, []uint32{0x38210060, 0x8181FFF8, 0x7D8803A6, 0x4E800020}, Epilogue())
}

func TestTranslation(t *testing.T) {
	assert.Equal(t, 0x44FD90, DataOffset(0x82455d90))
	assert.Equal(t, 0x460D48, DataOffset(0x82466d48))
	assert.Equal(t, 0x442CF4, CodeOffset(CUSTOM_CODE))

	assert.Panics(t, func() { DataOffset(0x8244FFFF) })
	assert.Panics(t, func() { DataOffset(0x825085B0) })
	assert.Panics(t, func() { CodeOffset(0x82450000) })
}

func TestLayout(t *testing.T) {
	layout := DefaultLayout()
	assert.Equal(t, uint32(0x82455d90), layout.LairWarps)
	assert.Equal(t, uint32(6), layout.MolehillStride)
	assert.Equal(t, 2, layout.NoteDoorWidth)
	assert.Len(t, layout.NoteDoorCosts, 12)
	assert.Equal(t, CUSTOM_CODE, layout.CustomCode)
	assert.Nil(t, layout.Hooks)

	_, err := ParseLayout([]byte("molehillStride: 6\nnoteDoorWidth: 3\n"))
	assert.Error(t, err)

	_, err = ParseLayout([]byte("molehillStride: 4\nnoteDoorWidth: 2\n"))
	assert.Error(t, err)
}

func TestLairWarps(t *testing.T) {
	image := testImage(t)

	require.NoError(t, image.SetLairWarp(3, LairWarp{Map: 0x69, Exit: 0x12}))
	warp, err := image.LairWarp(3)
	require.NoError(t, err)
	assert.Equal(t, LairWarp{Map: 0x69, Exit: 0x12}, warp)

	offset := DataOffset(0x82455d90 + 12)
	assert.Equal(t, []byte{0x00, 0x69, 0x00, 0x12}, image.Bytes()[offset:offset+4])

	warps, err := image.LairWarps(10)
	require.NoError(t, err)
	assert.Len(t, warps, 10)
	assert.Equal(t, LairWarp{}, warps[2])
}

func TestMolehill(t *testing.T) {
	image := testImage(t)

	offset := DataOffset(0x82466d48 + 2*6)
	image.Bytes()[offset+4] = 0xAB

	molehill := Molehill{Teach: 0x0DF3, Refresher: 0x0DF4, Ability: C.TalonTrot}
	require.NoError(t, image.SetMolehill(2, molehill))

	assert.Equal(
		t,
		[]byte{0x0D, 0xF3, 0x0D, 0xF4, 0xAB, byte(C.TalonTrot)},
		image.Bytes()[offset:offset+6],
	)

	again, err := image.Molehill(2)
	require.NoError(t, err)
	assert.Equal(t, molehill, again)
}

func TestNoteDoors(t *testing.T) {
	image := testImage(t)
	for i, cost := range image.Layout.NoteDoorCosts {
		require.NoError(t, image.WriteUint16(image.noteDoorOffset(i), uint16(cost)))
	}

	require.NoError(t, image.UnlockNoteDoors([]int{0, 3}))

	cost, err := image.NoteDoorCost(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), cost)

	cost, err = image.NoteDoorCost(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(180), cost)

	// Door 0 is already open, so nothing is written
	assert.Error(t, image.UnlockNoteDoors([]int{1, 0}))
	cost, err = image.NoteDoorCost(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(180), cost)

	assert.Error(t, image.UnlockNoteDoors([]int{12}))
}

func TestInjectStartup(t *testing.T) {
	image := testImage(t)
	_, err := image.InjectStartup(nil)
	assert.ErrorIs(t, err, ErrNoHooks)

	const (
		site     uint32 = 0x82100000
		original uint32 = 0x82200000
		setFlag  uint32 = 0x82300000
		setFlags uint32 = 0x82300100
	)

	image.Layout.Hooks = &Hooks{
		SetFlag:  setFlag,
		SetFlags: setFlags,
		Startup:  site,
		TextSize: 0x100,
	}
	require.NoError(t, image.WriteUint32(0x100, 0x1000))

	// Not a call yet
	_, err = image.InjectStartup(nil)
	assert.Error(t, err)

	require.NoError(t, image.WriteUint32(CodeOffset(site), Call(site, original)))

	start, err := image.InjectStartup([]Run{
		{Flag: 5, Count: 1},
		{Flag: 10, Count: 3},
		{Flag: 99, Count: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, CUSTOM_CODE, start)

	expected := Prologue()
	expected = append(expected,
		Li(R3, 5),
		Call(start+16, setFlag),
		Li(R3, 10),
		Li(R4, 3),
		Call(start+28, setFlags),
		Call(start+32, original),
	)
	expected = append(expected, Epilogue()...)

	for i, word := range expected {
		actual, err := image.ReadUint32(CodeOffset(start + uint32(i*4)))
		require.NoError(t, err)
		assert.Equal(t, word, actual, "word %d", i)
	}

	hook, err := image.ReadUint32(CodeOffset(site))
	require.NoError(t, err)
	assert.Equal(t, Call(site, start), hook)

	size, err := image.ReadUint32(0x100)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1000+len(expected)*4), size)

	// The next routine follows the first and chains to it
	next, err := image.InjectStartup([]Run{{Flag: 1, Count: 1}})
	require.NoError(t, err)
	assert.Equal(t, start+uint32(len(expected)*4), next)

	target, _, ok := BranchTarget(next+20, mustRead(t, image, next+20))
	assert.True(t, ok)
	assert.Equal(t, start, target)
}

func mustRead(t *testing.T, image *Image, address uint32) uint32 {
	t.Helper()
	word, err := image.ReadUint32(CodeOffset(address))
	require.NoError(t, err)
	return word
}

func TestEmitter(t *testing.T) {
	image := testImage(t)
	emitter := image.Emitter(CUSTOM_CODE)

	require.NoError(t, emitter.Emit(BLR))
	assert.Equal(t, CUSTOM_CODE+4, emitter.Cursor())

	// Occupied
	assert.Error(t, image.Emitter(CUSTOM_CODE).Emit(BLR))

	assert.Error(t, emitter.SetFlag(0x82300000, 0x8000))
	assert.Error(t, emitter.SetFlags(0x82300000, 1, 0xFFFF))
}

func TestUnlockMoves(t *testing.T) {
	// The built-in layout cannot unlock moves, and says why up front
	image := testImage(t)
	assert.ErrorIs(t, DefaultLayout().CanUnlockMoves(), ErrNoHooks)
	assert.ErrorIs(t, image.UnlockMoves(), ErrNoHooks)

	const (
		site     uint32 = 0x82100000
		original uint32 = 0x82200000
	)

	layout, err := ParseLayout(append(append([]byte{}, DEFAULT_LAYOUT...), []byte(`
hooks:
  setFlag: 0x82300000
  setFlags: 0x82300100
  startup: 0x82100000
`)...))
	require.NoError(t, err)
	assert.ErrorIs(t, layout.CanUnlockMoves(), ErrNoMoveFlags)

	layout.MoveFlags = []Run{{Flag: 0x20, Count: 15}}
	require.NoError(t, layout.CanUnlockMoves())

	image = New(make([]byte, IMAGE_SIZE), layout)
	require.NoError(t, image.WriteUint32(CodeOffset(site), Call(site, original)))
	require.NoError(t, image.UnlockMoves())

	hook := mustRead(t, image, site)
	assert.Equal(t, Call(site, CUSTOM_CODE), hook)

	// li r3, li r4, bl after the prologue
	assert.Equal(t, Li(R3, 0x20), mustRead(t, image, CUSTOM_CODE+12))
	assert.Equal(t, Li(R4, 15), mustRead(t, image, CUSTOM_CODE+16))
}
