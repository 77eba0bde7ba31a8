package assets

import (
	"testing"

	C "github.com/cfoust/rando/pkg/game/constants"
	"github.com/cfoust/rando/pkg/game/io"
	"github.com/cfoust/rando/pkg/game/text"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, asset Asset, decode func(p *io.Buffer) (Asset, error)) Asset {
	p := io.Buffer{}
	require.NoError(t, asset.Encode(&p))
	data := []byte(p)

	decoded, err := decode(&p)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())

	again := io.Buffer{}
	require.NoError(t, decoded.Encode(&again))
	assert.Equal(t, data, []byte(again))
	return decoded
}

func TestAnimation(t *testing.T) {
	animation := &Animation{
		StartFrame: 1,
		EndFrame:   60,
		Tracks: []Track{
			{
				Bone:      12,
				Transform: 3,
				Keyframes: []Keyframe{
					{Unk1: true, Frame: 1, Factor: 1.5},
					{Unk2: true, Frame: 0x3FFF, Factor: 2.25},
				},
			},
			{Bone: 0xFFF, Transform: 0xF},
		},
	}

	decoded := roundTrip(t, animation, func(p *io.Buffer) (Asset, error) {
		return DecodeAnimation(p)
	})
	assert.Equal(t, animation, decoded)

	animation.Tracks[0].Keyframes[0].Frame = 0x4000
	assert.Error(t, animation.Encode(&io.Buffer{}))

	p := io.Buffer{0, 0, 0, 0, 0, 0, 0, 1}
	_, err := DecodeAnimation(&p)
	assert.Error(t, err)
}

func TestDialogueCommands(t *testing.T) {
	p := io.Buffer{
		byte(OpMrVileCheck), 0x01, 0x00,
		byte(OpTrigger), 0x02, 0x09, 0x00,
		byte(C.Banjo), 0x03, 0x41, 0x42, 0x00,
	}

	command, err := DecodeCommand(&p)
	require.NoError(t, err)
	assert.Equal(t, OpMrVileCheck, command.Op)

	command, err = DecodeCommand(&p)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), command.Value)

	command, err = DecodeCommand(&p)
	require.NoError(t, err)
	speaker, ok := command.Speaker()
	assert.True(t, ok)
	assert.Equal(t, C.Banjo, speaker)
	assert.Equal(t, "AB", command.Text.String())

	// Checks never carry text
	p = io.Buffer{byte(OpBottlesCheck), 0x02, 0x41, 0x00}
	_, err = DecodeCommand(&p)
	assert.Error(t, err)

	p = io.Buffer{0x05, 0x01, 0x00}
	_, err = DecodeCommand(&p)
	assert.Error(t, err)

	p = io.Buffer{0xDC, 0x01, 0x00}
	_, err = DecodeCommand(&p)
	assert.Error(t, err)

	assert.Error(t, Command{Op: 5}.Encode(&io.Buffer{}))
}

func TestDialogueOffsets(t *testing.T) {
	language := []byte{
		// bottom
		0x01, byte(OpEndOfSection), 0x01, 0x00,
		// top
		0x00,
	}

	build := func(offset func(i int) []byte) []byte {
		data := []byte{C.NUM_LANGUAGES}
		for i := 0; i < C.NUM_LANGUAGES; i++ {
			data = append(data, offset(i*len(language))...)
		}
		for i := 0; i < C.NUM_LANGUAGES; i++ {
			data = append(data, language...)
		}
		return data
	}

	for _, data := range [][]byte{
		build(func(i int) []byte { return []byte{byte(i >> 8), byte(i)} }),
		build(func(i int) []byte { return []byte{byte(i), byte(i >> 8)} }),
		build(func(i int) []byte { return []byte{0xAB, 0xCD} }),
	} {
		p := io.Buffer(data)
		dialogue, err := DecodeDialogue(&p)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Len())
		assert.Equal(t, KindDialogue, dialogue.Kind())
		assert.Equal(t, OpEndOfSection, dialogue.Scripts[C.German].Bottom[0].Op)

		again := io.Buffer{}
		require.NoError(t, dialogue.Encode(&again))
		assert.Equal(t, data, []byte(again))
	}

	p := io.Buffer{0x03}
	_, err := DecodeDialogue(&p)
	assert.Error(t, err)
}

func TestQuestion(t *testing.T) {
	question := &Question{QuestionKind: QUESTION_KIND_QUIZ}
	for i := range question.Translations {
		question.Translations[i] = Translation{
			Lines: []QuestionLine{
				{Slot: SlotPrompt, Text: text.MustFromString("WHO")},
				{Slot: SlotAnswer2, Text: text.MustFromString("B")},
				{Slot: SlotPrompt, Text: text.MustFromString("IS IT")},
				{Slot: SlotAnswer1, Text: text.MustFromString("A")},
				{Slot: SlotAnswer3, Text: text.MustFromString("C")},
			},
		}
	}

	decoded := roundTrip(t, question, func(p *io.Buffer) (Asset, error) {
		return DecodeQuestion(p)
	})
	assert.Equal(t, question, decoded)

	prompt := question.Translations[C.English].Slot(SlotPrompt)
	require.Len(t, prompt, 2)
	assert.Equal(t, "IS IT", prompt[1].String())

	// Offsets are relative to the end of the offset table
	p := io.Buffer{}
	require.NoError(t, question.Encode(&p))
	first := len(p[3+8:]) / C.NUM_LANGUAGES
	assert.Equal(t, []byte{0, 0, 0, byte(first)}, []byte(p[3:7]))

	p = io.Buffer{C.NUM_LANGUAGES, 0x02, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0x01, 0x84, 0x01, 0x00}
	_, err := DecodeQuestion(&p)
	assert.Error(t, err)
}

func TestSprite(t *testing.T) {
	sprite := &Sprite{
		Unk04: 1,
		Unk0E: 6,
		Frames: []SpriteFrame{
			{Unk04: 32, Unk06: 16, TextureID: 100, Unk0C: -1},
			{Unk04: 8, Unk06: 8, TextureID: 101, Unk12: -8},
		},
	}

	decoded := roundTrip(t, sprite, func(p *io.Buffer) (Asset, error) {
		return DecodeSprite(p)
	})
	assert.Equal(t, sprite.Frames, decoded.(*Sprite).Frames)

	p := io.Buffer{}
	require.NoError(t, sprite.Encode(&p))
	data := []byte(p)

	// Frame offsets must be a multiple of the frame size
	broken := append([]byte{}, data...)
	broken[16+7] = 1
	p = io.Buffer(broken)
	_, err := DecodeSprite(&p)
	assert.Error(t, err)

	// and name the frames in order
	broken = append([]byte{}, data...)
	copy(broken[16+4:16+8], []byte{0, 0, 0, 0})
	p = io.Buffer(broken)
	_, err = DecodeSprite(&p)
	assert.Error(t, err)

	// The trailer repeats the frame size
	broken = append([]byte{}, data...)
	broken[len(broken)-1] = 0xFF
	p = io.Buffer(broken)
	_, err = DecodeSprite(&p)
	assert.Error(t, err)

	broken = append([]byte{}, data...)
	broken[2] = 0x20
	p = io.Buffer(broken)
	_, err = DecodeSprite(&p)
	assert.Error(t, err)

	assert.Equal(t, []byte{
		0, 0, 0, 0,
		0, 0, 0, SPRITE_FRAME_SIZE,
	}, data[16:24])

	// Offsets follow the frames when they are added or removed
	decoded.(*Sprite).Frames = append(decoded.(*Sprite).Frames, SpriteFrame{})
	p = io.Buffer{}
	require.NoError(t, decoded.Encode(&p))
	assert.Equal(t, []byte{0, 0, 0, 2 * SPRITE_FRAME_SIZE}, []byte(p[16+8:16+12]))

	decoded.(*Sprite).Frames = decoded.(*Sprite).Frames[1:]
	p = io.Buffer{}
	require.NoError(t, decoded.Encode(&p))
	assert.Equal(t, []byte{0, 0, 0, SPRITE_FRAME_SIZE}, []byte(p[16+4:16+8]))
	after, err := DecodeSprite(&p)
	require.NoError(t, err)
	assert.Len(t, after.Frames, 2)
}
