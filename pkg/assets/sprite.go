package assets

import (
	"fmt"

	"github.com/cfoust/rando/pkg/game/io"
)

const (
	SPRITE_FORMAT     = 0x1000
	SPRITE_FRAME_SIZE = 0x1C
)

// SpriteFrame is a fixed 28-byte record. The trailing four words are
// derived: two zeroes and a copy of Unk04 and Unk06.
type SpriteFrame struct {
	Unk00     uint16
	Unk02     uint16
	Unk04     uint16
	Unk06     uint16
	Unk08     uint16
	TextureID uint16
	Unk0C     int16
	Unk0E     int16
	Unk10     int16
	Unk12     int16
}

type Sprite struct {
	Unk04  uint16
	Unk06  uint16
	Unk08  uint16
	Unk0A  uint16
	Unk0C  uint16
	Unk0E  uint16
	Frames []SpriteFrame
}

func (s *Sprite) Kind() Kind {
	return KindSprite
}

func decodeSpriteFrame(p *io.Buffer) (SpriteFrame, error) {
	frame := SpriteFrame{}
	var unk14, unk16, unk18, unk1a uint16
	err := p.Get(
		&frame.Unk00,
		&frame.Unk02,
		&frame.Unk04,
		&frame.Unk06,
		&frame.Unk08,
		&frame.TextureID,
		&frame.Unk0C,
		&frame.Unk0E,
		&frame.Unk10,
		&frame.Unk12,
		&unk14,
		&unk16,
		&unk18,
		&unk1a,
	)
	if err != nil {
		return frame, err
	}

	if unk14 != 0 || unk16 != 0 || unk18 != frame.Unk04 || unk1a != frame.Unk06 {
		return frame, fmt.Errorf(
			"frame trailer (%d, %d, %d, %d) does not match its size (%d, %d)",
			unk14,
			unk16,
			unk18,
			unk1a,
			frame.Unk04,
			frame.Unk06,
		)
	}

	return frame, nil
}

func DecodeSprite(p *io.Buffer) (*Sprite, error) {
	sprite := Sprite{}

	var count, format uint16
	err := p.Get(&count, &format)
	if err != nil {
		return nil, err
	}

	if format != SPRITE_FORMAT {
		return nil, &io.UnexpectedError{
			What: "sprite format",
			Want: SPRITE_FORMAT,
			Got:  uint32(format),
		}
	}

	err = p.Get(
		&sprite.Unk04,
		&sprite.Unk06,
		&sprite.Unk08,
		&sprite.Unk0A,
		&sprite.Unk0C,
		&sprite.Unk0E,
	)
	if err != nil {
		return nil, err
	}

	// Frames are stored in order, so each offset is implied by its index
	for i := 0; i < int(count); i++ {
		offset, err := p.GetInt()
		if err != nil {
			return nil, err
		}

		if offset%SPRITE_FRAME_SIZE != 0 {
			return nil, fmt.Errorf("frame offset 0x%X is not a multiple of the frame size", offset)
		}

		want := uint32(i * SPRITE_FRAME_SIZE)
		if offset != want {
			return nil, fmt.Errorf("frame %d is at offset 0x%X, want 0x%X", i, offset, want)
		}
	}

	sprite.Frames = make([]SpriteFrame, 0, count)
	for i := 0; i < int(count); i++ {
		frame, err := decodeSpriteFrame(p)
		if err != nil {
			return nil, fmt.Errorf("could not decode frame %d: %w", i, err)
		}
		sprite.Frames = append(sprite.Frames, frame)
	}

	return &sprite, nil
}

func (s *Sprite) Encode(p *io.Buffer) error {
	if len(s.Frames) > 0xFFFF {
		return fmt.Errorf("too many frames (%d)", len(s.Frames))
	}

	err := p.Put(
		uint16(len(s.Frames)),
		uint16(SPRITE_FORMAT),
		s.Unk04,
		s.Unk06,
		s.Unk08,
		s.Unk0A,
		s.Unk0C,
		s.Unk0E,
	)
	if err != nil {
		return err
	}

	for i := range s.Frames {
		err := p.Put(uint32(i * SPRITE_FRAME_SIZE))
		if err != nil {
			return err
		}
	}

	for _, frame := range s.Frames {
		err := p.Put(
			frame.Unk00,
			frame.Unk02,
			frame.Unk04,
			frame.Unk06,
			frame.Unk08,
			frame.TextureID,
			frame.Unk0C,
			frame.Unk0E,
			frame.Unk10,
			frame.Unk12,
			uint16(0),
			uint16(0),
			frame.Unk04,
			frame.Unk06,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
