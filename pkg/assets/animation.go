package assets

import (
	"fmt"

	"github.com/cfoust/rando/pkg/game/io"
)

// Transform selects what a track animates. The game knows about rotation,
// scale and translation per axis; the nibble is kept as is.
type Transform uint8

type Keyframe struct {
	Unk1   bool
	Unk2   bool
	Frame  uint16
	Factor float32
}

type Track struct {
	Bone      uint16
	Transform Transform
	Keyframes []Keyframe
}

type Animation struct {
	StartFrame uint16
	EndFrame   uint16
	Tracks     []Track
}

func (a *Animation) Kind() Kind {
	return KindAnimation
}

func DecodeAnimation(p *io.Buffer) (*Animation, error) {
	animation := Animation{}

	var count, padding uint16
	err := p.Get(&animation.StartFrame, &animation.EndFrame, &count, &padding)
	if err != nil {
		return nil, err
	}

	if padding != 0 {
		return nil, &io.UnexpectedError{
			What: "animation padding",
			Want: 0,
			Got:  uint32(padding),
		}
	}

	for i := 0; i < int(count); i++ {
		var header, numKeyframes uint16
		err := p.Get(&header, &numKeyframes)
		if err != nil {
			return nil, fmt.Errorf("could not read track %d: %w", i, err)
		}

		track := Track{
			Bone:      header >> 4,
			Transform: Transform(header & 0x0F),
		}

		for j := 0; j < int(numKeyframes); j++ {
			var frame, factor uint16
			err := p.Get(&frame, &factor)
			if err != nil {
				return nil, fmt.Errorf("could not read keyframe %d of track %d: %w", j, i, err)
			}

			track.Keyframes = append(track.Keyframes, Keyframe{
				Unk1:   frame&0x8000 != 0,
				Unk2:   frame&0x4000 != 0,
				Frame:  frame & 0x3FFF,
				Factor: io.FixedToFloat(factor),
			})
		}

		animation.Tracks = append(animation.Tracks, track)
	}

	return &animation, nil
}

func (a *Animation) Encode(p *io.Buffer) error {
	if len(a.Tracks) > 0xFFFF {
		return fmt.Errorf("too many tracks (%d)", len(a.Tracks))
	}

	err := p.Put(a.StartFrame, a.EndFrame, uint16(len(a.Tracks)), uint16(0))
	if err != nil {
		return err
	}

	for i, track := range a.Tracks {
		if track.Bone > 0x0FFF || track.Transform > 0x0F {
			return fmt.Errorf(
				"track %d: bone %d or transform %d out of range",
				i,
				track.Bone,
				track.Transform,
			)
		}

		err := p.Put(
			track.Bone<<4|uint16(track.Transform),
			uint16(len(track.Keyframes)),
		)
		if err != nil {
			return err
		}

		for _, keyframe := range track.Keyframes {
			if keyframe.Frame > 0x3FFF {
				return fmt.Errorf("track %d: frame %d out of range", i, keyframe.Frame)
			}

			header := keyframe.Frame
			if keyframe.Unk1 {
				header |= 0x8000
			}
			if keyframe.Unk2 {
				header |= 0x4000
			}

			err := p.Put(header, io.FloatToFixed(keyframe.Factor))
			if err != nil {
				return err
			}
		}
	}

	return nil
}
