package maps

import (
	"fmt"
	"math"

	"github.com/cfoust/rando/pkg/game/io"
)

func putPosition(p *io.Buffer, position Position, generation Generation) error {
	min, max := int32(math.MinInt16), int32(math.MaxInt16)
	if generation == UnsignedPositions {
		min, max = 0, math.MaxUint16
	}

	for _, value := range []int32{position.X, position.Y, position.Z} {
		if value < min || value > max {
			return fmt.Errorf("position %s does not fit in 16 bits", position)
		}
	}

	return p.Put(
		uint16(position.X),
		uint16(position.Y),
		uint16(position.Z),
	)
}

func (prop *Prop1) Encode(p *io.Buffer) error {
	if prop.Selector > 0x1FF {
		return fmt.Errorf("selector %d does not fit in 9 bits", prop.Selector)
	}

	if prop.Category > 0x3F {
		return fmt.Errorf("category %d does not fit in 6 bits", prop.Category)
	}

	err := putPosition(p, prop.Position, SignedPositions)
	if err != nil {
		return err
	}

	return p.Put(
		prop.Bitfield(),
		prop.ID,
		prop.Marker,
		prop.Byte0B,
		prop.Bitfield0C,
		prop.Bitfield10,
	)
}

func (prop *Prop2) Encode(p *io.Buffer, generation Generation) error {
	flags := prop.Flags
	if prop.Kind == Prop2Sprite {
		if prop.Sprite > 0xFFF {
			return fmt.Errorf("sprite id %d does not fit in 12 bits", prop.Sprite)
		}
		flags = uint32(prop.Sprite)<<20 | prop.Flags&0x000FFFFF
	}

	err := p.Put(flags)
	if err != nil {
		return err
	}

	err = putPosition(p, prop.Position, generation)
	if err != nil {
		return err
	}

	if prop.Kind == Prop2Actor {
		if prop.Bitfield0B&0b11 != 0b10 {
			return fmt.Errorf("actor bitfield 0x%02X lacks the actor bit", prop.Bitfield0B)
		}
		p.PutByte(prop.Scale, prop.Bitfield0B)
		return nil
	}

	if prop.Bitfield0A&0b11 != 0 {
		return fmt.Errorf("sprite bitfield 0x%04X has actor bits set", prop.Bitfield0A)
	}

	return p.Put(prop.Bitfield0A)
}

func (c *Cube) encode(p *io.Buffer, generation Generation) error {
	if c.Missing {
		if len(c.Props1) > 0 || len(c.Props2) > 0 {
			return fmt.Errorf("missing cube cannot hold props")
		}
		p.PutByte(CUBE_MISSING)
		return nil
	}

	if len(c.Props1) > 0xFF || len(c.Props2) > 0xFF {
		return fmt.Errorf(
			"too many props (%d, %d)",
			len(c.Props1),
			len(c.Props2),
		)
	}

	p.PutByte(CUBE_POPULATED, CUBE_HEADER, byte(len(c.Props1)))
	if len(c.Props1) > 0 {
		p.PutByte(PROPS1_LIST)
		for i := range c.Props1 {
			err := c.Props1[i].Encode(p)
			if err != nil {
				return err
			}
		}
	}

	p.PutByte(PROPS2_HEADER, byte(len(c.Props2)))
	if len(c.Props2) > 0 {
		p.PutByte(PROPS2_LIST)
		for i := range c.Props2 {
			err := c.Props2[i].Encode(p, generation)
			if err != nil {
				return err
			}
		}
	}

	p.PutByte(CUBE_END)
	return nil
}

// putSection writes a numbered field of a camera or light.
func putSection(p *io.Buffer, id byte, values ...interface{}) error {
	p.PutByte(id)
	return p.Put(values...)
}

func (c *Camera) Encode(p *io.Buffer) error {
	err := p.Put(c.ID, uint8(CAMERA_HEADER), uint8(c.Type))
	if err != nil {
		return err
	}

	type field struct {
		id     byte
		values []interface{}
	}

	var fields []field
	switch c.Type {
	case CameraEmpty:
		return nil
	case CameraPivot, CameraZoom:
		fields = []field{
			{1, []interface{}{c.Position}},
			{2, []interface{}{c.Speed}},
			{3, []interface{}{c.Rotation, c.Acceleration}},
			{4, []interface{}{c.Angles}},
			{5, []interface{}{c.Unknown}},
		}
		if c.Type == CameraZoom {
			fields = append(fields, field{6, []interface{}{c.Distances}})
		}
	case CameraStatic:
		fields = []field{
			{1, []interface{}{c.Position}},
			{2, []interface{}{c.Angles}},
		}
	case CameraRandom:
		fields = []field{
			{1, []interface{}{c.Unknown}},
		}
	default:
		return fmt.Errorf("unknown camera type %d", c.Type)
	}

	for _, field := range fields {
		err := putSection(p, field.id, field.values...)
		if err != nil {
			return fmt.Errorf("camera section %d: %w", field.id, err)
		}
	}

	p.PutByte(SECTION_END)
	return nil
}

func (l *Lighting) Encode(p *io.Buffer) error {
	err := putSection(p, 2, l.Position)
	if err != nil {
		return err
	}

	err = putSection(p, 3, l.Unknown)
	if err != nil {
		return err
	}

	return putSection(p, 4, l.Colour)
}

// Bounds derives the grid extent from the cubes.
func (m *MapSetup) Bounds() (min, max Position) {
	if len(m.Cubes) == 0 {
		return m.emptyBounds[0], m.emptyBounds[1]
	}

	min = Position{math.MaxInt32, math.MaxInt32, math.MaxInt32}
	max = Position{math.MinInt32, math.MinInt32, math.MinInt32}
	for _, cube := range m.Cubes {
		min.X = minInt(min.X, cube.X)
		min.Y = minInt(min.Y, cube.Y)
		min.Z = minInt(min.Z, cube.Z)
		max.X = maxInt(max.X, cube.X)
		max.Y = maxInt(max.Y, cube.Y)
		max.Z = maxInt(max.Z, cube.Z)
	}

	return min, max
}

func minInt(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Cubes are implied by their position in the stream, so they must fill the
// bounding box in x, y, z order.
func (m *MapSetup) checkGrid(min, max Position) error {
	i := 0
	for x := int64(min.X); x <= int64(max.X); x++ {
		for y := int64(min.Y); y <= int64(max.Y); y++ {
			for z := int64(min.Z); z <= int64(max.Z); z++ {
				if i >= len(m.Cubes) {
					return fmt.Errorf("grid is missing cube (%d, %d, %d)", x, y, z)
				}

				cube := m.Cubes[i]
				if int64(cube.X) != x || int64(cube.Y) != y || int64(cube.Z) != z {
					return fmt.Errorf(
						"cube %d is at (%d, %d, %d), expected (%d, %d, %d)",
						i,
						cube.X, cube.Y, cube.Z,
						x, y, z,
					)
				}
				i++
			}
		}
	}

	if i != len(m.Cubes) {
		return fmt.Errorf("grid has %d cubes outside of its bounds", len(m.Cubes)-i)
	}

	return nil
}

func (m *MapSetup) Encode(p *io.Buffer) error {
	min, max := m.Bounds()
	if len(m.Cubes) > 0 {
		err := m.checkGrid(min, max)
		if err != nil {
			return err
		}
	}

	err := p.Put(
		SETUP_HEADER,
		min.X, min.Y, min.Z,
		max.X, max.Y, max.Z,
	)
	if err != nil {
		return err
	}

	for i := range m.Cubes {
		err := m.Cubes[i].encode(p, m.options.Generation)
		if err != nil {
			cube := m.Cubes[i]
			return fmt.Errorf(
				"could not encode cube (%d, %d, %d): %w",
				cube.X, cube.Y, cube.Z,
				err,
			)
		}
	}

	p.PutByte(SECTION_END, SECTION_CAMERAS)
	for i := range m.Cameras {
		p.PutByte(SECTION_ENTRY)
		err := m.Cameras[i].Encode(p)
		if err != nil {
			return fmt.Errorf("could not encode camera %d: %w", i, err)
		}
	}

	p.PutByte(SECTION_END, SECTION_LIGHTING)
	for i := range m.Lightings {
		p.PutByte(SECTION_ENTRY)
		err := m.Lightings[i].Encode(p)
		if err != nil {
			return fmt.Errorf("could not encode lighting %d: %w", i, err)
		}
	}

	p.PutByte(SECTION_END, SECTION_END)
	return nil
}

func (m *MapSetup) Bytes() ([]byte, error) {
	p := io.Buffer{}
	err := m.Encode(&p)
	return p, err
}
