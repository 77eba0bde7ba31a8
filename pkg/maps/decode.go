package maps

import (
	"fmt"

	C "github.com/cfoust/rando/pkg/game/constants"
	"github.com/cfoust/rando/pkg/game/io"
)

func getSignedPosition(p *io.Buffer) (Position, error) {
	var x, y, z int16
	err := p.Get(&x, &y, &z)
	return Position{int32(x), int32(y), int32(z)}, err
}

func getPosition(p *io.Buffer, generation Generation) (Position, error) {
	if generation == SignedPositions {
		return getSignedPosition(p)
	}

	var x, y, z uint16
	err := p.Get(&x, &y, &z)
	return Position{int32(x), int32(y), int32(z)}, err
}

func DecodeProp1(p *io.Buffer) (Prop1, error) {
	prop := Prop1{}

	position, err := getSignedPosition(p)
	if err != nil {
		return prop, err
	}
	prop.Position = position

	var bitfield uint16
	err = p.Get(
		&bitfield,
		&prop.ID,
		&prop.Marker,
		&prop.Byte0B,
		&prop.Bitfield0C,
		&prop.Bitfield10,
	)
	if err != nil {
		return prop, err
	}

	prop.SetBitfield(bitfield)
	return prop, nil
}

func DecodeProp2(p *io.Buffer, generation Generation) (Prop2, error) {
	prop := Prop2{}

	flags, err := p.GetInt()
	if err != nil {
		return prop, err
	}

	position, err := getPosition(p, generation)
	if err != nil {
		return prop, err
	}
	prop.Position = position

	ending, err := p.GetShort()
	if err != nil {
		return prop, err
	}

	// Bit 0 set means a 3D actor, which never appears in this format
	if ending&0b01 != 0 {
		return prop, fmt.Errorf("invalid prop2 trailer 0x%04X", ending)
	}

	if ending&0b10 != 0 {
		prop.Kind = Prop2Actor
		prop.Flags = flags
		prop.Scale = uint8(ending >> 8)
		prop.Bitfield0B = uint8(ending)
		return prop, nil
	}

	prop.Kind = Prop2Sprite
	prop.Sprite = C.SpriteID(flags >> 20)
	prop.Flags = flags & 0x000FFFFF
	prop.Bitfield0A = ending
	return prop, nil
}

func decodeCube(p *io.Buffer, options Options) (Cube, error) {
	cube := Cube{}

	tag, err := p.GetByte()
	if err != nil {
		return cube, err
	}

	switch tag {
	case CUBE_MISSING:
		cube.Missing = true
		return cube, nil
	case CUBE_POPULATED:
	default:
		return cube, &io.UnexpectedError{
			What: "cube tag",
			Want: CUBE_POPULATED,
			Got:  uint32(tag),
		}
	}

	err = p.Expect(CUBE_HEADER, "cube header")
	if err != nil {
		return cube, err
	}

	numProps1, err := p.GetByte()
	if err != nil {
		return cube, err
	}

	listType, err := p.GetByte()
	if err != nil {
		return cube, err
	}

	if listType == PROPS1_LIST {
		for i := 0; i < int(numProps1); i++ {
			prop, err := DecodeProp1(p)
			if err != nil {
				return cube, fmt.Errorf("could not decode prop1 %d: %w", i, err)
			}
			cube.Props1 = append(cube.Props1, prop)
		}

		listType, err = p.GetByte()
		if err != nil {
			return cube, err
		}
	} else if numProps1 > 0 {
		return cube, fmt.Errorf("cube declares %d props1 without a list", numProps1)
	}

	if listType != PROPS2_HEADER {
		return cube, &io.UnexpectedError{
			What: "props2 header",
			Want: PROPS2_HEADER,
			Got:  uint32(listType),
		}
	}

	numProps2, err := p.GetByte()
	if err != nil {
		return cube, err
	}

	if numProps2 > 0 {
		err = p.Expect(PROPS2_LIST, "props2 list")
		if err != nil {
			return cube, err
		}

		for i := 0; i < int(numProps2); i++ {
			prop, err := DecodeProp2(p, options.Generation)
			if err != nil {
				return cube, fmt.Errorf("could not decode prop2 %d: %w", i, err)
			}
			cube.Props2 = append(cube.Props2, prop)
		}
	}

	err = p.Expect(CUBE_END, "cube end")
	return cube, err
}

func expectSection(p *io.Buffer, section byte) error {
	return p.Expect(section, fmt.Sprintf("section %d", section))
}

func DecodeCamera(p *io.Buffer) (Camera, error) {
	camera := Camera{}

	err := p.Get(&camera.ID)
	if err != nil {
		return camera, err
	}

	err = p.Expect(CAMERA_HEADER, "camera header")
	if err != nil {
		return camera, err
	}

	type_, err := p.GetByte()
	if err != nil {
		return camera, err
	}
	camera.Type = CameraType(type_)

	switch camera.Type {
	case CameraEmpty:
		return camera, nil
	case CameraPivot, CameraZoom:
		if err := expectSection(p, 1); err != nil {
			return camera, err
		}
		if camera.Position, err = p.GetVec3(); err != nil {
			return camera, err
		}

		if err := expectSection(p, 2); err != nil {
			return camera, err
		}
		if camera.Speed, err = p.GetVec2(); err != nil {
			return camera, err
		}

		if err := expectSection(p, 3); err != nil {
			return camera, err
		}
		if err := p.Get(&camera.Rotation, &camera.Acceleration); err != nil {
			return camera, err
		}

		if err := expectSection(p, 4); err != nil {
			return camera, err
		}
		if camera.Angles, err = p.GetVec3(); err != nil {
			return camera, err
		}

		if err := expectSection(p, 5); err != nil {
			return camera, err
		}
		if camera.Unknown, err = p.GetInt(); err != nil {
			return camera, err
		}

		if camera.Type == CameraZoom {
			if err := expectSection(p, 6); err != nil {
				return camera, err
			}
			if camera.Distances, err = p.GetVec2(); err != nil {
				return camera, err
			}
		}
	case CameraStatic:
		if err := expectSection(p, 1); err != nil {
			return camera, err
		}
		if camera.Position, err = p.GetVec3(); err != nil {
			return camera, err
		}

		if err := expectSection(p, 2); err != nil {
			return camera, err
		}
		if camera.Angles, err = p.GetVec3(); err != nil {
			return camera, err
		}
	case CameraRandom:
		if err := expectSection(p, 1); err != nil {
			return camera, err
		}
		if camera.Unknown, err = p.GetInt(); err != nil {
			return camera, err
		}
	default:
		return camera, fmt.Errorf("unknown camera type %d", type_)
	}

	err = p.Expect(SECTION_END, "camera end")
	return camera, err
}

func DecodeLighting(p *io.Buffer) (Lighting, error) {
	lighting := Lighting{}
	var err error

	if err = expectSection(p, 2); err != nil {
		return lighting, err
	}
	if lighting.Position, err = p.GetVec3(); err != nil {
		return lighting, err
	}

	if err = expectSection(p, 3); err != nil {
		return lighting, err
	}
	if lighting.Unknown, err = p.GetVec2(); err != nil {
		return lighting, err
	}

	if err = expectSection(p, 4); err != nil {
		return lighting, err
	}
	if lighting.Colour, err = p.GetColour(); err != nil {
		return lighting, err
	}

	return lighting, nil
}

// Decode reads a MapSetup from the front of the buffer, leaving the cursor
// just after it.
func Decode(p *io.Buffer, options Options) (*MapSetup, error) {
	header, err := p.GetShort()
	if err != nil {
		return nil, err
	}

	if header != SETUP_HEADER {
		return nil, &io.UnexpectedError{
			What: "map setup header",
			Want: uint32(SETUP_HEADER),
			Got:  uint32(header),
		}
	}

	var min, max Position
	err = p.Get(
		&min.X, &min.Y, &min.Z,
		&max.X, &max.Y, &max.Z,
	)
	if err != nil {
		return nil, err
	}

	// Every cube takes at least one byte
	volume := int64(1)
	for _, length := range []int64{
		span(min.X, max.X),
		span(min.Y, max.Y),
		span(min.Z, max.Z),
	} {
		volume *= length
		if volume > int64(p.Len()) {
			return nil, fmt.Errorf(
				"bounds %s to %s describe more cubes than there is data",
				min,
				max,
			)
		}
	}

	setup := MapSetup{
		Cubes:       make([]Cube, 0, volume),
		options:     options,
		emptyBounds: [2]Position{min, max},
	}

	for x := int64(min.X); x <= int64(max.X); x++ {
		for y := int64(min.Y); y <= int64(max.Y); y++ {
			for z := int64(min.Z); z <= int64(max.Z); z++ {
				cube, err := decodeCube(p, options)
				if err != nil {
					return nil, fmt.Errorf(
						"could not decode cube (%d, %d, %d): %w",
						x, y, z,
						err,
					)
				}

				cube.X = int32(x)
				cube.Y = int32(y)
				cube.Z = int32(z)
				setup.Cubes = append(setup.Cubes, cube)
			}
		}
	}

	if err := p.Expect(SECTION_END, "end of cubes"); err != nil {
		return nil, err
	}

	if err := expectSection(p, SECTION_CAMERAS); err != nil {
		return nil, err
	}

	for {
		entry, err := p.GetByte()
		if err != nil {
			return nil, err
		}

		if entry == SECTION_END {
			break
		}

		if entry != SECTION_ENTRY {
			return nil, &io.UnexpectedError{
				What: "camera entry",
				Want: SECTION_ENTRY,
				Got:  uint32(entry),
			}
		}

		camera, err := DecodeCamera(p)
		if err != nil {
			return nil, fmt.Errorf(
				"could not decode camera %d: %w",
				len(setup.Cameras),
				err,
			)
		}
		setup.Cameras = append(setup.Cameras, camera)
	}

	if err := expectSection(p, SECTION_LIGHTING); err != nil {
		return nil, err
	}

	for {
		entry, err := p.GetByte()
		if err != nil {
			return nil, err
		}

		if entry == SECTION_END {
			break
		}

		if entry != SECTION_ENTRY {
			return nil, &io.UnexpectedError{
				What: "lighting entry",
				Want: SECTION_ENTRY,
				Got:  uint32(entry),
			}
		}

		lighting, err := DecodeLighting(p)
		if err != nil {
			return nil, fmt.Errorf(
				"could not decode lighting %d: %w",
				len(setup.Lightings),
				err,
			)
		}
		setup.Lightings = append(setup.Lightings, lighting)
	}

	if err := p.Expect(SECTION_END, "end of map setup"); err != nil {
		return nil, err
	}

	return &setup, nil
}

func span(min, max int32) int64 {
	if max < min {
		return 0
	}
	return int64(max) - int64(min) + 1
}

func FromBytes(data []byte, options Options) (*MapSetup, error) {
	p := io.Buffer(data)
	return Decode(&p, options)
}
