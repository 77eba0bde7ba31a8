package io

type Vec2 struct {
	X float32
	Y float32
}

type Vec3 struct {
	X float32
	Y float32
	Z float32
}

// Colour holds three 32-bit channels. Lighting stores colours this way
// rather than as floats.
type Colour struct {
	R uint32
	G uint32
	B uint32
}

func (p *Buffer) GetVec2() (Vec2, error) {
	var value Vec2
	err := p.Get(&value.X, &value.Y)
	return value, err
}

func (p *Buffer) GetVec3() (Vec3, error) {
	var value Vec3
	err := p.Get(&value.X, &value.Y, &value.Z)
	return value, err
}

func (p *Buffer) GetColour() (Colour, error) {
	var value Colour
	err := p.Get(&value.R, &value.G, &value.B)
	return value, err
}

func (p *Buffer) PutVec2(value Vec2) error {
	return p.Put(value.X, value.Y)
}

func (p *Buffer) PutVec3(value Vec3) error {
	return p.Put(value.X, value.Y, value.Z)
}

func (p *Buffer) PutColour(value Colour) error {
	return p.Put(value.R, value.G, value.B)
}
