package maps

import (
	"fmt"

	C "github.com/cfoust/rando/pkg/game/constants"
	"github.com/cfoust/rando/pkg/game/io"
)

const SETUP_HEADER uint16 = 0x0101

// Cube tags
const (
	CUBE_MISSING   = 1
	CUBE_POPULATED = 3
	CUBE_HEADER    = 10
	PROPS1_LIST    = 11
	PROPS2_HEADER  = 8
	PROPS2_LIST    = 9
	CUBE_END       = 1
)

// Section ids that follow the cubes
const (
	SECTION_END      = 0
	SECTION_ENTRY    = 1
	SECTION_CAMERAS  = 3
	SECTION_LIGHTING = 4
)

// CUBE_SIZE is the edge length of a grid cell in world units.
const CUBE_SIZE = 1000

type Position struct {
	X int32
	Y int32
	Z int32
}

func (p Position) Add(other Position) Position {
	return Position{p.X + other.X, p.Y + other.Y, p.Z + other.Z}
}

func (p Position) Sub(other Position) Position {
	return Position{p.X - other.X, p.Y - other.Y, p.Z - other.Z}
}

// DistanceSquared is the squared euclidean distance between two points.
func (p Position) DistanceSquared(other Position) int64 {
	d := p.Sub(other)
	return int64(d.X)*int64(d.X) + int64(d.Y)*int64(d.Y) + int64(d.Z)*int64(d.Z)
}

// HorizontalDistanceSquared ignores height.
func (p Position) HorizontalDistanceSquared(other Position) int64 {
	d := p.Sub(other)
	return int64(d.X)*int64(d.X) + int64(d.Z)*int64(d.Z)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Category describes what the id of a Prop1 refers to.
type Category uint8

const (
	WarpOrTrigger    Category = 3
	CameraController Category = 4
	Actor            Category = 6
	EnemyBoundary    Category = 7
	Path             Category = 8
	CameraTrigger    Category = 9
	Flags            Category = 10
)

var categoryNames = map[Category]string{
	WarpOrTrigger:    "WarpOrTrigger",
	CameraController: "CameraController",
	Actor:            "Actor",
	EnemyBoundary:    "EnemyBoundary",
	Path:             "Path",
	CameraTrigger:    "CameraTrigger",
	Flags:            "Flags",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(c))
}

// Prop1 is a 20-byte placed object: actors, warps, cameras, paths and the
// like.
type Prop1 struct {
	Position Position
	// Selector (or trigger radius) occupies the top 9 bits of the bitfield
	Selector uint16
	// Category occupies the next 6 bits
	Category Category
	// Spare is the lowest bit
	Spare      bool
	ID         uint16
	Marker     uint8
	Byte0B     uint8
	Bitfield0C uint32
	Bitfield10 uint32
}

func (p Prop1) Bitfield() uint16 {
	var spare uint16
	if p.Spare {
		spare = 1
	}
	return p.Selector<<7 | uint16(p.Category&0x3F)<<1 | spare
}

func (p *Prop1) SetBitfield(value uint16) {
	p.Selector = value >> 7
	p.Category = Category((value >> 1) & 0x3F)
	p.Spare = value&1 != 0
}

func (p Prop1) Actor() (C.ActorID, bool) {
	return C.ActorID(p.ID), p.Category == Actor
}

func (p Prop1) Warp() (C.WarpID, bool) {
	return C.WarpID(p.ID), p.Category == WarpOrTrigger
}

func (p Prop1) IsFlag() bool {
	return p.Category == Flags
}

func (p Prop1) String() string {
	switch p.Category {
	case Actor:
		return fmt.Sprintf("Actor(%s) at %s", C.ActorID(p.ID), p.Position)
	case WarpOrTrigger:
		return fmt.Sprintf("WarpOrTrigger(%s) at %s", C.WarpID(p.ID), p.Position)
	}
	return fmt.Sprintf("%s(%d) at %s", p.Category, p.ID, p.Position)
}

type Prop2Kind uint8

const (
	Prop2Sprite Prop2Kind = iota
	Prop2Actor
)

// Prop2 is a 12-byte placed object, either a 2D sprite or a lightweight
// actor. Which fields are meaningful depends on Kind.
type Prop2 struct {
	Kind     Prop2Kind
	Position Position

	// For sprites this is only the low 20 bits; the sprite id lives in the
	// top 12 bits of the same word on disk.
	Flags uint32

	Sprite     C.SpriteID
	Bitfield0A uint16

	Scale      uint8
	Bitfield0B uint8
}

func (p Prop2) String() string {
	if p.Kind == Prop2Actor {
		return fmt.Sprintf("Prop2Actor(scale=%d) at %s", p.Scale, p.Position)
	}
	return fmt.Sprintf("%s at %s", p.Sprite, p.Position)
}

// Cube is a single cell of the map grid.
type Cube struct {
	X int32
	Y int32
	Z int32

	// Missing cubes are stored as a single tag byte and carry no props.
	Missing bool
	Props1  []Prop1
	Props2  []Prop2
}

// Center is the midpoint of the cell in world units.
func (c *Cube) Center() Position {
	return Position{
		X: c.X*CUBE_SIZE + CUBE_SIZE/2,
		Y: c.Y*CUBE_SIZE + CUBE_SIZE/2,
		Z: c.Z*CUBE_SIZE + CUBE_SIZE/2,
	}
}

type CameraType uint8

const (
	CameraEmpty CameraType = iota
	CameraPivot
	CameraStatic
	CameraZoom
	CameraRandom
)

const CAMERA_HEADER = 2

type Camera struct {
	ID   uint16
	Type CameraType

	Position     io.Vec3
	Speed        io.Vec2
	Rotation     float32
	Acceleration float32
	Angles       io.Vec3
	// Pivot and Zoom store this in section 5, Random in section 1
	Unknown   uint32
	Distances io.Vec2
}

type Lighting struct {
	Position io.Vec3
	Unknown  io.Vec2
	Colour   io.Colour
}

// Generation selects how Prop2 positions are interpreted. The bytes on disk
// are the same either way.
type Generation uint8

const (
	SignedPositions Generation = iota
	UnsignedPositions
)

// Signed reinterprets a Prop2 position of this generation in the signed
// coordinates that Prop1 and the cube grid use.
func (g Generation) Signed(position Position) Position {
	if g != UnsignedPositions {
		return position
	}
	return Position{
		int32(int16(uint16(position.X))),
		int32(int16(uint16(position.Y))),
		int32(int16(uint16(position.Z))),
	}
}

// FromSigned is the inverse of Signed.
func (g Generation) FromSigned(position Position) Position {
	if g != UnsignedPositions {
		return position
	}
	return Position{
		int32(uint16(int16(position.X))),
		int32(uint16(int16(position.Y))),
		int32(uint16(int16(position.Z))),
	}
}

type Options struct {
	Generation Generation
}

type MapSetup struct {
	Cubes     []Cube
	Cameras   []Camera
	Lightings []Lighting

	options Options
	// Bounds to write back when there are no cubes to derive them from
	emptyBounds [2]Position
}
