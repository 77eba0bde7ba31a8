// Package xex patches the game executable in place. It does not parse the
// container format: every patch is a virtual address that translates to a
// fixed file offset.
package xex

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Data addresses that can be translated to file offsets
const (
	DATA_START uint32 = 0x82450000
	DATA_END   uint32 = 0x825085AF
	DATA_BASE  uint32 = 0x82006000
)

// Code addresses. The free space for injected code starts at CUSTOM_CODE,
// which lives at file offset 0x442CF4. Code addresses past CODE_END would
// land on data.
const (
	CODE_START  uint32 = 0x82000000
	CODE_END    uint32 = 0x82448000
	CODE_BASE   uint32 = 0x81FFE000
	CUSTOM_CODE uint32 = 0x82440CF4
)

// DataOffset translates a data address to a file offset. Addresses outside
// of the data section are a programming error.
func DataOffset(address uint32) int {
	if address < DATA_START || address > DATA_END {
		panic(fmt.Sprintf("0x%08X is not a data address", address))
	}
	return int(address - DATA_BASE)
}

// CodeOffset translates a code address to a file offset.
func CodeOffset(address uint32) int {
	if address < CODE_START || address >= CODE_END {
		panic(fmt.Sprintf("0x%08X is not a code address", address))
	}
	return int(address - CODE_BASE)
}

// Hooks are the code addresses the injected startup routine needs. They
// are optional; without them nothing can be injected.
type Hooks struct {
	// Sets the progress flag in r3
	SetFlag uint32 `yaml:"setFlag"`
	// Sets r4 progress flags starting at r3
	SetFlags uint32 `yaml:"setFlags"`
	// A bl that runs once when a file is started
	Startup uint32 `yaml:"startup"`
	// File offset of the .text size field
	TextSize int `yaml:"textSize"`
}

// Run is a run of consecutive progress flags.
type Run struct {
	Flag  uint16 `yaml:"flag"`
	Count uint16 `yaml:"count"`
}

// Layout locates the tables the patches touch.
type Layout struct {
	LairWarps      uint32 `yaml:"lairWarps"`
	Molehills      uint32 `yaml:"molehills"`
	MolehillStride uint32 `yaml:"molehillStride"`
	NoteDoors      uint32 `yaml:"noteDoors"`
	// Width in bytes of a note door cost
	NoteDoorWidth int      `yaml:"noteDoorWidth"`
	NoteDoorCosts []uint32 `yaml:"noteDoorCosts"`
	CustomCode    uint32   `yaml:"customCode"`
	Hooks         *Hooks   `yaml:"hooks"`
	// Progress flags that mark every move as learned
	MoveFlags []Run `yaml:"moveFlags"`
}

// CanUnlockMoves reports whether the layout locates everything UnlockMoves
// writes. The built-in layout does not.
func (l *Layout) CanUnlockMoves() error {
	if l.Hooks == nil {
		return ErrNoHooks
	}

	if len(l.MoveFlags) == 0 {
		return ErrNoMoveFlags
	}

	return nil
}

//go:embed layout.yaml
var DEFAULT_LAYOUT []byte

func ParseLayout(data []byte) (*Layout, error) {
	var layout Layout
	err := yaml.Unmarshal(data, &layout)
	if err != nil {
		return nil, fmt.Errorf("invalid executable layout: %w", err)
	}

	if layout.MolehillStride < 6 {
		return nil, fmt.Errorf("molehill stride %d is too small", layout.MolehillStride)
	}

	switch layout.NoteDoorWidth {
	case 2, 4:
	default:
		return nil, fmt.Errorf("note door costs cannot be %d bytes wide", layout.NoteDoorWidth)
	}

	return &layout, nil
}

func DefaultLayout() *Layout {
	layout, err := ParseLayout(DEFAULT_LAYOUT)
	if err != nil {
		panic(err)
	}
	return layout
}

func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read executable layout %s: %w", path, err)
	}
	return ParseLayout(data)
}

// Image is the whole executable held in memory.
type Image struct {
	Layout *Layout

	data []byte
	// Where the next injected routine goes
	cursor uint32
}

func New(data []byte, layout *Layout) *Image {
	return &Image{
		Layout: layout,
		data:   data,
		cursor: layout.CustomCode,
	}
}

func FromFile(path string, layout *Layout) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read executable %s: %w", path, err)
	}
	return New(data, layout), nil
}

func (i *Image) ToFile(path string) error {
	err := os.WriteFile(path, i.data, 0644)
	if err != nil {
		return fmt.Errorf("could not write executable %s: %w", path, err)
	}
	return nil
}

func (i *Image) Bytes() []byte {
	return i.data
}

func (i *Image) slice(offset int, length int) ([]byte, error) {
	if offset < 0 || offset+length > len(i.data) {
		return nil, fmt.Errorf(
			"0x%X bytes at file offset 0x%X are outside of the executable",
			length,
			offset,
		)
	}
	return i.data[offset : offset+length], nil
}

func (i *Image) ReadUint16(offset int) (uint16, error) {
	b, err := i.slice(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (i *Image) WriteUint16(offset int, value uint16) error {
	b, err := i.slice(offset, 2)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(b, value)
	return nil
}

func (i *Image) ReadUint32(offset int) (uint32, error) {
	b, err := i.slice(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (i *Image) WriteUint32(offset int, value uint32) error {
	b, err := i.slice(offset, 4)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b, value)
	return nil
}

func (i *Image) ReadUint8(offset int) (uint8, error) {
	b, err := i.slice(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (i *Image) WriteUint8(offset int, value uint8) error {
	b, err := i.slice(offset, 1)
	if err != nil {
		return err
	}
	b[0] = value
	return nil
}
