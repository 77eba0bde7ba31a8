// Package assets reads and writes the game's asset archive.
//
// The archive is a count, an unused sentinel word and a directory of
// (offset, flag) pairs, followed by the payloads. Every payload is padded
// to eight bytes with filler. Nothing in the file says what a payload is;
// that comes from a Table keyed by ordinal.
package assets

import (
	"fmt"
	"os"

	"github.com/cfoust/rando/pkg/game/io"
	"github.com/cfoust/rando/pkg/maps"

	"github.com/rs/zerolog/log"
)

type Asset interface {
	Kind() Kind
	Encode(p *io.Buffer) error
}

type Options struct {
	Maps maps.Options
}

// Empty occupies an ordinal that has no payload.
type Empty struct{}

func (Empty) Kind() Kind { return KindEmpty }

func (Empty) Encode(p *io.Buffer) error { return nil }

// Setup adapts a decoded map setup to the Asset interface.
type Setup struct {
	*maps.MapSetup
}

func (Setup) Kind() Kind { return KindMapSetup }

// FormatError is returned when an entry does not decode with the codec its
// kind calls for.
type FormatError struct {
	Ordinal Ordinal
	Kind    Kind
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("entry %d (%s): %s", e.Ordinal, e.Kind, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

type decoder func(p *io.Buffer, size int, kind Kind, options Options) (Asset, error)

var decoders = map[Kind]decoder{
	KindEmpty: func(p *io.Buffer, size int, kind Kind, options Options) (Asset, error) {
		return Empty{}, nil
	},
	KindAnimation: func(p *io.Buffer, size int, kind Kind, options Options) (Asset, error) {
		return DecodeAnimation(p)
	},
	KindMapSetup: func(p *io.Buffer, size int, kind Kind, options Options) (Asset, error) {
		setup, err := maps.Decode(p, options.Maps)
		if err != nil {
			return nil, err
		}
		return Setup{setup}, nil
	},
	KindDialogue: decodeDialogue,
	KindCredits:  decodeDialogue,
	KindXbox:     decodeDialogue,
	KindQuestion: func(p *io.Buffer, size int, kind Kind, options Options) (Asset, error) {
		return DecodeQuestion(p)
	},
	KindSprite: func(p *io.Buffer, size int, kind Kind, options Options) (Asset, error) {
		return DecodeSprite(p)
	},
	KindModel:   decodeBlob,
	KindMidi:    decodeBlob,
	KindUnknown: decodeBlob,
}

func decodeDialogue(p *io.Buffer, size int, kind Kind, options Options) (Asset, error) {
	dialogue, err := DecodeDialogue(p)
	if err != nil {
		return nil, err
	}
	dialogue.kind = kind
	return dialogue, nil
}

func decodeBlob(p *io.Buffer, size int, kind Kind, options Options) (Asset, error) {
	return DecodeBlob(p, size, kind)
}

type Entry struct {
	Asset Asset
	// Carried through untouched
	Flag uint32

	// Filler that followed the payload when it was loaded. Not every entry
	// in the shipped archive is aligned, so untouched payloads keep theirs.
	layout *layout
}

type layout struct {
	payload int
	filler  int
}

type Archive struct {
	Entries []Entry

	table    *Table
	sentinel uint32
}

type directory struct {
	sentinel uint32
	offsets  []uint32
	flags    []uint32
}

func readDirectory(data []byte, table *Table) (*directory, error) {
	p := io.Buffer(data)

	var count uint32
	dir := directory{}
	err := p.Get(&count, &dir.sentinel)
	if err != nil {
		return nil, fmt.Errorf("could not read archive header: %w", err)
	}

	if int(count) != table.Len() {
		return nil, fmt.Errorf(
			"archive has %d entries, type table has %d",
			count,
			table.Len(),
		)
	}

	if DataStart(int(count)) > len(data) {
		return nil, fmt.Errorf("archive is too short for %d entries", count)
	}

	dir.offsets = make([]uint32, count)
	dir.flags = make([]uint32, count)
	for i := range dir.offsets {
		err := p.Get(&dir.offsets[i], &dir.flags[i])
		if err != nil {
			return nil, err
		}
	}

	return &dir, nil
}

// Load decodes every entry of an archive.
func Load(data []byte, table *Table, options Options) (*Archive, error) {
	dir, err := readDirectory(data, table)
	if err != nil {
		return nil, err
	}

	sizes, err := Sizes(dir.offsets, len(data))
	if err != nil {
		return nil, err
	}

	archive := Archive{
		Entries:  make([]Entry, len(dir.offsets)),
		table:    table,
		sentinel: dir.sentinel,
	}

	start := DataStart(len(dir.offsets))
	for i, offset := range dir.offsets {
		ordinal := Ordinal(i)
		slot, _ := table.Slot(ordinal)

		asset, layout, err := decodeEntry(
			data,
			start+int(offset),
			start+int(offset)+sizes[i],
			slot,
			options,
		)
		if err != nil {
			return nil, &FormatError{
				Ordinal: ordinal,
				Kind:    slot.Kind,
				Err:     err,
			}
		}

		archive.Entries[i] = Entry{
			Asset:  asset,
			Flag:   dir.flags[i],
			layout: layout,
		}
	}

	log.Debug().
		Int("entries", len(archive.Entries)).
		Int("size", len(data)).
		Msg("loaded archive")

	return &archive, nil
}

// decodeEntry decodes the payload at start and checks that only filler
// separates its end from the next entry at end.
func decodeEntry(data []byte, start int, end int, slot Slot, options Options) (Asset, *layout, error) {
	size := end - start

	// Structured codecs find their own end, so they read from an unbounded
	// cursor
	p := io.Buffer(data[start:])

	kind := slot.Kind
	decode, ok := decoders[kind]
	if !ok {
		return nil, nil, fmt.Errorf("no codec for kind %s", kind)
	}

	if slot.Opaque {
		decode = decodeBlob
	}

	asset, err := decode(&p, size, kind, options)
	if err != nil {
		return nil, nil, err
	}

	payloadEnd := len(data) - p.Len()
	cursor := payloadEnd
	for cursor < end && data[cursor] == FILLER {
		cursor++
	}

	if cursor != end {
		return nil, nil, fmt.Errorf(
			"payload ends at 0x%X but the next entry starts at 0x%X",
			cursor,
			end,
		)
	}

	return asset, &layout{
		payload: payloadEnd - start,
		filler:  end - payloadEnd,
	}, nil
}

func FromFile(path string, table *Table, options Options) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read archive %s: %w", path, err)
	}

	return Load(data, table, options)
}

func pad(p *io.Buffer, length int) {
	for i := 0; i < padding(length); i++ {
		p.PutByte(FILLER)
	}
}

// EncodeAsset emits a single payload followed by its filler.
func EncodeAsset(asset Asset) ([]byte, error) {
	p := io.Buffer{}
	err := asset.Encode(&p)
	if err != nil {
		return nil, err
	}

	pad(&p, p.Len())
	return p, nil
}

func (a *Archive) Encode() ([]byte, error) {
	payloads := make([][]byte, len(a.Entries))
	lengths := make([]int, len(a.Entries))
	position := DataStart(len(a.Entries))
	for i, entry := range a.Entries {
		p := io.Buffer{}
		err := entry.Asset.Encode(&p)
		if err != nil {
			return nil, &FormatError{
				Ordinal: Ordinal(i),
				Kind:    entry.Asset.Kind(),
				Err:     err,
			}
		}

		filler := padding(position + p.Len())
		if entry.layout != nil && entry.layout.payload == p.Len() {
			filler = entry.layout.filler
		}

		for j := 0; j < filler; j++ {
			p.PutByte(FILLER)
		}

		payloads[i] = p
		lengths[i] = p.Len()
		position += p.Len()
	}

	plan := PlanDirectory(lengths)

	p := make(io.Buffer, 0, plan.Size)
	err := p.Put(uint32(len(a.Entries)), a.sentinel)
	if err != nil {
		return nil, err
	}

	for i, entry := range a.Entries {
		err := p.Put(plan.Offsets[i], entry.Flag)
		if err != nil {
			return nil, err
		}
	}

	for _, payload := range payloads {
		p.PutBytes(payload)
	}

	return p, nil
}

func (a *Archive) ToFile(path string) error {
	data, err := a.Encode()
	if err != nil {
		return err
	}

	err = WriteBytes(data, path)
	if err != nil {
		return fmt.Errorf("could not write archive %s: %w", path, err)
	}

	return nil
}

func (a *Archive) Table() *Table {
	return a.table
}

func (a *Archive) Get(ordinal Ordinal) (Asset, error) {
	if int(ordinal) >= len(a.Entries) {
		return nil, fmt.Errorf("ordinal %d is outside of the archive", ordinal)
	}
	return a.Entries[ordinal].Asset, nil
}

// Set replaces the payload at an ordinal. It must be of the kind the type
// table gives the ordinal.
func (a *Archive) Set(ordinal Ordinal, asset Asset) error {
	slot, err := a.table.Slot(ordinal)
	if err != nil {
		return err
	}

	if slot.Kind != asset.Kind() {
		return fmt.Errorf(
			"cannot store %s in %s entry %d",
			asset.Kind(),
			slot.Kind,
			ordinal,
		)
	}

	a.Entries[ordinal].Asset = asset
	return nil
}

func (a *Archive) MapSetup(ordinal Ordinal) (*maps.MapSetup, error) {
	asset, err := a.Get(ordinal)
	if err != nil {
		return nil, err
	}

	setup, ok := asset.(Setup)
	if !ok {
		return nil, fmt.Errorf("entry %d is %s, not a map setup", ordinal, asset.Kind())
	}

	return setup.MapSetup, nil
}

// NamedMapSetup resolves a map setup through the type table's names.
func (a *Archive) NamedMapSetup(name string) (*maps.MapSetup, error) {
	ordinal, ok := a.table.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("type table does not name %s", name)
	}

	return a.MapSetup(ordinal)
}

// MapSetups lists every map setup ordinal in the archive.
func (a *Archive) MapSetups() []Ordinal {
	ordinals := make([]Ordinal, 0)
	for i, entry := range a.Entries {
		if _, ok := entry.Asset.(Setup); ok {
			ordinals = append(ordinals, Ordinal(i))
		}
	}
	return ordinals
}

// New creates an archive of empty entries laid out by the table.
func New(table *Table) *Archive {
	archive := Archive{
		Entries:  make([]Entry, table.Len()),
		table:    table,
		sentinel: SENTINEL,
	}

	for i := range archive.Entries {
		archive.Entries[i].Asset = Empty{}
	}

	return &archive
}
