package assets

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

type Mismatch struct {
	Ordinal Ordinal
	Kind    Kind
	// Digests of the stored and re-encoded payloads
	Want     uint64
	Got      uint64
	WantSize int
	GotSize  int
}

func (m Mismatch) String() string {
	return fmt.Sprintf(
		"entry %d (%s): stored %d bytes %016x, encoded %d bytes %016x",
		m.Ordinal,
		m.Kind,
		m.WantSize,
		m.Want,
		m.GotSize,
		m.Got,
	)
}

type Report struct {
	Entries    int
	Mismatches []Mismatch
	// Whether the whole archive re-encoded to the same bytes
	Identical bool
}

func (r Report) Ok() bool {
	return len(r.Mismatches) == 0 && r.Identical
}

func isFiller(data []byte) bool {
	for _, b := range data {
		if b != FILLER {
			return false
		}
	}
	return true
}

// Verify decodes every entry and checks that encoding it again reproduces
// the stored payload. Format errors abort verification; entries that decode
// but do not survive are collected in the report.
func Verify(data []byte, table *Table, options Options) (*Report, error) {
	dir, err := readDirectory(data, table)
	if err != nil {
		return nil, err
	}

	sizes, err := Sizes(dir.offsets, len(data))
	if err != nil {
		return nil, err
	}

	report := Report{
		Entries: len(dir.offsets),
	}

	start := DataStart(len(dir.offsets))
	for i, offset := range dir.offsets {
		ordinal := Ordinal(i)
		slot, _ := table.Slot(ordinal)
		begin := start + int(offset)
		end := begin + sizes[i]

		asset, _, err := decodeEntry(data, begin, end, slot, options)
		if err != nil {
			return nil, &FormatError{
				Ordinal: ordinal,
				Kind:    slot.Kind,
				Err:     err,
			}
		}

		encoded, err := EncodeAsset(asset)
		if err != nil {
			return nil, &FormatError{
				Ordinal: ordinal,
				Kind:    slot.Kind,
				Err:     err,
			}
		}

		stored := data[begin:end]
		// Filler after the payload is not significant, only the payload
		// itself has to be reproduced
		if len(encoded) <= len(stored) &&
			bytes.Equal(stored[:len(encoded)], encoded) &&
			isFiller(stored[len(encoded):]) {
			continue
		}

		if len(encoded) > len(stored) &&
			bytes.Equal(encoded[:len(stored)], stored) &&
			isFiller(encoded[len(stored):]) {
			continue
		}

		report.Mismatches = append(report.Mismatches, Mismatch{
			Ordinal:  ordinal,
			Kind:     slot.Kind,
			Want:     xxhash.Sum64(stored),
			Got:      xxhash.Sum64(encoded),
			WantSize: len(stored),
			GotSize:  len(encoded),
		})
	}

	archive, err := Load(data, table, options)
	if err != nil {
		return nil, err
	}

	encoded, err := archive.Encode()
	if err != nil {
		return nil, err
	}

	report.Identical = bytes.Equal(encoded, data)
	return &report, nil
}
