package assets

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
)

type IndexEntry struct {
	_       struct{} `cbor:",toarray"`
	Ordinal Ordinal
	Kind    Kind
	Offset  uint32
	Size    uint32
	Flag    uint32
	Digest  uint64
}

// Index describes the layout of an archive without its payloads. Two
// archives with the same index have the same contents.
type Index struct {
	Sentinel uint32
	Entries  []IndexEntry
}

func BuildIndex(data []byte, table *Table) (*Index, error) {
	dir, err := readDirectory(data, table)
	if err != nil {
		return nil, err
	}

	sizes, err := Sizes(dir.offsets, len(data))
	if err != nil {
		return nil, err
	}

	index := Index{
		Sentinel: dir.sentinel,
		Entries:  make([]IndexEntry, len(dir.offsets)),
	}

	start := DataStart(len(dir.offsets))
	for i, offset := range dir.offsets {
		slot, _ := table.Slot(Ordinal(i))
		begin := start + int(offset)

		index.Entries[i] = IndexEntry{
			Ordinal: Ordinal(i),
			Kind:    slot.Kind,
			Offset:  offset,
			Size:    uint32(sizes[i]),
			Flag:    dir.flags[i],
			Digest:  xxhash.Sum64(data[begin : begin+sizes[i]]),
		}
	}

	return &index, nil
}

func (i *Index) Marshal() ([]byte, error) {
	return cbor.Marshal(i)
}

func UnmarshalIndex(data []byte) (*Index, error) {
	var index Index
	err := cbor.Unmarshal(data, &index)
	if err != nil {
		return nil, fmt.Errorf("could not decode index: %w", err)
	}
	return &index, nil
}

// Diff lists the ordinals whose payloads differ between two indices of
// archives with the same layout.
func (i *Index) Diff(other *Index) ([]Ordinal, error) {
	if len(i.Entries) != len(other.Entries) {
		return nil, fmt.Errorf(
			"indices have %d and %d entries",
			len(i.Entries),
			len(other.Entries),
		)
	}

	changed := make([]Ordinal, 0)
	for j, entry := range i.Entries {
		if entry.Digest != other.Entries[j].Digest {
			changed = append(changed, entry.Ordinal)
		}
	}

	return changed, nil
}
