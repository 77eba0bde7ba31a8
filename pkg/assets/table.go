package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Ordinal is the index of an entry in the archive directory. It is the
// only identity an asset has.
type Ordinal uint16

// DB360_ENTRIES is the number of entries in the shipped archive.
const DB360_ENTRIES = 3701

type Slot struct {
	Kind Kind
	// Forces the entry to be carried as raw bytes whatever its kind.
	Opaque bool
}

// Run assigns a kind to a contiguous range of ordinals.
type Run struct {
	Kind   Kind `yaml:"kind"`
	Start  int  `yaml:"start"`
	Count  int  `yaml:"count"`
	Opaque bool `yaml:"opaque"`
}

type tableFile struct {
	Count int            `yaml:"count"`
	Runs  []Run          `yaml:"runs"`
	Names map[string]int `yaml:"names"`
}

// Table is the static type table of an archive. The archive itself does
// not record what kind of payload each entry holds.
type Table struct {
	slots []Slot
	names map[string]Ordinal
}

// NewTable builds a table of count entries. Ordinals not covered by a run
// are Empty.
func NewTable(count int, runs []Run) (*Table, error) {
	if count < 0 || count > 0xFFFF+1 {
		return nil, fmt.Errorf("invalid entry count %d", count)
	}

	table := Table{
		slots: make([]Slot, count),
		names: make(map[string]Ordinal),
	}

	covered := make([]bool, count)
	for _, run := range runs {
		if run.Start < 0 || run.Count < 0 || run.Start+run.Count > count {
			return nil, fmt.Errorf(
				"run of %d %s entries at %d is outside of the table",
				run.Count,
				run.Kind,
				run.Start,
			)
		}

		for i := run.Start; i < run.Start+run.Count; i++ {
			if covered[i] {
				return nil, fmt.Errorf("entry %d is covered by more than one run", i)
			}
			covered[i] = true
			table.slots[i] = Slot{
				Kind:   run.Kind,
				Opaque: run.Opaque,
			}
		}
	}

	return &table, nil
}

// Name gives an ordinal a symbolic name, e.g. the map setup of a level.
func (t *Table) Name(name string, ordinal Ordinal) error {
	if int(ordinal) >= len(t.slots) {
		return fmt.Errorf("named entry %s (%d) is outside of the table", name, ordinal)
	}
	t.names[name] = ordinal
	return nil
}

func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, err
	}

	table, err := NewTable(file.Count, file.Runs)
	if err != nil {
		return nil, err
	}

	for name, ordinal := range file.Names {
		if ordinal < 0 || ordinal > 0xFFFF {
			return nil, fmt.Errorf("named entry %s has invalid ordinal %d", name, ordinal)
		}

		err := table.Name(name, Ordinal(ordinal))
		if err != nil {
			return nil, err
		}
	}

	return table, nil
}

func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(
			"type table %s does not exist, point --table or paths.table at the table for your archive: %w",
			path,
			err,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read type table %s: %w", path, err)
	}

	table, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("invalid type table %s: %w", path, err)
	}

	return table, nil
}

func (t *Table) Len() int {
	return len(t.slots)
}

func (t *Table) Slot(ordinal Ordinal) (Slot, error) {
	if int(ordinal) >= len(t.slots) {
		return Slot{}, fmt.Errorf("ordinal %d is outside of the table", ordinal)
	}
	return t.slots[ordinal], nil
}

func (t *Table) Lookup(name string) (Ordinal, bool) {
	ordinal, ok := t.names[name]
	return ordinal, ok
}
