// Package textures reads and writes the texture table that sits next to the
// asset archive. Each record starts with the address of the texture's
// pixels; pointing a record at another texture's address makes the game draw
// that texture instead.
package textures

import (
	"fmt"
	"os"

	"github.com/cfoust/rando/pkg/game/io"
)

const (
	RECORD_SIZE = 20
	// Number of records in the shipped table
	DB360_TEXTURES = 6576
)

type TextureID uint16

type Record struct {
	// As loaded
	Address uint32
	// Written back in place of Address
	Edited uint32
	rest   [RECORD_SIZE - 4]byte
}

type Table struct {
	Records []Record
}

// Decode reads a texture table. A positive expected count is asserted.
func Decode(data []byte, expected int) (*Table, error) {
	p := io.Buffer(data)

	count, err := p.GetInt()
	if err != nil {
		return nil, fmt.Errorf("could not read texture count: %w", err)
	}

	if expected > 0 && int(count) != expected {
		return nil, fmt.Errorf("texture table has %d entries, expected %d", count, expected)
	}

	if int64(count)*RECORD_SIZE > int64(p.Len()) {
		return nil, fmt.Errorf("texture table is too short for %d entries", count)
	}

	table := Table{
		Records: make([]Record, count),
	}

	for i := range table.Records {
		record := &table.Records[i]
		err := p.Get(&record.Address, &record.rest)
		if err != nil {
			return nil, err
		}
		record.Edited = record.Address
	}

	return &table, nil
}

func Load(path string, expected int) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read texture table %s: %w", path, err)
	}

	return Decode(data, expected)
}

func (t *Table) Encode() ([]byte, error) {
	p := make(io.Buffer, 0, 4+len(t.Records)*RECORD_SIZE)
	err := p.Put(uint32(len(t.Records)))
	if err != nil {
		return nil, err
	}

	for _, record := range t.Records {
		err := p.Put(record.Edited, record.rest)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (t *Table) Save(path string) error {
	data, err := t.Encode()
	if err != nil {
		return err
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("could not write texture table %s: %w", path, err)
	}

	return nil
}

func (t *Table) Get(id TextureID) (*Record, error) {
	if int(id) >= len(t.Records) {
		return nil, fmt.Errorf("texture %d is outside of the table (%d)", id, len(t.Records))
	}
	return &t.Records[id], nil
}

// Redirect makes from draw the pixels originally loaded for to.
func (t *Table) Redirect(from, to TextureID) error {
	source, err := t.Get(from)
	if err != nil {
		return err
	}

	target, err := t.Get(to)
	if err != nil {
		return err
	}

	source.Edited = target.Address
	return nil
}
