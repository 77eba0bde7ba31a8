package io

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Buffer is a cursor over big-endian data. Reads consume bytes from the
// front of the slice and writes append to the end, so a single Buffer is
// used either for decoding or for encoding, never both.
type Buffer []byte

var ErrShort = fmt.Errorf("unexpected end of data")

func (p *Buffer) Read(n []byte) (int, error) {
	if len(*p) == 0 && len(n) > 0 {
		return 0, ErrShort
	}

	numRead := copy(n, *p)
	*p = (*p)[numRead:]
	return numRead, nil
}

func (p *Buffer) Write(data []byte) (int, error) {
	*p = append(*p, data...)
	return len(data), nil
}

func Unmarshal(p *Buffer, pieces ...interface{}) error {
	for _, piece := range pieces {
		err := binary.Read(p, binary.BigEndian, piece)
		if err != nil {
			return err
		}
	}

	return nil
}

func Marshal(p *Buffer, pieces ...interface{}) error {
	for _, piece := range pieces {
		var buffer bytes.Buffer
		err := binary.Write(&buffer, binary.BigEndian, piece)
		if err != nil {
			return err
		}

		*p = append(*p, buffer.Bytes()...)
	}

	return nil
}

func (p *Buffer) Get(pieces ...interface{}) error {
	return Unmarshal(p, pieces...)
}

func (p *Buffer) Put(pieces ...interface{}) error {
	return Marshal(p, pieces...)
}

// Len is the number of bytes left to read (or written so far).
func (p *Buffer) Len() int {
	return len(*p)
}

func (p *Buffer) Skip(n int) error {
	if n > len(*p) {
		return ErrShort
	}
	*p = (*p)[n:]
	return nil
}

// Peek returns the next byte without consuming it.
func (p *Buffer) Peek() (byte, error) {
	if len(*p) == 0 {
		return 0, ErrShort
	}
	return (*p)[0], nil
}

func (p *Buffer) GetByte() (byte, error) {
	if len(*p) == 0 {
		return 0, ErrShort
	}
	value := (*p)[0]
	*p = (*p)[1:]
	return value, nil
}

func (p *Buffer) GetBytes(n int) ([]byte, error) {
	if n > len(*p) {
		return nil, ErrShort
	}
	value := make([]byte, n)
	copy(value, *p)
	*p = (*p)[n:]
	return value, nil
}

func (p *Buffer) GetShort() (uint16, error) {
	var value uint16
	err := p.Get(&value)
	return value, err
}

func (p *Buffer) GetInt() (uint32, error) {
	var value uint32
	err := p.Get(&value)
	return value, err
}

func (p *Buffer) GetFloat() (float32, error) {
	var value float32
	err := p.Get(&value)
	return value, err
}

// Expect consumes a single byte and fails if it is not the one required by
// the format at this point.
func (p *Buffer) Expect(want byte, what string) error {
	value, err := p.GetByte()
	if err != nil {
		return fmt.Errorf("could not read %s: %w", what, err)
	}

	if value != want {
		return &UnexpectedError{
			What: what,
			Want: uint32(want),
			Got:  uint32(value),
		}
	}

	return nil
}

func (p *Buffer) PutByte(values ...byte) {
	*p = append(*p, values...)
}

func (p *Buffer) PutBytes(data []byte) {
	*p = append(*p, data...)
}

// UnexpectedError is returned whenever a fixed constant in the data does not
// match what the format requires.
type UnexpectedError struct {
	What string
	Want uint32
	Got  uint32
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf(
		"unexpected %s: wanted 0x%X, got 0x%X",
		e.What,
		e.Want,
		e.Got,
	)
}
