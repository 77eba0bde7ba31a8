package xex

import (
	"fmt"
	"math"
)

// Emitter writes instruction words at a running code address. Calls are
// relative to wherever the cursor is when they are emitted.
type Emitter struct {
	image  *Image
	cursor uint32
}

func (i *Image) Emitter(address uint32) *Emitter {
	return &Emitter{
		image:  i,
		cursor: address,
	}
}

func (e *Emitter) Cursor() uint32 {
	return e.cursor
}

// Emit writes words into free space, which must still be zeroed.
func (e *Emitter) Emit(words ...uint32) error {
	for _, word := range words {
		offset := CodeOffset(e.cursor)
		existing, err := e.image.ReadUint32(offset)
		if err != nil {
			return err
		}

		if existing != 0 {
			return fmt.Errorf("code at 0x%08X is not free (0x%08X)", e.cursor, existing)
		}

		err = e.image.WriteUint32(offset, word)
		if err != nil {
			return err
		}

		e.cursor += 4
	}
	return nil
}

func (e *Emitter) Prologue() error {
	return e.Emit(Prologue()...)
}

func (e *Emitter) Epilogue() error {
	return e.Emit(Epilogue()...)
}

func (e *Emitter) Call(target uint32) error {
	return e.Emit(Call(e.cursor, target))
}

func immediate(value uint16) (int16, error) {
	if value > math.MaxInt16 {
		return 0, fmt.Errorf("%d does not fit in an immediate", value)
	}
	return int16(value), nil
}

// SetFlag emits li r3,flag and a call to routine.
func (e *Emitter) SetFlag(routine uint32, flag uint16) error {
	value, err := immediate(flag)
	if err != nil {
		return err
	}

	err = e.Emit(Li(R3, value))
	if err != nil {
		return err
	}

	return e.Call(routine)
}

// SetFlags emits li r3,flag; li r4,count and a call to routine.
func (e *Emitter) SetFlags(routine uint32, flag uint16, count uint16) error {
	first, err := immediate(flag)
	if err != nil {
		return err
	}

	n, err := immediate(count)
	if err != nil {
		return err
	}

	err = e.Emit(Li(R3, first), Li(R4, n))
	if err != nil {
		return err
	}

	return e.Call(routine)
}
