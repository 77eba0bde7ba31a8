package assets

import (
	"github.com/cfoust/rando/pkg/game/io"
)

// Blob is a payload that is carried through as raw bytes, including any
// filler that followed it.
type Blob struct {
	Data []byte
	kind Kind
}

func NewBlob(kind Kind, data []byte) *Blob {
	return &Blob{
		Data: data,
		kind: kind,
	}
}

func DecodeBlob(p *io.Buffer, size int, kind Kind) (*Blob, error) {
	data, err := p.GetBytes(size)
	if err != nil {
		return nil, err
	}

	return NewBlob(kind, data), nil
}

func (b *Blob) Kind() Kind {
	return b.kind
}

func (b *Blob) Encode(p *io.Buffer) error {
	p.PutBytes(b.Data)
	return nil
}
