// Package text implements the game's display string encoding.
//
// Strings are stored as a length byte (which counts the trailing NUL), the
// encoded characters and a NUL. Characters index one of two fonts: latin,
// or Japanese after the FD 6A control pair. The encoding is not injective
// (the Japanese font repeats some glyphs and also carries the latin
// alphabet), so a Text keeps the bytes it was read from and only decodes
// them for display.
package text

import (
	"fmt"
	"strings"

	"github.com/cfoust/rando/pkg/game/io"
)

const (
	CONTROL       = 0xFD
	WIGGLE_START  = 0x68
	JAPANESE_MODE = 0x6A
	WIGGLE_STOP   = 0x6C
)

// Runes used to display the wiggle control pairs.
const (
	WiggleStart = '⸾'
	WiggleStop  = '⸽'
)

type Text struct {
	raw []byte
}

// FromBytes wraps already encoded characters, without the length prefix or
// terminator.
func FromBytes(data []byte) Text {
	raw := make([]byte, len(data))
	copy(raw, data)
	return Text{raw: raw}
}

// FromString encodes a display string. The Japanese font is used when it
// can represent every character, which is what the game itself does.
func FromString(value string) (Text, error) {
	if value == "" {
		return Text{}, nil
	}

	japanese := true
	for _, r := range value {
		if r == WiggleStart || r == WiggleStop {
			continue
		}

		if _, ok := uniToJapanese[r]; !ok {
			japanese = false
			break
		}
	}

	mapping := uniToLatin
	raw := make([]byte, 0, len(value)+2)
	if japanese {
		mapping = uniToJapanese
		raw = append(raw, CONTROL, JAPANESE_MODE)
	}

	for _, r := range value {
		switch r {
		case WiggleStart:
			raw = append(raw, CONTROL, WIGGLE_START)
			continue
		case WiggleStop:
			raw = append(raw, CONTROL, WIGGLE_STOP)
			continue
		}

		cpoint, ok := mapping[r]
		if !ok {
			return Text{}, fmt.Errorf("character %q cannot be displayed", r)
		}
		raw = append(raw, cpoint)
	}

	return Text{raw: raw}, nil
}

func MustFromString(value string) Text {
	t, err := FromString(value)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Text) Bytes() []byte {
	return t.raw
}

func (t Text) IsEmpty() bool {
	return len(t.raw) == 0
}

func (t Text) Equal(other Text) bool {
	return string(t.raw) == string(other.raw)
}

func (t Text) Decode() (string, error) {
	var builder strings.Builder
	japanese := false

	for i := 0; i < len(t.raw); i++ {
		c := t.raw[i]

		if c == CONTROL {
			i++
			if i >= len(t.raw) {
				return "", fmt.Errorf("control character at end of string")
			}

			switch code := t.raw[i]; code {
			case WIGGLE_START:
				builder.WriteRune(WiggleStart)
			case WIGGLE_STOP:
				builder.WriteRune(WiggleStop)
			case JAPANESE_MODE:
				japanese = true
			default:
				return "", fmt.Errorf("unknown control character 0x%X", code)
			}
			continue
		}

		r := latinToUni[c]
		if japanese {
			r = japaneseToUni[c]
		}

		if r == unmapped {
			return "", fmt.Errorf("unmapped character 0x%X", c)
		}
		builder.WriteRune(r)
	}

	return builder.String(), nil
}

// String decodes the text, falling back to a hex dump for data that does
// not decode.
func (t Text) String() string {
	value, err := t.Decode()
	if err != nil {
		return fmt.Sprintf("<%X>", t.raw)
	}
	return value
}

// Read consumes a length prefixed, NUL terminated string.
func Read(p *io.Buffer) (Text, error) {
	length, err := p.GetByte()
	if err != nil {
		return Text{}, err
	}

	if length == 0 {
		return Text{}, fmt.Errorf("string length must include its terminator")
	}

	raw, err := p.GetBytes(int(length) - 1)
	if err != nil {
		return Text{}, err
	}

	err = p.Expect(0, "string terminator")
	if err != nil {
		return Text{}, err
	}

	return Text{raw: raw}, nil
}

func Write(p *io.Buffer, t Text) error {
	if len(t.raw)+1 > 0xFF {
		return fmt.Errorf("string is too long (%d bytes)", len(t.raw))
	}

	p.PutByte(byte(len(t.raw) + 1))
	p.PutBytes(t.raw)
	p.PutByte(0)
	return nil
}
