package assets

import (
	"encoding/binary"
	"fmt"

	C "github.com/cfoust/rando/pkg/game/constants"
	"github.com/cfoust/rando/pkg/game/io"
	"github.com/cfoust/rando/pkg/game/text"
)

// Op is a dialogue command byte. Bytes from FIRST_SPEAKER up are a line
// spoken by that speaker.
type Op uint8

const (
	OpMrVileCheck             Op = 1
	OpBottlesCheck            Op = 2
	OpBoggyAndThirdCheatCheck Op = 3
	OpEndOfSection            Op = 4
	OpSwitchBox               Op = 6
	OpTrigger                 Op = 7
	OpSelection               Op = 8
	OpItemCount               Op = 9
)

var opNames = map[Op]string{
	OpMrVileCheck:             "MrVileCheck",
	OpBottlesCheck:            "BottlesCheck",
	OpBoggyAndThirdCheatCheck: "BoggyAndThirdCheatCheck",
	OpEndOfSection:            "EndOfSection",
	OpSwitchBox:               "SwitchBox",
	OpTrigger:                 "Trigger",
	OpSelection:               "Selection",
	OpItemCount:               "ItemCount",
}

func (o Op) IsSpeak() bool {
	return C.Speaker(o).IsKnown()
}

func (o Op) String() string {
	if o.IsSpeak() {
		return fmt.Sprintf("Speak(%s)", C.Speaker(o))
	}
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Command is one step of a dialogue script. Only Trigger uses Value, and
// only Selection and spoken lines carry Text.
type Command struct {
	Op    Op
	Value uint8
	Text  text.Text
}

func Speak(speaker C.Speaker, line text.Text) Command {
	return Command{
		Op:   Op(speaker),
		Text: line,
	}
}

func (c Command) Speaker() (C.Speaker, bool) {
	return C.Speaker(c.Op), c.Op.IsSpeak()
}

func (c Command) String() string {
	switch {
	case c.Op == OpTrigger:
		return fmt.Sprintf("Trigger(%d)", c.Value)
	case c.Op == OpSelection:
		return fmt.Sprintf("Selection(%q)", c.Text)
	case c.Op.IsSpeak():
		return fmt.Sprintf("%s: %q", C.Speaker(c.Op), c.Text)
	}
	return c.Op.String()
}

func DecodeCommand(p *io.Buffer) (Command, error) {
	op, err := p.GetByte()
	if err != nil {
		return Command{}, err
	}

	command := Command{Op: Op(op)}
	switch command.Op {
	case OpMrVileCheck, OpBottlesCheck, OpBoggyAndThirdCheatCheck, OpEndOfSection, OpSwitchBox, OpItemCount:
		line, err := text.Read(p)
		if err != nil {
			return command, err
		}

		if !line.IsEmpty() {
			return command, fmt.Errorf("%s carries text %q", command.Op, line)
		}
	case OpTrigger:
		err := p.Expect(2, "trigger length")
		if err != nil {
			return command, err
		}

		command.Value, err = p.GetByte()
		if err != nil {
			return command, err
		}

		err = p.Expect(0, "trigger terminator")
		if err != nil {
			return command, err
		}
	case OpSelection:
		command.Text, err = text.Read(p)
		if err != nil {
			return command, err
		}
	default:
		if !command.Op.IsSpeak() {
			return command, fmt.Errorf("unknown dialogue command 0x%X", op)
		}

		command.Text, err = text.Read(p)
		if err != nil {
			return command, err
		}
	}

	return command, nil
}

func (c Command) Encode(p *io.Buffer) error {
	switch {
	case c.Op == OpTrigger:
		p.PutByte(byte(c.Op), 2, c.Value, 0)
		return nil
	case c.Op == OpSelection || c.Op.IsSpeak():
		p.PutByte(byte(c.Op))
		return text.Write(p, c.Text)
	}

	if _, ok := opNames[c.Op]; !ok {
		return fmt.Errorf("unknown dialogue command 0x%X", uint8(c.Op))
	}

	p.PutByte(byte(c.Op))
	return text.Write(p, text.Text{})
}

type Script struct {
	Bottom []Command
	Top    []Command
}

type offsetOrder uint8

const (
	offsetsBigEndian offsetOrder = iota
	offsetsLittleEndian
	// Offsets that match neither order are written back as read
	offsetsVerbatim
)

type Dialogue struct {
	Scripts [C.NUM_LANGUAGES]Script

	kind    Kind
	order   offsetOrder
	offsets [C.NUM_LANGUAGES]uint16
}

// NewDialogue creates an empty dialogue of one of the kinds that share the
// dialogue layout.
func NewDialogue(kind Kind) *Dialogue {
	return &Dialogue{kind: kind}
}

func (d *Dialogue) Kind() Kind {
	if d.kind == KindEmpty {
		return KindDialogue
	}
	return d.kind
}

func decodeCommands(p *io.Buffer) ([]Command, error) {
	count, err := p.GetByte()
	if err != nil {
		return nil, err
	}

	commands := make([]Command, 0, count)
	for i := 0; i < int(count); i++ {
		command, err := DecodeCommand(p)
		if err != nil {
			return nil, fmt.Errorf("could not decode command %d: %w", i, err)
		}
		commands = append(commands, command)
	}

	return commands, nil
}

func encodeCommands(p *io.Buffer, commands []Command) error {
	if len(commands) > 0xFF {
		return fmt.Errorf("too many commands (%d)", len(commands))
	}

	p.PutByte(byte(len(commands)))
	for i, command := range commands {
		err := command.Encode(p)
		if err != nil {
			return fmt.Errorf("could not encode command %d: %w", i, err)
		}
	}

	return nil
}

// The header is a language count and one u16 offset per language, relative
// to the end of the header.
func readLanguageHeader(p *io.Buffer) ([C.NUM_LANGUAGES][2]byte, error) {
	var raw [C.NUM_LANGUAGES][2]byte

	err := p.Expect(C.NUM_LANGUAGES, "language count")
	if err != nil {
		return raw, err
	}

	for i := range raw {
		data, err := p.GetBytes(2)
		if err != nil {
			return raw, err
		}
		copy(raw[i][:], data)
	}

	return raw, nil
}

func DecodeDialogue(p *io.Buffer) (*Dialogue, error) {
	raw, err := readLanguageHeader(p)
	if err != nil {
		return nil, err
	}

	dialogue := Dialogue{kind: KindDialogue}
	start := p.Len()
	var positions [C.NUM_LANGUAGES]uint16
	for i := range dialogue.Scripts {
		positions[i] = uint16(start - p.Len())

		script := &dialogue.Scripts[i]
		script.Bottom, err = decodeCommands(p)
		if err != nil {
			return nil, fmt.Errorf("%s bottom: %w", C.Language(i), err)
		}

		script.Top, err = decodeCommands(p)
		if err != nil {
			return nil, fmt.Errorf("%s top: %w", C.Language(i), err)
		}
	}

	// The game ignores these, so figure out how they were written
	bigEndian, littleEndian := true, true
	for i, offset := range raw {
		dialogue.offsets[i] = binary.BigEndian.Uint16(offset[:])
		bigEndian = bigEndian && binary.BigEndian.Uint16(offset[:]) == positions[i]
		littleEndian = littleEndian && binary.LittleEndian.Uint16(offset[:]) == positions[i]
	}

	switch {
	case bigEndian:
		dialogue.order = offsetsBigEndian
	case littleEndian:
		dialogue.order = offsetsLittleEndian
	default:
		dialogue.order = offsetsVerbatim
	}

	return &dialogue, nil
}

func (d *Dialogue) Encode(p *io.Buffer) error {
	p.PutByte(C.NUM_LANGUAGES)
	header := p.Len()
	for range d.Scripts {
		p.PutByte(0, 0)
	}

	start := p.Len()
	for i, script := range d.Scripts {
		offset := uint16(p.Len() - start)
		if d.order == offsetsVerbatim {
			offset = d.offsets[i]
		}

		slot := (*p)[header+i*2 : header+i*2+2]
		if d.order == offsetsLittleEndian {
			binary.LittleEndian.PutUint16(slot, offset)
		} else {
			binary.BigEndian.PutUint16(slot, offset)
		}

		err := encodeCommands(p, script.Bottom)
		if err != nil {
			return fmt.Errorf("%s bottom: %w", C.Language(i), err)
		}

		err = encodeCommands(p, script.Top)
		if err != nil {
			return fmt.Errorf("%s top: %w", C.Language(i), err)
		}
	}

	return nil
}
