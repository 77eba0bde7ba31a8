package assets

import (
	"fmt"

	C "github.com/cfoust/rando/pkg/game/constants"
	"github.com/cfoust/rando/pkg/game/io"
	"github.com/cfoust/rando/pkg/game/text"
)

// QuestionSlot is the tag byte in front of each question string.
type QuestionSlot uint8

const (
	SlotPrompt QuestionSlot = 0x80 + iota
	SlotAnswer1
	SlotAnswer2
	SlotAnswer3
)

const (
	QUESTION_KIND_QUIZ   = 0x0201
	QUESTION_KIND_GRUNTY = 0x0003
)

type QuestionLine struct {
	Slot QuestionSlot
	Text text.Text
}

// Translation is the lines of a question in one language, in the order they
// are stored. A slot may hold more than one line.
type Translation struct {
	Lines []QuestionLine
}

// Slot returns the lines of one slot in order.
func (t Translation) Slot(slot QuestionSlot) []text.Text {
	lines := make([]text.Text, 0)
	for _, line := range t.Lines {
		if line.Slot == slot {
			lines = append(lines, line.Text)
		}
	}
	return lines
}

type Question struct {
	// 0x0201 for ordinary quiz questions, 0x0003 for Grunty's
	QuestionKind uint16
	Translations [C.NUM_LANGUAGES]Translation
}

func (q *Question) Kind() Kind {
	return KindQuestion
}

func decodeTranslation(p *io.Buffer) (Translation, error) {
	translation := Translation{}

	count, err := p.GetByte()
	if err != nil {
		return translation, err
	}

	for i := 0; i < int(count); i++ {
		tag, err := p.GetByte()
		if err != nil {
			return translation, err
		}

		slot := QuestionSlot(tag)
		if slot < SlotPrompt || slot > SlotAnswer3 {
			return translation, fmt.Errorf("unknown question slot 0x%X", tag)
		}

		line, err := text.Read(p)
		if err != nil {
			return translation, fmt.Errorf("could not read line %d: %w", i, err)
		}

		translation.Lines = append(translation.Lines, QuestionLine{
			Slot: slot,
			Text: line,
		})
	}

	return translation, nil
}

func DecodeQuestion(p *io.Buffer) (*Question, error) {
	question := Question{}

	err := p.Expect(C.NUM_LANGUAGES, "language count")
	if err != nil {
		return nil, err
	}

	err = p.Get(&question.QuestionKind)
	if err != nil {
		return nil, err
	}

	// Offsets are recomputed on write
	err = p.Skip(C.NUM_LANGUAGES * 2)
	if err != nil {
		return nil, err
	}

	for i := range question.Translations {
		question.Translations[i], err = decodeTranslation(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", C.Language(i), err)
		}
	}

	return &question, nil
}

func (q *Question) Encode(p *io.Buffer) error {
	p.PutByte(C.NUM_LANGUAGES)
	err := p.Put(q.QuestionKind)
	if err != nil {
		return err
	}

	header := p.Len()
	for range q.Translations {
		p.PutByte(0, 0)
	}

	start := p.Len()
	for i, translation := range q.Translations {
		offset := p.Len() - start
		(*p)[header+i*2] = byte(offset >> 8)
		(*p)[header+i*2+1] = byte(offset)

		if len(translation.Lines) > 0xFF {
			return fmt.Errorf("%s: too many lines (%d)", C.Language(i), len(translation.Lines))
		}

		p.PutByte(byte(len(translation.Lines)))
		for _, line := range translation.Lines {
			p.PutByte(byte(line.Slot))
			err := text.Write(p, line.Text)
			if err != nil {
				return fmt.Errorf("%s: %w", C.Language(i), err)
			}
		}
	}

	return nil
}
