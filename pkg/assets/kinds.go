package assets

import "fmt"

// Kind selects the codec used for an archive entry.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindAnimation
	KindMapSetup
	KindDialogue
	KindQuestion
	KindSprite
	KindModel
	KindMidi
	KindUnknown
	KindCredits
	KindXbox
)

var kindNames = map[Kind]string{
	KindEmpty:     "empty",
	KindAnimation: "animation",
	KindMapSetup:  "mapSetup",
	KindDialogue:  "dialogue",
	KindQuestion:  "question",
	KindSprite:    "sprite",
	KindModel:     "model",
	KindMidi:      "midi",
	KindUnknown:   "unknown",
	KindCredits:   "credits",
	KindXbox:      "xbox",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func ParseKind(name string) (Kind, error) {
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown asset kind %s", name)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(data []byte) error {
	value, err := ParseKind(string(data))
	if err != nil {
		return err
	}
	*k = value
	return nil
}

// Opaque kinds are carried through as raw bytes of the entry's length.
func (k Kind) Opaque() bool {
	switch k {
	case KindModel, KindMidi, KindUnknown:
		return true
	}
	return false
}
