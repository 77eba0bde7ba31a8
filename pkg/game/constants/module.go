// Package constants holds the game's identifier spaces. Every type here is
// a plain integer: values without a name are still valid and survive a
// decode/encode cycle untouched.
package constants

import (
	"fmt"
	"strconv"
)

func describe[T ~uint8 | ~uint16](names map[T]string, value T) string {
	if name, ok := names[value]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d, 0x%X)", value, value)
}

type Language uint8

const (
	English Language = iota
	French
	German
	Japanese
	NUM_LANGUAGES = 4
)

var languageNames = map[Language]string{
	English:  "English",
	French:   "French",
	German:   "German",
	Japanese: "Japanese",
}

func (l Language) String() string {
	return describe(languageNames, l)
}

// Ability is a move Banjo and Kazooie can be taught.
type Ability uint8

const (
	Barge Ability = iota
	BeakBomb
	BeakBuster
	CameraControl
	BearPunch
	Climb
	Eggs
	FeatheryFlap
	FlapFlip
	Flight
	HoldJumpHigher
	RatATatRap
	Roll
	ShockJump
	WadingBoots
	Dive
	TalonTrot
	TurboTalonTrot
	WonderWing
	FirstNoteDoor
)

var abilityNames = map[Ability]string{
	Barge:          "Barge",
	BeakBomb:       "BeakBomb",
	BeakBuster:     "BeakBuster",
	CameraControl:  "CameraControl",
	BearPunch:      "BearPunch",
	Climb:          "Climb",
	Eggs:           "Eggs",
	FeatheryFlap:   "FeatheryFlap",
	FlapFlip:       "FlapFlip",
	Flight:         "Flight",
	HoldJumpHigher: "HoldJumpHigher",
	RatATatRap:     "RatATatRap",
	Roll:           "Roll",
	ShockJump:      "ShockJump",
	WadingBoots:    "WadingBoots",
	Dive:           "Dive",
	TalonTrot:      "TalonTrot",
	TurboTalonTrot: "TurboTalonTrot",
	WonderWing:     "WonderWing",
	FirstNoteDoor:  "FirstNoteDoor",
}

func (a Ability) String() string {
	return describe(abilityNames, a)
}

func (a Ability) IsKnown() bool {
	_, ok := abilityNames[a]
	return ok
}

// ParseAbility accepts the names produced by Ability.String.
func ParseAbility(name string) (Ability, error) {
	for ability, abilityName := range abilityNames {
		if abilityName == name {
			return ability, nil
		}
	}
	return 0, fmt.Errorf("unknown ability %s", name)
}

func (a Ability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Ability) UnmarshalText(data []byte) error {
	value, err := ParseAbility(string(data))
	if err != nil {
		return err
	}
	*a = value
	return nil
}

// ActorID identifies the actor spawned by a Prop1 of category Actor.
type ActorID uint16

const (
	ExtraLife      ActorID = 71
	EmptyHoneycomb ActorID = 73
)

var actorNames = map[ActorID]string{
	ExtraLife:      "ExtraLife",
	EmptyHoneycomb: "EmptyHoneycomb",
}

func (a ActorID) String() string {
	return describe(actorNames, a)
}

// NeedsFlag reports whether the actor is world-unique. Those actors take
// their collection flag from the nearest Flags prop, so the two must always
// be moved together.
func (a ActorID) NeedsFlag() bool {
	return a == ExtraLife || a == EmptyHoneycomb
}

// SpriteID identifies the sprite drawn by a Prop2 sprite.
type SpriteID uint16

func (s SpriteID) String() string {
	return fmt.Sprintf("Sprite(%d, 0x%X)", uint16(s), uint16(s))
}

// WarpID identifies a Prop1 of category WarpOrTrigger.
type WarpID uint16

const (
	TtcEnterLevel WarpID = 12
	CcEnterLevel  WarpID = 13
	BgsEnterLevel WarpID = 14
	GvEnterLevel  WarpID = 15
	MmmEnterLevel WarpID = 16
	RbbEnterLevel WarpID = 17
	FpEnterLevel  WarpID = 115
	MmEnterLevel  WarpID = 159
	CcwEnterLevel WarpID = 290
)

var warpNames = map[WarpID]string{
	TtcEnterLevel: "TtcEnterLevel",
	CcEnterLevel:  "CcEnterLevel",
	BgsEnterLevel: "BgsEnterLevel",
	GvEnterLevel:  "GvEnterLevel",
	MmmEnterLevel: "MmmEnterLevel",
	RbbEnterLevel: "RbbEnterLevel",
	FpEnterLevel:  "FpEnterLevel",
	MmEnterLevel:  "MmEnterLevel",
	CcwEnterLevel: "CcwEnterLevel",
}

func (w WarpID) String() string {
	return describe(warpNames, w)
}

// ParseWarp accepts either a name produced by WarpID.String or a number.
func ParseWarp(value string) (WarpID, error) {
	for warp, name := range warpNames {
		if name == value {
			return warp, nil
		}
	}

	number, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("unknown warp %s", value)
	}
	return WarpID(number), nil
}

func (w WarpID) MarshalText() ([]byte, error) {
	if _, ok := warpNames[w]; ok {
		return []byte(w.String()), nil
	}
	return []byte(fmt.Sprintf("%d", uint16(w))), nil
}

func (w *WarpID) UnmarshalText(data []byte) error {
	value, err := ParseWarp(string(data))
	if err != nil {
		return err
	}
	*w = value
	return nil
}
