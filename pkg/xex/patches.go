package xex

import (
	"fmt"

	C "github.com/cfoust/rando/pkg/game/constants"

	"github.com/rs/zerolog/log"
)

var ErrNoHooks = fmt.Errorf("executable layout has no code hooks")
var ErrNoMoveFlags = fmt.Errorf("executable layout lists no move flags")

const LAIR_WARP_SIZE = 4

// LairWarp is where the "return to lair" option of a level sends the
// player.
type LairWarp struct {
	Map  uint16 `yaml:"map"`
	Exit uint16 `yaml:"exit"`
}

func (i *Image) lairWarpOffset(level int) int {
	return DataOffset(i.Layout.LairWarps + uint32(level*LAIR_WARP_SIZE))
}

func (i *Image) LairWarp(level int) (LairWarp, error) {
	offset := i.lairWarpOffset(level)

	var warp LairWarp
	var err error
	if warp.Map, err = i.ReadUint16(offset); err != nil {
		return warp, err
	}
	if warp.Exit, err = i.ReadUint16(offset + 2); err != nil {
		return warp, err
	}
	return warp, nil
}

// LairWarps reads the entries of the first count levels.
func (i *Image) LairWarps(count int) ([]LairWarp, error) {
	warps := make([]LairWarp, count)
	for level := range warps {
		warp, err := i.LairWarp(level)
		if err != nil {
			return nil, err
		}
		warps[level] = warp
	}
	return warps, nil
}

func (i *Image) SetLairWarp(level int, warp LairWarp) error {
	offset := i.lairWarpOffset(level)

	err := i.WriteUint16(offset, warp.Map)
	if err != nil {
		return err
	}

	return i.WriteUint16(offset+2, warp.Exit)
}

// Molehill is what one row of the molehill table teaches. The byte before
// the ability is not ours and is never written.
type Molehill struct {
	Teach     uint16    `yaml:"teach"`
	Refresher uint16    `yaml:"refresher"`
	Ability   C.Ability `yaml:"ability"`
}

func (i *Image) molehillOffset(index int) int {
	return DataOffset(i.Layout.Molehills + uint32(index)*i.Layout.MolehillStride)
}

func (i *Image) Molehill(index int) (Molehill, error) {
	offset := i.molehillOffset(index)

	var molehill Molehill
	var err error
	if molehill.Teach, err = i.ReadUint16(offset); err != nil {
		return molehill, err
	}
	if molehill.Refresher, err = i.ReadUint16(offset + 2); err != nil {
		return molehill, err
	}

	ability, err := i.ReadUint8(offset + 5)
	if err != nil {
		return molehill, err
	}
	molehill.Ability = C.Ability(ability)

	return molehill, nil
}

func (i *Image) SetMolehill(index int, molehill Molehill) error {
	offset := i.molehillOffset(index)

	err := i.WriteUint16(offset, molehill.Teach)
	if err != nil {
		return err
	}

	err = i.WriteUint16(offset+2, molehill.Refresher)
	if err != nil {
		return err
	}

	return i.WriteUint8(offset+5, uint8(molehill.Ability))
}

func (i *Image) noteDoorOffset(index int) int {
	return DataOffset(i.Layout.NoteDoors + uint32(index*i.Layout.NoteDoorWidth))
}

func (i *Image) NoteDoorCost(index int) (uint32, error) {
	if index < 0 || index >= len(i.Layout.NoteDoorCosts) {
		return 0, fmt.Errorf("note door %d does not exist", index)
	}

	offset := i.noteDoorOffset(index)
	if i.Layout.NoteDoorWidth == 2 {
		cost, err := i.ReadUint16(offset)
		return uint32(cost), err
	}
	return i.ReadUint32(offset)
}

// UnlockNoteDoors zeroes the cost of each note door. Every door is checked
// against its retail cost before anything is written.
func (i *Image) UnlockNoteDoors(indices []int) error {
	for _, index := range indices {
		cost, err := i.NoteDoorCost(index)
		if err != nil {
			return err
		}

		expected := i.Layout.NoteDoorCosts[index]
		if cost != expected {
			return fmt.Errorf(
				"note door %d costs %d, expected %d",
				index,
				cost,
				expected,
			)
		}
	}

	for _, index := range indices {
		offset := i.noteDoorOffset(index)

		var err error
		if i.Layout.NoteDoorWidth == 2 {
			err = i.WriteUint16(offset, 0)
		} else {
			err = i.WriteUint32(offset, 0)
		}

		if err != nil {
			return err
		}
	}

	log.Debug().Ints("doors", indices).Msg("unlocked note doors")
	return nil
}

// InjectStartup emits a routine that sets every run of flags and then
// makes the call the startup hook used to make, and points the hook at it.
// It returns the routine's address.
func (i *Image) InjectStartup(runs []Run) (uint32, error) {
	hooks := i.Layout.Hooks
	if hooks == nil {
		return 0, ErrNoHooks
	}

	site := hooks.Startup
	word, err := i.ReadUint32(CodeOffset(site))
	if err != nil {
		return 0, err
	}

	original, link, ok := BranchTarget(site, word)
	if !ok || !link {
		return 0, fmt.Errorf("startup hook 0x%08X is not a call (0x%08X)", site, word)
	}

	start := i.cursor
	emitter := i.Emitter(start)

	err = emitter.Prologue()
	if err != nil {
		return 0, err
	}

	for _, run := range runs {
		switch run.Count {
		case 0:
			continue
		case 1:
			err = emitter.SetFlag(hooks.SetFlag, run.Flag)
		default:
			err = emitter.SetFlags(hooks.SetFlags, run.Flag, run.Count)
		}

		if err != nil {
			return 0, err
		}
	}

	err = emitter.Call(original)
	if err != nil {
		return 0, err
	}

	err = emitter.Epilogue()
	if err != nil {
		return 0, err
	}

	err = i.WriteUint32(CodeOffset(site), Call(site, start))
	if err != nil {
		return 0, err
	}

	emitted := emitter.Cursor() - start
	if hooks.TextSize != 0 {
		size, err := i.ReadUint32(hooks.TextSize)
		if err != nil {
			return 0, err
		}

		err = i.WriteUint32(hooks.TextSize, size+emitted)
		if err != nil {
			return 0, err
		}
	}

	i.cursor = emitter.Cursor()

	log.Debug().
		Str("at", fmt.Sprintf("0x%08X", start)).
		Uint32("bytes", emitted).
		Msg("injected startup routine")

	return start, nil
}

// UnlockMoves makes every file start with all of the moves learned.
func (i *Image) UnlockMoves() error {
	err := i.Layout.CanUnlockMoves()
	if err != nil {
		return err
	}

	_, err = i.InjectStartup(i.Layout.MoveFlags)
	return err
}
