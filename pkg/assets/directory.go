package assets

import "fmt"

const (
	// FILLER pads every entry to ALIGNMENT and also fills the unused
	// header word.
	FILLER    = 0xCD
	ALIGNMENT = 8
	SENTINEL  = 0xCDCDCDCD

	// u32 count, u32 sentinel
	HEADER_SIZE = 8
	// u32 offset, u32 flag
	DIRECTORY_ENTRY_SIZE = 8
)

// DataStart is the file offset that directory offsets are relative to.
func DataStart(count int) int {
	return HEADER_SIZE + count*DIRECTORY_ENTRY_SIZE
}

func padding(position int) int {
	return (ALIGNMENT - position%ALIGNMENT) % ALIGNMENT
}

type Plan struct {
	Offsets []uint32
	Size    int
}

// PlanDirectory lays out entries of the given emitted lengths back to back.
// The file is padded to the alignment after the last entry.
func PlanDirectory(lengths []int) Plan {
	plan := Plan{
		Offsets: make([]uint32, len(lengths)),
	}

	offset := 0
	for i, length := range lengths {
		plan.Offsets[i] = uint32(offset)
		offset += length
	}

	size := DataStart(len(lengths)) + offset
	plan.Size = size + padding(size)
	return plan
}

// Sizes recovers the length of every entry from its offset and the next
// one. The last entry runs to the end of the file.
func Sizes(offsets []uint32, fileSize int) ([]int, error) {
	dataSize := fileSize - DataStart(len(offsets))
	sizes := make([]int, len(offsets))

	for i, offset := range offsets {
		end := dataSize
		if i+1 < len(offsets) {
			end = int(offsets[i+1])
		}

		if int(offset) > end {
			return nil, fmt.Errorf(
				"entry %d starts at %d, after the next entry at %d",
				i,
				offset,
				end,
			)
		}

		sizes[i] = end - int(offset)
	}

	return sizes, nil
}
