package xex

// Instruction words for the handful of PowerPC sequences the patches emit.
const (
	BLR uint32 = 0x4E800020

	// mflr r12; stw r12,-8(r1); stwu r1,-0x60(r1)
	MFLR_R12      uint32 = 0x7D8802A6
	STW_R12_SAVE  uint32 = 0x9181FFF8
	STWU_R1_FRAME uint32 = 0x9421FFA0

	// addi r1,r1,0x60; lwz r12,-8(r1); mtlr r12
	ADDI_R1_FRAME uint32 = 0x38210060
	LWZ_R12_SAVE  uint32 = 0x8181FFF8
	MTLR_R12      uint32 = 0x7D8803A6

	BRANCH      uint32 = 0x48000000
	BRANCH_MASK uint32 = 0x03FFFFFC
	LINK        uint32 = 1

	// addi rD,0,SIMM with rD in bits 21..25
	LI uint32 = 0x38000000
)

type Register uint32

const (
	R3 Register = 3
	R4 Register = 4
)

func Prologue() []uint32 {
	return []uint32{MFLR_R12, STW_R12_SAVE, STWU_R1_FRAME}
}

func Epilogue() []uint32 {
	return []uint32{ADDI_R1_FRAME, LWZ_R12_SAVE, MTLR_R12, BLR}
}

// Jump is a relative branch from the instruction at from to to.
func Jump(from, to uint32) uint32 {
	return ((to - from) & BRANCH_MASK) | BRANCH
}

// Call is Jump with the link bit set.
func Call(from, to uint32) uint32 {
	return Jump(from, to) | LINK
}

// Li loads a signed 16-bit immediate into a register.
func Li(register Register, value int16) uint32 {
	return LI | uint32(register)<<21 | uint32(uint16(value))
}

// BranchTarget decodes a relative branch at address, reporting whether the
// word is one and whether it links.
func BranchTarget(address uint32, word uint32) (target uint32, link bool, ok bool) {
	if word&0xFC000002 != BRANCH {
		return 0, false, false
	}

	displacement := word & BRANCH_MASK
	// Sign-extend the 26-bit field
	if displacement&0x02000000 != 0 {
		displacement |= 0xFC000000
	}

	return address + displacement, word&LINK != 0, true
}
