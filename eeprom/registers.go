package eeprom

// Registers is the EEPROM controller's memory-mapped register block.
// Offsets are relative to the start of the block (0x0020_0000 on the
// LPC40xx). Implementations behave like hardware: accesses cannot fail,
// and reads of write-only registers return undefined values.
type Registers interface {
	Read(off uint32) uint32
	Write(off uint32, value uint32)
}

// Register offsets within the controller block.
const (
	regCMD    = 0x080
	regADDR   = 0x084
	regWDATA  = 0x088
	regRDATA  = 0x08C
	regWSTATE = 0x090
	regCLKDIV = 0x094
	regPWRDWN = 0x098

	regINTSTAT    = 0xFE0
	regINTSTATCLR = 0xFE8
)

// Command codes written to CMD.
const (
	cmdRead32       = 0b010
	cmdWrite32      = 0b101
	cmdEraseProgram = 0b110
)

// INT_STATUS bit positions.
const (
	readWriteDoneBit = 26
	programDoneBit   = 28
)

const (
	// Size is the capacity of the EEPROM array in bytes.
	Size = 4096

	// PageSize is the size of the internal page buffer. Writes are
	// staged here and persist only after an erase-program cycle.
	PageSize = 64
)

const (
	wordSize = 4

	// Valid linear addresses fit in 12 bits and the low two are forced
	// to zero: the controller only does word-aligned 32-bit transfers.
	addressMask = 0b1111_1111_1100

	pageShift      = 6
	pageOffsetMask = 0b11_1111
)

// intStatus decodes the INT_STATUS word.
type intStatus uint32

func (s intStatus) readWriteDone() bool { return s>>readWriteDoneBit&1 == 1 }
func (s intStatus) programDone() bool   { return s>>programDoneBit&1 == 1 }

// pageAddr is the device-native form of a linear byte address: a page
// index above bit 6 and a word-aligned offset within the 64 byte page
// in the low six bits.
type pageAddr struct {
	page   uint32
	offset uint32
}

// translate masks a linear address down to the valid, word-aligned
// range and splits it. Out-of-range and misaligned addresses are
// silently truncated, matching the hardware's addressing rules.
func translate(addr uint32) pageAddr {
	addr &= addressMask
	return pageAddr{
		page:   addr >> pageShift,
		offset: addr & pageOffsetMask,
	}
}

// value packs the address back into the form the ADDR register takes.
func (a pageAddr) value() uint32 {
	return a.page<<pageShift | a.offset
}

// next advances by one word. When the offset runs past the end of the
// page buffer it wraps to the start of the next page and reports that
// the buffer must be programmed before more words are loaded.
func (a pageAddr) next() (_ pageAddr, pageFull bool) {
	a.offset += wordSize
	if a.offset > pageOffsetMask {
		return pageAddr{page: a.page + 1}, true
	}
	return a, false
}

// Timing holds the wait-state and clock-divider values programmed
// during Initialize. The EEPROM core runs at 375 kHz and its three
// internal access phases need at least 35, 55 and 15 ns respectively;
// each count is derived from the system clock so the phases meet those
// minimums.
type Timing struct {
	Phase1 uint8 // 35 ns phase
	Phase2 uint8 // 55 ns phase
	Phase3 uint8 // 15 ns phase

	// ClockDivider divides the system clock down to the 375 kHz EEPROM
	// clock. The register holds 8 bits, so the value wraps above 255.
	ClockDivider uint8
}

const eepromClockHz = 375_000

// ComputeTiming derives the register values for a given system clock
// frequency in Hz.
func ComputeTiming(hz uint64) Timing {
	f := float64(hz)
	return Timing{
		Phase1:       uint8(35e-9*f + 1),
		Phase2:       uint8(55e-9*f + 1),
		Phase3:       uint8(15e-9*f + 1),
		ClockDivider: uint8(hz / eepromClockHz),
	}
}

// waitState packs the three phase counts into the WSTATE layout:
// phase 3 in bits 0-7, phase 2 in bits 8-15, phase 1 in bits 16-23.
func (t Timing) waitState() uint32 {
	return uint32(t.Phase3) | uint32(t.Phase2)<<8 | uint32(t.Phase1)<<16
}
