package eeprom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateMasksToAlignedRange(t *testing.T) {
	addrs := []uint32{
		0x000, 0x001, 0x002, 0x003, 0x004,
		0x03F, 0x040, 0x07C, 0x0FFF,
		0x1010, 0x123456, 0xFFFFFFFF,
	}

	for _, a := range addrs {
		v := translate(a).value()
		assert.Equal(t, a&addressMask, v, "addr 0x%x", a)
		assert.Zero(t, v&^addressMask, "addr 0x%x escapes the valid range", a)
		assert.Zero(t, v%wordSize, "addr 0x%x not word aligned", a)
	}
}

func TestTranslateSplitsPageAndOffset(t *testing.T) {
	a := translate(0x7C)
	assert.Equal(t, uint32(1), a.page)
	assert.Equal(t, uint32(0x3C), a.offset)

	a = translate(0x40)
	assert.Equal(t, uint32(1), a.page)
	assert.Equal(t, uint32(0), a.offset)
}

func TestPageAddrNextWrapsIntoNextPage(t *testing.T) {
	a := pageAddr{page: 2, offset: 0x38}

	a, full := a.next()
	assert.False(t, full)
	assert.Equal(t, pageAddr{page: 2, offset: 0x3C}, a)

	a, full = a.next()
	assert.True(t, full)
	assert.Equal(t, pageAddr{page: 3, offset: 0}, a)
}

func TestComputeTiming(t *testing.T) {
	// 15 ns * 96 MHz = 1.44, 55 ns * 96 MHz = 5.28, 35 ns * 96 MHz =
	// 3.36; each plus one, truncated. The divider 96e6/375e3 = 256
	// wraps to 0 in the 8-bit register.
	got := ComputeTiming(96_000_000)
	assert.Equal(t, Timing{Phase1: 4, Phase2: 6, Phase3: 2, ClockDivider: 0}, got)

	got = ComputeTiming(48_000_000)
	assert.Equal(t, Timing{Phase1: 2, Phase2: 3, Phase3: 1, ClockDivider: 128}, got)
}

func TestWaitStatePacking(t *testing.T) {
	w := Timing{Phase1: 4, Phase2: 6, Phase3: 2}.waitState()
	assert.Equal(t, uint32(0x04_06_02), w)
}

func TestIntStatusBits(t *testing.T) {
	assert.True(t, intStatus(1<<readWriteDoneBit).readWriteDone())
	assert.False(t, intStatus(1<<readWriteDoneBit).programDone())
	assert.True(t, intStatus(1<<programDoneBit).programDone())
	assert.False(t, intStatus(0).readWriteDone())
}
