package eeprom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulatorErasedArrayReadsFF(t *testing.T) {
	sim := NewSimulator()

	sim.Write(regADDR, 0x10)
	sim.Write(regCMD, cmdRead32)
	assert.Equal(t, uint32(0xFFFFFFFF), sim.Read(regRDATA))
}

func TestSimulatorWriteOneToClear(t *testing.T) {
	sim := NewSimulator()

	sim.Write(regADDR, 0)
	sim.Write(regWDATA, 0x01020304)
	sim.Write(regCMD, cmdWrite32)
	sim.Write(regCMD, cmdEraseProgram)

	st := intStatus(sim.Read(regINTSTAT))
	assert.True(t, st.readWriteDone())
	assert.True(t, st.programDone())

	// Clearing one bit must leave the other alone.
	sim.Write(regINTSTATCLR, 1<<readWriteDoneBit)
	st = intStatus(sim.Read(regINTSTAT))
	assert.False(t, st.readWriteDone())
	assert.True(t, st.programDone())
}

func TestSimulatorUnprogrammedWordsStayInBuffer(t *testing.T) {
	sim := NewSimulator()

	// A write command stages data in the page buffer only; the array
	// must not change until an erase-program cycle runs.
	sim.Write(regADDR, 0x20)
	sim.Write(regWDATA, 0xAABBCCDD)
	sim.Write(regCMD, cmdWrite32)

	sim.Write(regADDR, 0x20)
	sim.Write(regCMD, cmdRead32)
	assert.Equal(t, uint32(0xFFFFFFFF), sim.Read(regRDATA))

	sim.Write(regADDR, 0x20)
	sim.Write(regCMD, cmdEraseProgram)

	sim.Write(regCMD, cmdRead32)
	assert.Equal(t, uint32(0xAABBCCDD), sim.Read(regRDATA))
}

func TestSimulatorLoadImage(t *testing.T) {
	sim := NewSimulator()

	img := make([]byte, Size)
	for i := range img {
		img[i] = byte(i * 7)
	}
	sim.LoadImage(img)

	assert.Equal(t, img, sim.Snapshot())
}
