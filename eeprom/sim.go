package eeprom

// Simulator models the controller at register level: the 4 KB array,
// the 64 byte page buffer with per-word dirty tracking, command
// dispatch and the write-1-to-clear status bits. It implements
// Registers and backs both the package tests and the CLI's sim backend.
//
// Like the driver, it is not safe for concurrent use.
type Simulator struct {
	store   [Size]byte
	pagebuf [PageSize]byte
	dirty   [PageSize / wordSize]bool

	addr   uint32
	wdata  uint32
	rdata  uint32
	status uint32

	pwrdwn uint32
	wstate uint32
	clkdiv uint32

	// HoldWriteDone and HoldProgramDone suppress the corresponding
	// completion bits, so polls run into their timeout.
	HoldWriteDone   bool
	HoldProgramDone bool

	programAddrs []uint32
}

var _ Registers = (*Simulator)(nil)

// NewSimulator returns a powered-up simulator with a blank (0xFF, as
// erased EEPROM reads) array.
func NewSimulator() *Simulator {
	s := &Simulator{}
	for i := range s.store {
		s.store[i] = 0xFF
	}
	return s
}

func (s *Simulator) Read(off uint32) uint32 {
	switch off {
	case regRDATA:
		return s.rdata
	case regINTSTAT:
		return s.status
	case regADDR:
		return s.addr
	case regWSTATE:
		return s.wstate
	case regCLKDIV:
		return s.clkdiv
	case regPWRDWN:
		return s.pwrdwn
	}
	return 0
}

func (s *Simulator) Write(off uint32, value uint32) {
	switch off {
	case regADDR:
		s.addr = value & (Size - 1)
	case regWDATA:
		s.wdata = value
	case regCMD:
		s.command(value & 0b111)
	case regINTSTATCLR:
		s.status &^= value
	case regWSTATE:
		s.wstate = value
	case regCLKDIV:
		s.clkdiv = value
	case regPWRDWN:
		s.pwrdwn = value
	}
}

func (s *Simulator) command(cmd uint32) {
	switch cmd {
	case cmdRead32:
		a := s.addr &^ (wordSize - 1)
		s.rdata = uint32(s.store[a]) |
			uint32(s.store[a+1])<<8 |
			uint32(s.store[a+2])<<16 |
			uint32(s.store[a+3])<<24
		if !s.HoldWriteDone {
			s.status |= 1 << readWriteDoneBit
		}

	case cmdWrite32:
		off := s.addr & pageOffsetMask &^ (wordSize - 1)
		s.pagebuf[off] = byte(s.wdata)
		s.pagebuf[off+1] = byte(s.wdata >> 8)
		s.pagebuf[off+2] = byte(s.wdata >> 16)
		s.pagebuf[off+3] = byte(s.wdata >> 24)
		s.dirty[off/wordSize] = true
		if !s.HoldWriteDone {
			s.status |= 1 << readWriteDoneBit
		}

	case cmdEraseProgram:
		base := s.addr &^ (PageSize - 1)
		for w, d := range s.dirty {
			if !d {
				continue
			}
			copy(s.store[base+uint32(w*wordSize):], s.pagebuf[w*wordSize:(w+1)*wordSize])
			s.dirty[w] = false
		}
		s.programAddrs = append(s.programAddrs, s.addr)
		if !s.HoldProgramDone {
			s.status |= 1 << programDoneBit
		}
	}
}

// ProgramAddresses returns the ADDR value of every erase-program cycle
// issued so far, oldest first.
func (s *Simulator) ProgramAddresses() []uint32 {
	out := make([]uint32, len(s.programAddrs))
	copy(out, s.programAddrs)
	return out
}

// Snapshot returns a copy of the persisted array. Words still sitting
// in the page buffer are not included.
func (s *Simulator) Snapshot() []byte {
	out := make([]byte, Size)
	copy(out, s.store[:])
	return out
}

// LoadImage seeds the persisted array, as if the EEPROM had been
// programmed before power-on. Images longer than the array are
// truncated.
func (s *Simulator) LoadImage(img []byte) {
	copy(s.store[:], img)
}

// PoweredDown reports the PWRDWN register state.
func (s *Simulator) PoweredDown() bool { return s.pwrdwn != 0 }

// WaitState returns the last value written to WSTATE.
func (s *Simulator) WaitState() uint32 { return s.wstate }

// ClockDivider returns the last value written to CLKDIV.
func (s *Simulator) ClockDivider() uint32 { return s.clkdiv }
