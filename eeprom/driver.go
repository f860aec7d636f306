package eeprom

import (
	"encoding/binary"
	"time"
)

// Clock supplies the current system clock frequency. The wait-state and
// clock-divider registers are derived from it during Initialize.
type Clock interface {
	Frequency() uint64
}

// FixedClock is a Clock with a constant frequency in Hz.
type FixedClock uint64

func (c FixedClock) Frequency() uint64 { return uint64(c) }

// DefaultTimeout is the poll window allowed for each word write and
// each erase-program cycle.
const DefaultTimeout = 20 * time.Millisecond

// EEPROM drives one controller instance. There is a single controller
// per chip; construct one EEPROM per register block and keep it for the
// life of the process.
type EEPROM struct {
	regs    Registers
	clock   Clock
	timeout time.Duration
	yield   func()
}

// Option configures an EEPROM.
type Option func(*EEPROM)

// WithTimeout overrides the per-step poll window.
func WithTimeout(d time.Duration) Option {
	return func(e *EEPROM) { e.timeout = d }
}

// WithPollYield installs a function called between status polls, for
// schedulers that need the busy-wait to yield. The total poll window is
// unchanged; the yield only spaces out the checks.
func WithPollYield(f func()) Option {
	return func(e *EEPROM) { e.yield = f }
}

// New returns a driver for the controller behind regs. Initialize must
// be called before the first transfer.
func New(regs Registers, clock Clock, opts ...Option) *EEPROM {
	e := &EEPROM{
		regs:    regs,
		clock:   clock,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize powers the controller up and programs its timing: one
// wait-state count per internal access phase plus the divider that
// derives the 375 kHz EEPROM clock, all computed from the current
// system clock frequency.
func (e *EEPROM) Initialize() {
	t := ComputeTiming(e.clock.Frequency())

	// Enabled out of reset, but clear PWRDWN in case something turned
	// the block off.
	e.regs.Write(regPWRDWN, 0)

	e.regs.Write(regWSTATE, t.waitState())
	e.regs.Write(regCLKDIV, uint32(t.ClockDivider))
}

// Write persists data starting at the given linear byte address and
// does not return until every touched page has been programmed.
//
// The address is truncated to the valid word-aligned range (low two
// bits cleared), and len(data) must be a multiple of 4. Words are
// loaded into the page buffer one at a time; whenever the buffer fills
// the driver programs it to the array before continuing, and one final
// program flushes whatever remains. A zero-length write still issues
// that final program cycle against the translated address.
//
// A *TimeoutError means the controller stopped responding mid-transfer
// and the data may be only partially persisted.
func (e *EEPROM) Write(address uint32, data []byte) error {
	if len(data)%wordSize != 0 {
		return &AlignmentError{Len: len(data)}
	}

	addr := translate(address)
	last := addr

	for i := 0; i*wordSize < len(data); i++ {
		last = addr

		e.regs.Write(regADDR, addr.value())
		e.regs.Write(regCMD, cmdWrite32)
		e.regs.Write(regWDATA, binary.LittleEndian.Uint32(data[i*wordSize:]))

		if !e.waitFor(intStatus.readWriteDone) {
			return &TimeoutError{Op: "write", Address: addr.value(), Timeout: e.timeout}
		}
		e.regs.Write(regINTSTATCLR, 1<<readWriteDoneBit)

		var pageFull bool
		addr, pageFull = addr.next()
		if pageFull {
			if err := e.Program(last.value()); err != nil {
				return err
			}
		}
	}

	// Whatever is still sitting in the page buffer would be lost
	// without this flush.
	return e.Program(last.value())
}

// Program runs an erase-program cycle, persisting the page buffer into
// the page containing the given device address. It is issued by Write
// as needed and exposed for callers that stage words themselves.
func (e *EEPROM) Program(address uint32) error {
	e.regs.Write(regADDR, address)
	e.regs.Write(regCMD, cmdEraseProgram)

	if !e.waitFor(intStatus.programDone) {
		return &TimeoutError{Op: "program", Address: address, Timeout: e.timeout}
	}
	e.regs.Write(regINTSTATCLR, 1<<programDoneBit)

	return nil
}

// Read fills buf with len(buf) bytes starting at the given linear byte
// address. The address is truncated to the valid word-aligned range and
// len(buf) must be a multiple of 4. Reads complete synchronously; there
// is no status bit to poll.
func (e *EEPROM) Read(address uint32, buf []byte) error {
	if len(buf)%wordSize != 0 {
		return &AlignmentError{Len: len(buf)}
	}

	address &= addressMask

	for i := 0; i*wordSize < len(buf); i++ {
		e.regs.Write(regADDR, address+uint32(i*wordSize))
		e.regs.Write(regCMD, cmdRead32)
		binary.LittleEndian.PutUint32(buf[i*wordSize:], e.regs.Read(regRDATA))
	}

	return nil
}

// waitFor polls INT_STATUS until done reports true or the poll window
// lapses. The status is always sampled at least once.
func (e *EEPROM) waitFor(done func(intStatus) bool) bool {
	deadline := time.Now().Add(e.timeout)
	for {
		if done(intStatus(e.regs.Read(regINTSTAT))) {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		if e.yield != nil {
			e.yield()
		}
	}
}
