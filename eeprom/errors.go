package eeprom

import (
	"fmt"
	"time"
)

// TimeoutError indicates that the controller did not report completion
// of a write or program step within the poll window. The data involved
// may be partially persisted and should be verified with a readback.
type TimeoutError struct {
	Op      string // "write" or "program"
	Address uint32 // device address (page and offset packed)
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("eeprom: %s at 0x%03x did not complete within %s",
		e.Op, e.Address, e.Timeout)
}

// AlignmentError indicates a transfer length that is not a multiple of
// the 4 byte word size. The controller has no partial-word access mode,
// so such transfers are rejected rather than rounded.
type AlignmentError struct {
	Len int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("eeprom: transfer length %d is not a multiple of %d",
		e.Len, wordSize)
}
