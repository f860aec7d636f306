// Package eeprom drives the LPC40xx on-chip EEPROM controller.
//
// The controller exposes a 4 KB byte-addressable array that can only be
// accessed as 32-bit words through a 64 byte page buffer. Writes land in
// the page buffer and become durable only after an erase-program cycle,
// which this package issues automatically at every page boundary and at
// the end of each transfer.
//
// The register block is abstracted behind the Registers interface so the
// driver can run against memory-mapped hardware, a debug-probe tunnel, or
// the in-process Simulator.
//
// The driver is not safe for concurrent use; the controller has a single
// page buffer and callers must serialize access themselves.
package eeprom
