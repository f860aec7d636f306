//go:build linux

package main

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/johnneerdael/lpc-tools/eeprom"
)

// The controller's registers fit well inside one 4 KB window.
const regWindowSize = 0x1000

// devmemBackend maps the register block through /dev/mem. Meant for
// poking the controller from a Linux debug window; on the real chip
// the firmware accesses the block directly.
type devmemBackend struct {
	fd  int
	mem []byte
}

func openDevmem(base uint64) (backend, error) {
	fd, err := unix.Open("/dev/mem", unix.O_RDWR|unix.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/mem: %w", err)
	}

	mem, err := unix.Mmap(fd, int64(base), regWindowSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap register block at 0x%x: %w", base, err)
	}

	return &devmemBackend{fd: fd, mem: mem}, nil
}

func (b *devmemBackend) Registers() eeprom.Registers {
	return (*devmemRegisters)(&b.mem)
}

func (b *devmemBackend) Close() error {
	err := unix.Munmap(b.mem)
	if cerr := unix.Close(b.fd); err == nil {
		err = cerr
	}
	return err
}

type devmemRegisters []byte

func (r *devmemRegisters) Read(off uint32) uint32 {
	return *(*uint32)(unsafe.Pointer(&(*r)[off]))
}

func (r *devmemRegisters) Write(off uint32, value uint32) {
	*(*uint32)(unsafe.Pointer(&(*r)[off])) = value
}
