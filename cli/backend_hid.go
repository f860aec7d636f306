package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/karalabe/usb"

	"github.com/johnneerdael/lpc-tools/eeprom"
)

// Debug-probe feature report opcodes. The probe tunnels single register
// accesses: e0 oooo 00000000 reads the register at offset oooo (reply
// carries the value in bytes 1-4), e1 oooo vvvvvvvv writes it.
const (
	reportRegRead  = 0xE0
	reportRegWrite = 0xE1
)

// hidDeviceWrapper wraps usb.Device behind the feature-report calls the
// probe protocol needs.
type hidDeviceWrapper struct {
	dev usb.Device
}

func (d *hidDeviceWrapper) GetFeatureReport(b []byte) (int, error) {
	if len(b) < 1 {
		return 0, errors.New("buffer too small")
	}
	return d.dev.Read(b)
}

func (d *hidDeviceWrapper) SendFeatureReport(b []byte) (int, error) {
	if len(b) < 1 {
		return 0, errors.New("buffer too small")
	}
	return d.dev.Write(b)
}

func (d *hidDeviceWrapper) Close() error {
	return d.dev.Close()
}

// hidRegisters tunnels register accesses over the probe. The Registers
// contract has no error path (hardware MMIO cannot fail), so transport
// errors are logged, reads return zero, and the first error is kept for
// the backend to surface on Close.
type hidRegisters struct {
	dev *hidDeviceWrapper
	err error
}

func (r *hidRegisters) fail(op string, off uint32, err error) {
	log.Printf("probe %s of register 0x%03x failed: %v", op, off, err)
	if r.err == nil {
		r.err = fmt.Errorf("probe %s of register 0x%03x: %w", op, off, err)
	}
}

func (r *hidRegisters) Read(off uint32) uint32 {
	var out [8]byte
	out[0] = reportRegRead
	binary.BigEndian.PutUint16(out[1:], uint16(off))

	if _, err := r.dev.SendFeatureReport(out[:]); err != nil {
		r.fail("read", off, err)
		return 0
	}

	in := make([]byte, 8)
	if _, err := r.dev.GetFeatureReport(in); err != nil {
		r.fail("read", off, err)
		return 0
	}

	return binary.BigEndian.Uint32(in[1:])
}

func (r *hidRegisters) Write(off uint32, value uint32) {
	var out [8]byte
	out[0] = reportRegWrite
	binary.BigEndian.PutUint16(out[1:], uint16(off))
	binary.BigEndian.PutUint32(out[3:], value)

	if _, err := r.dev.SendFeatureReport(out[:]); err != nil {
		r.fail("write", off, err)
	}
}

type hidBackend struct {
	regs *hidRegisters
}

func openHID() (backend, error) {
	dev, err := openProbe()
	if err != nil {
		return nil, err
	}
	return &hidBackend{regs: &hidRegisters{dev: dev}}, nil
}

func (b *hidBackend) Registers() eeprom.Registers {
	return b.regs
}

func (b *hidBackend) Close() error {
	err := b.regs.err
	if cerr := b.regs.dev.Close(); err == nil {
		err = cerr
	}
	return err
}

func tryEnumerate(vid uint16, pid uint16) ([]usb.DeviceInfo, error) {
	var lastErr error
	for attempts := 0; attempts < 3; attempts++ {
		if attempts > 0 {
			time.Sleep(100 * time.Millisecond)
		}

		devices, err := usb.EnumerateHid(vid, pid)
		if err == nil && len(devices) > 0 {
			return devices, nil
		}
		if err != nil {
			lastErr = err
			log.Printf("HID enumeration error: %v", err)
		}

		// Some probes only expose a raw interface.
		rawDevices, err := usb.EnumerateRaw(vid, pid)
		if err == nil && len(rawDevices) > 0 {
			return rawDevices, nil
		}
		if err != nil {
			lastErr = err
			log.Printf("Raw enumeration error: %v", err)
		}
	}
	return nil, lastErr
}

func SearchDevice(foundHandler func(info usb.DeviceInfo) error) error {
	if !usb.Supported() {
		return fmt.Errorf("USB support not enabled on this platform")
	}

	devices, err := tryEnumerate(uint16(CLI.VID), uint16(CLI.PID))
	if err != nil {
		log.Printf("Error enumerating devices: %v", err)
	}

	if (err != nil || len(devices) == 0) && CLI.VID2 != 0 {
		devices, err = tryEnumerate(uint16(CLI.VID2), uint16(CLI.PID))
		if err != nil {
			log.Printf("Error enumerating devices with alternate VID: %v", err)
		}
	}

	if len(devices) == 0 {
		return os.ErrNotExist
	}

	for _, info := range devices {
		if CLI.Serial != "" && info.Serial != CLI.Serial {
			continue
		}
		if CLI.RawPath != "" && info.Path != CLI.RawPath {
			continue
		}

		if err := foundHandler(info); err != nil {
			if err.Error() == "Done" {
				return nil
			}
			return err
		}
	}
	return nil
}

func openProbe() (*hidDeviceWrapper, error) {
	var device *hidDeviceWrapper
	err := SearchDevice(func(info usb.DeviceInfo) error {
		// Opening can be flaky right after enumeration.
		for attempts := 0; attempts < 3; attempts++ {
			if attempts > 0 {
				time.Sleep(100 * time.Millisecond)
			}
			dev, err := info.Open()
			if err == nil {
				device = &hidDeviceWrapper{dev: dev}
				return errors.New("Done")
			}
			log.Printf("Failed to open probe %s (attempt %d): %v", info.Path, attempts+1, err)
		}
		return fmt.Errorf("failed to open probe after multiple attempts")
	})
	if device != nil {
		return device, nil
	}
	if err == nil {
		err = os.ErrNotExist
	}
	return nil, err
}

type ListHIDCmd struct {
}

func (l *ListHIDCmd) Run(c *Context) error {
	return SearchDevice(func(info usb.DeviceInfo) error {
		fmt.Printf("%s: ID %04x:%04x %s %s (Interface %d)\n",
			info.Path, info.VendorID, info.ProductID, info.Manufacturer, info.Product, info.Interface)
		fmt.Println("Device Information:")
		fmt.Printf("\tPath         %s\n", info.Path)
		fmt.Printf("\tVendorID     %04x\n", info.VendorID)
		fmt.Printf("\tProductID    %04x\n", info.ProductID)
		fmt.Printf("\tSerial       %s\n", info.Serial)
		fmt.Printf("\tRelease      %x.%x\n", info.Release>>8, info.Release&0xff)
		fmt.Printf("\tManufacturer %s\n", info.Manufacturer)
		fmt.Printf("\tProduct      %s\n", info.Product)
		fmt.Printf("\tInterface    %d\n", info.Interface)
		fmt.Printf("\tUsage        %04x\n", info.Usage)
		fmt.Println()

		return nil
	})
}
