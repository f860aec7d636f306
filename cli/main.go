package main

import (
	"time"

	"github.com/alecthomas/kong"
	"github.com/johnneerdael/lpc-tools/eeprom"
)

// backend provides register access to one EEPROM controller.
type backend interface {
	Registers() eeprom.Registers
	Close() error
}

var CLI struct {
	Backend string        `enum:"sim,devmem,hid" default:"sim" help:"Register access backend: sim, devmem or hid."`
	Clock   uint64        `default:"12000000" help:"System clock frequency in Hz, used to derive the timing registers."`
	Timeout time.Duration `default:"20ms" help:"Poll window allowed per write/program step."`

	Image string `help:"Backing image file for the sim backend; loaded at start, saved on exit."`
	Base  uint64 `default:"0x200000" help:"Physical address of the EEPROM register block (devmem backend)."`

	VID     int    `default:"0x1fc9" help:"USB vendor ID of the debug probe (hid backend)."`
	VID2    int    `help:"Alternate USB vendor ID to try (hid backend)."`
	PID     int    `default:"0x0090" help:"USB product ID of the debug probe (hid backend)."`
	Serial  string `help:"Only use the probe with this serial number (hid backend)."`
	RawPath string `help:"Only use the probe at this platform path (hid backend)."`

	Info    InfoCmd    `cmd:"" help:"Show the timing values derived from the clock frequency."`
	Read    ReadCmd    `cmd:"" help:"Read a region and hexdump it or save it to a file."`
	Write   WriteCmd   `cmd:"" help:"Write a file or inline hex into the EEPROM."`
	Verify  VerifyCmd  `cmd:"" help:"CRC-16 a region, optionally against an expected value."`
	Watch   WatchCmd   `cmd:"" help:"Periodically re-read a region and highlight changes."`
	ListHID ListHIDCmd `cmd:"" name:"list-hid" help:"List candidate debug probes."`
}

type Context struct {
	backend backend
	dev     *eeprom.EEPROM
}

// device opens the selected backend on first use and hands out one
// initialized driver for the rest of the invocation.
func (c *Context) device() (*eeprom.EEPROM, error) {
	if c.dev != nil {
		return c.dev, nil
	}

	var err error
	switch CLI.Backend {
	case "devmem":
		c.backend, err = openDevmem(CLI.Base)
	case "hid":
		c.backend, err = openHID()
	default:
		c.backend, err = openSim(CLI.Image)
	}
	if err != nil {
		return nil, err
	}

	c.dev = eeprom.New(c.backend.Registers(), eeprom.FixedClock(CLI.Clock),
		eeprom.WithTimeout(CLI.Timeout))
	c.dev.Initialize()
	return c.dev, nil
}

func (c *Context) Close() error {
	if c.backend == nil {
		return nil
	}
	return c.backend.Close()
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("lpceeprom"),
		kong.Description("Read and write the LPC40xx on-chip EEPROM."))

	c := &Context{}
	err := ctx.Run(c)
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	ctx.FatalIfErrorf(err)
}
