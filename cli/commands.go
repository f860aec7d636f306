package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/inancgumus/screen"
	"github.com/sigurn/crc16"

	"github.com/johnneerdael/lpc-tools/eeprom"
)

var crcTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// parseNum accepts decimal, 0x hex and 0o/0b forms.
func parseNum(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", s, err)
	}
	return uint32(v), nil
}

// padToWord extends data with 0xFF (the erased state) up to the next
// 4 byte boundary, since the controller has no partial-word writes.
func padToWord(data []byte) []byte {
	for len(data)%4 != 0 {
		data = append(data, 0xFF)
	}
	return data
}

type InfoCmd struct{}

func (i *InfoCmd) Run(c *Context) error {
	t := eeprom.ComputeTiming(CLI.Clock)

	bold := color.New(color.Bold)
	bold.Printf("EEPROM timing for a %d Hz system clock:\n", CLI.Clock)
	fmt.Printf("\tWait states  phase1=%d phase2=%d phase3=%d\n",
		t.Phase1, t.Phase2, t.Phase3)
	fmt.Printf("\tClock divider %d (target %d Hz)\n", t.ClockDivider, 375000)
	fmt.Printf("\tCapacity     %d bytes, %d byte pages\n", eeprom.Size, eeprom.PageSize)
	return nil
}

type ReadCmd struct {
	Addr  string `arg:"" help:"Start address (decimal or 0x hex)."`
	Count string `arg:"" help:"Number of bytes to read, a multiple of 4."`
	Out   string `help:"Write the raw bytes to this file instead of dumping."`
}

func (r *ReadCmd) Run(c *Context) error {
	addr, err := parseNum(r.Addr)
	if err != nil {
		return err
	}
	count, err := parseNum(r.Count)
	if err != nil {
		return err
	}

	dev, err := c.device()
	if err != nil {
		return err
	}

	buf := make([]byte, count)
	if err := dev.Read(addr, buf); err != nil {
		return err
	}

	if r.Out != "" {
		return os.WriteFile(r.Out, buf, 0644)
	}

	hexdump(os.Stdout, addr, buf, nil)
	return nil
}

type WriteCmd struct {
	Addr   string `arg:"" help:"Start address (decimal or 0x hex)."`
	File   string `help:"File with the data to write." xor:"data" required:""`
	Hex    string `help:"Inline hex data, e.g. efbeadde." xor:"data" required:""`
	Verify bool   `help:"Read back and CRC-compare after writing."`
}

func (w *WriteCmd) Run(c *Context) error {
	addr, err := parseNum(w.Addr)
	if err != nil {
		return err
	}

	var data []byte
	if w.File != "" {
		data, err = os.ReadFile(w.File)
	} else {
		data, err = hex.DecodeString(strings.TrimPrefix(w.Hex, "0x"))
	}
	if err != nil {
		return err
	}
	data = padToWord(data)

	dev, err := c.device()
	if err != nil {
		return err
	}

	if err := dev.Write(addr, data); err != nil {
		return err
	}
	fmt.Printf("Wrote %d bytes at 0x%03x\n", len(data), addr)

	if !w.Verify {
		return nil
	}

	check := make([]byte, len(data))
	if err := dev.Read(addr, check); err != nil {
		return err
	}

	want := crc16.Checksum(data, crcTable)
	got := crc16.Checksum(check, crcTable)
	if want != got {
		return fmt.Errorf("verify failed: wrote crc 0x%04x, read back 0x%04x", want, got)
	}

	color.Green("Verify OK (crc 0x%04x)", got)
	return nil
}

type VerifyCmd struct {
	Addr   string `arg:"" help:"Start address (decimal or 0x hex)."`
	Count  string `arg:"" help:"Number of bytes, a multiple of 4."`
	Expect string `help:"Expected CRC-16/CCITT-FALSE, e.g. 0x29b1."`
}

func (v *VerifyCmd) Run(c *Context) error {
	addr, err := parseNum(v.Addr)
	if err != nil {
		return err
	}
	count, err := parseNum(v.Count)
	if err != nil {
		return err
	}

	dev, err := c.device()
	if err != nil {
		return err
	}

	buf := make([]byte, count)
	if err := dev.Read(addr, buf); err != nil {
		return err
	}

	crc := crc16.Checksum(buf, crcTable)
	fmt.Printf("crc16/ccitt-false 0x%03x..0x%03x = 0x%04x\n", addr, addr+count, crc)

	if v.Expect != "" {
		want, err := parseNum(v.Expect)
		if err != nil {
			return err
		}
		if uint16(want) != crc {
			return fmt.Errorf("crc mismatch: want 0x%04x, got 0x%04x", uint16(want), crc)
		}
		color.Green("CRC OK")
	}
	return nil
}

type WatchCmd struct {
	Addr     string        `arg:"" help:"Start address (decimal or 0x hex)."`
	Count    string        `arg:"" help:"Number of bytes, a multiple of 4."`
	Interval time.Duration `default:"1s" help:"Refresh interval."`
	Times    int           `help:"Stop after this many refreshes (0 = run until interrupted)."`
}

func (w *WatchCmd) Run(c *Context) error {
	addr, err := parseNum(w.Addr)
	if err != nil {
		return err
	}
	count, err := parseNum(w.Count)
	if err != nil {
		return err
	}

	dev, err := c.device()
	if err != nil {
		return err
	}

	var prev []byte
	for n := 0; w.Times == 0 || n < w.Times; n++ {
		buf := make([]byte, count)
		if err := dev.Read(addr, buf); err != nil {
			return err
		}

		changed := make([]bool, len(buf))
		if prev != nil {
			for i := range buf {
				changed[i] = buf[i] != prev[i]
			}
		}

		screen.Clear()
		screen.MoveTopLeft()
		fmt.Printf("0x%03x +%d bytes, every %s  (%s)\n\n",
			addr, count, w.Interval, time.Now().Format(time.TimeOnly))
		hexdump(os.Stdout, addr, buf, changed)

		prev = buf
		time.Sleep(w.Interval)
	}
	return nil
}
