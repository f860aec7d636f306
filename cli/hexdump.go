package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	addrColor    = color.New(color.FgCyan)
	changedColor = color.New(color.FgRed, color.Bold)
)

// hexdump prints 16 bytes per line with an ASCII gutter. changed may be
// nil; when given, it marks bytes to highlight (same indexing as data).
func hexdump(w io.Writer, base uint32, data []byte, changed []bool) {
	for row := 0; row < len(data); row += 16 {
		end := row + 16
		if end > len(data) {
			end = len(data)
		}

		addrColor.Fprintf(w, "%08x  ", base+uint32(row))

		for i := row; i < row+16; i++ {
			if i >= len(data) {
				fmt.Fprint(w, "   ")
				continue
			}
			if changed != nil && changed[i] {
				changedColor.Fprintf(w, "%02x ", data[i])
			} else {
				fmt.Fprintf(w, "%02x ", data[i])
			}
		}

		fmt.Fprint(w, " |")
		for _, b := range data[row:end] {
			if b >= 0x20 && b < 0x7f {
				fmt.Fprintf(w, "%c", b)
			} else {
				fmt.Fprint(w, ".")
			}
		}
		fmt.Fprintln(w, "|")
	}
}
