package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestHexdumpFullRow(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	hexdump(&buf, 0, []byte("0123456789abcdef"), nil)

	assert.Equal(t,
		"00000000  30 31 32 33 34 35 36 37 38 39 61 62 63 64 65 66  |0123456789abcdef|\n",
		buf.String())
}

func TestHexdumpRaggedRow(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	hexdump(&buf, 0x40, []byte{0x00, 0x7F, 0x20, 0x41}, nil)

	want := "00000040  00 7f 20 41 " + strings.Repeat("   ", 12) + " |.. A|\n"
	assert.Equal(t, want, buf.String())
}

func TestHexdumpMultipleRows(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	hexdump(&buf, 0, make([]byte, 36), nil)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "00000010  "))
	assert.True(t, strings.HasPrefix(lines[2], "00000020  "))
}
