package main

import (
	"testing"

	"github.com/sigurn/crc16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNum(t *testing.T) {
	for in, want := range map[string]uint32{
		"0":     0,
		"64":    64,
		"0x40":  0x40,
		"0xffc": 0xFFC,
	} {
		got, err := parseNum(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseNum("nope")
	assert.Error(t, err)
}

func TestPadToWord(t *testing.T) {
	assert.Len(t, padToWord(nil), 0)
	assert.Len(t, padToWord(make([]byte, 4)), 4)
	assert.Equal(t, []byte{1, 0xFF, 0xFF, 0xFF}, padToWord([]byte{1}))
	assert.Len(t, padToWord(make([]byte, 7)), 8)
}

func TestCRCTableMatchesCCITTFalse(t *testing.T) {
	// The standard check value for CRC-16/CCITT-FALSE.
	assert.Equal(t, uint16(0x29B1), crc16.Checksum([]byte("123456789"), crcTable))
}
