package stdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNibblePair(t *testing.T) {
	src := NewBytesReader([]byte{0x7D})

	lo, acc, err := decodeNibble(src, nibbles{})
	require.NoError(t, err)
	assert.Equal(t, uint8(0xD), lo)
	assert.True(t, acc.high)
	assert.Equal(t, 1, src.Len())

	hi, acc, err := decodeNibble(src, acc)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7), hi)
	assert.False(t, acc.high)
	assert.Equal(t, 1, src.Len(), "the high nibble reads no new byte")

	_, _, err = decodeNibble(src, acc)
	assert.ErrorIs(t, err, ErrBodyOverrun)
}

func TestAppendNibblePair(t *testing.T) {
	dst := []byte{0xAA}
	dst, acc, err := appendNibble(dst, uint8(0xD), nibbleSlot{})
	require.NoError(t, err)
	dst, acc, err = appendNibble(dst, 7, acc)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0x7D}, dst)
	assert.False(t, acc.high)

	// an odd nibble leaves the high half zero
	dst, _, err = appendNibble(dst, 3, acc)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0x7D, 0x03}, dst)

	_, _, err = appendNibble(nil, 16, nibbleSlot{})
	assert.ErrorIs(t, err, ErrValueRange)
}
