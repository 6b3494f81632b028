package stdf

import "fmt"

// nibbles is the decode-side parity state of consecutive N1 fields. The zero
// value expects a low nibble, which reads a fresh byte; the following N1 takes
// the high nibble of that same byte without reading.
type nibbles struct {
	b    byte
	high bool
}

// decodeNibble returns the next 4-bit value and the updated parity state.
func decodeNibble(src *BytesReader, acc nibbles) (uint8, nibbles, error) {
	if acc.high {
		return acc.b >> 4, nibbles{}, nil
	}
	b, err := src.ReadByte()
	if err != nil {
		return 0, nibbles{}, fmt.Errorf("%w: N1 needs 1 byte, 0 left", ErrBodyOverrun)
	}
	return b & 0x0F, nibbles{b: b, high: true}, nil
}

// nibbleSlot is the encode-side mirror of nibbles: after a low nibble it holds
// the index of the byte the next N1 is OR'ed into.
type nibbleSlot struct {
	at   int
	high bool
}

// appendNibble writes v as the low nibble of a new byte, or into the high half
// of the byte written by the previous call.
func appendNibble(dst []byte, v any, acc nibbleSlot) ([]byte, nibbleSlot, error) {
	u, err := toUint(v)
	if err != nil {
		return dst, acc, err
	}
	if u > 0x0F {
		return dst, acc, fmt.Errorf("%w: nibble %d exceeds 0xF", ErrValueRange, u)
	}
	if acc.high {
		dst[acc.at] |= byte(u) << 4
		return dst, nibbleSlot{}, nil
	}
	dst = append(dst, byte(u))
	return dst, nibbleSlot{at: len(dst) - 1, high: true}, nil
}
