package stdf

import (
	"bytes"
	"fmt"
)

// DecodeVarLen decodes one length-prefixed value (Cn, Sn, Bn or Dn) from the
// front of b and returns it with the number of bytes consumed, prefix included.
// Cn and Sn decode to string, Bn to []byte and Dn to Bits. The returned value
// never aliases b.
func DecodeVarLen(k Kind, b []byte, order ByteOrder) (any, int, error) {
	var (
		prefix int
		n      int
	)
	switch k {
	case Cn, Bn:
		prefix = 1
		if len(b) >= prefix {
			n = int(b[0])
		}
	case Sn, Dn:
		prefix = 2
		if len(b) >= prefix {
			n = int(order.Uint16(b))
		}
	default:
		return nil, 0, fmt.Errorf("%w: %s is not length-prefixed", ErrUnsupportedType, k)
	}
	if len(b) < prefix {
		return nil, 0, fmt.Errorf("%w: %s length prefix needs %d bytes, %d left", ErrBodyOverrun, k, prefix, len(b))
	}

	bits := n
	if k == Dn {
		n = CeilDiv(bits, 8)
	}
	if len(b)-prefix < n {
		return nil, 0, fmt.Errorf("%w: %s declares %d bytes, %d left", ErrBodyOverrun, k, n, len(b)-prefix)
	}

	data := b[prefix : prefix+n]
	var v any
	switch k {
	case Cn, Sn:
		v = string(data)
	case Bn:
		v = bytes.Clone(data)
	case Dn:
		out := make([]byte, n)
		copy(out, data)
		v = Bits{Count: uint16(bits), Data: out}
	}
	return v, prefix + n, nil
}

// AppendVarLen appends v as a length-prefixed value of kind k. Values longer
// than the prefix can express fail with ErrLengthOverflow. Dn requires a Bits
// value whose Data holds exactly ceil(Count/8) bytes.
func AppendVarLen(dst []byte, k Kind, v any, order ByteOrder) ([]byte, error) {
	switch k {
	case Cn:
		s, err := toString(v)
		if err != nil {
			return dst, err
		}
		if len(s) > 0xFF {
			return dst, fmt.Errorf("%w: Cn holds at most 255 bytes, got %d", ErrLengthOverflow, len(s))
		}
		dst = append(dst, byte(len(s)))
		return append(dst, s...), nil

	case Sn:
		s, err := toString(v)
		if err != nil {
			return dst, err
		}
		if len(s) > 0xFFFF {
			return dst, fmt.Errorf("%w: Sn holds at most 65535 bytes, got %d", ErrLengthOverflow, len(s))
		}
		dst = order.AppendUint16(dst, uint16(len(s)))
		return append(dst, s...), nil

	case Bn:
		b, err := toBytes(v)
		if err != nil {
			return dst, err
		}
		if len(b) > 0xFF {
			return dst, fmt.Errorf("%w: Bn holds at most 255 bytes, got %d", ErrLengthOverflow, len(b))
		}
		dst = append(dst, byte(len(b)))
		return append(dst, b...), nil

	case Dn:
		bits, ok := v.(Bits)
		if !ok {
			return dst, fmt.Errorf("%w: Dn needs a Bits value with an explicit bit count, got %T", ErrTypeMismatch, v)
		}
		if want := CeilDiv(int(bits.Count), 8); len(bits.Data) != want {
			return dst, fmt.Errorf("%w: %d bits need %d bytes, got %d", ErrBitCount, bits.Count, want, len(bits.Data))
		}
		dst = order.AppendUint16(dst, bits.Count)
		return append(dst, bits.Data...), nil
	}
	return dst, fmt.Errorf("%w: %s is not length-prefixed", ErrUnsupportedType, k)
}
