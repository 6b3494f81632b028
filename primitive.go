package stdf

import (
	"fmt"
	"math"
)

// DecodePrimitive decodes one fixed-width value of kind k from the front of b
// and returns it with the number of bytes consumed. Kinds outside the primitive
// set fail with ErrUnsupportedType.
func DecodePrimitive(k Kind, b []byte, order ByteOrder) (any, int, error) {
	size := k.Size()
	if size == 0 {
		return nil, 0, fmt.Errorf("%w: %s is not a primitive", ErrUnsupportedType, k)
	}
	if len(b) < size {
		return nil, 0, fmt.Errorf("%w: %s needs %d bytes, %d left", ErrBodyOverrun, k, size, len(b))
	}

	var v any
	switch k {
	case U1, B1:
		v = b[0]
	case U2:
		v = order.Uint16(b)
	case U4:
		v = order.Uint32(b)
	case U8:
		v = order.Uint64(b)
	case I1:
		v = int8(b[0])
	case I2:
		v = int16(order.Uint16(b))
	case I4:
		v = int32(order.Uint32(b))
	case I8:
		v = int64(order.Uint64(b))
	case R4:
		v = math.Float32frombits(order.Uint32(b))
	case R8:
		v = math.Float64frombits(order.Uint64(b))
	case C1:
		v = string(b[:1])
	}
	return v, size, nil
}

// AppendPrimitive appends the encoding of v as kind k to dst. Integer kinds take
// any Go integer that fits the width; R4/R8 take any number.
func AppendPrimitive(dst []byte, k Kind, v any, order ByteOrder) ([]byte, error) {
	size := k.Size()
	if size == 0 {
		return dst, fmt.Errorf("%w: %s is not a primitive", ErrUnsupportedType, k)
	}

	switch k {
	case U1, U2, U4, U8, B1:
		u, err := toUint(v)
		if err != nil {
			return dst, err
		}
		if !uintFits(u, size) {
			return dst, fmt.Errorf("%w: %d does not fit %s", ErrValueRange, u, k)
		}
		return appendUint(dst, u, size, order), nil

	case I1, I2, I4, I8:
		i, err := toInt(v)
		if err != nil {
			return dst, err
		}
		if !intFits(i, size) {
			return dst, fmt.Errorf("%w: %d does not fit %s", ErrValueRange, i, k)
		}
		return appendUint(dst, uint64(i), size, order), nil

	case R4:
		f, err := toFloat(v)
		if err != nil {
			return dst, err
		}
		return order.AppendUint32(dst, math.Float32bits(float32(f))), nil

	case R8:
		f, err := toFloat(v)
		if err != nil {
			return dst, err
		}
		return order.AppendUint64(dst, math.Float64bits(f)), nil

	case C1:
		s, err := toString(v)
		if err != nil {
			return dst, err
		}
		if len(s) != 1 {
			return dst, fmt.Errorf("%w: C1 needs exactly one byte, got %d", ErrValueRange, len(s))
		}
		return append(dst, s[0]), nil
	}
	return dst, fmt.Errorf("%w: %s", ErrUnsupportedType, k)
}

func appendUint(dst []byte, u uint64, size int, order ByteOrder) []byte {
	switch size {
	case 1:
		return append(dst, byte(u))
	case 2:
		return order.AppendUint16(dst, uint16(u))
	case 4:
		return order.AppendUint32(dst, uint32(u))
	default:
		return order.AppendUint64(dst, u)
	}
}
