package stdf

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

func unsigned[T constraints.Integer](v T) (uint64, bool) {
	if v < 0 {
		return 0, false
	}
	return uint64(v), true
}

func signed[T constraints.Signed](v T) int64 { return int64(v) }

func signedFromUnsigned[T constraints.Unsigned](v T) (int64, bool) {
	if uint64(v) > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// toUint converts any Go integer to uint64, rejecting negative values.
func toUint(v any) (uint64, error) {
	var (
		u  uint64
		ok = true
	)
	switch x := v.(type) {
	case uint8:
		u = uint64(x)
	case uint16:
		u = uint64(x)
	case uint32:
		u = uint64(x)
	case uint64:
		u = x
	case uint:
		u = uint64(x)
	case int8:
		u, ok = unsigned(x)
	case int16:
		u, ok = unsigned(x)
	case int32:
		u, ok = unsigned(x)
	case int64:
		u, ok = unsigned(x)
	case int:
		u, ok = unsigned(x)
	default:
		return 0, fmt.Errorf("%w: %T is not an unsigned integer", ErrTypeMismatch, v)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %v is negative", ErrValueRange, v)
	}
	return u, nil
}

// toInt converts any Go integer to int64.
func toInt(v any) (int64, error) {
	var (
		i  int64
		ok = true
	)
	switch x := v.(type) {
	case int8:
		i = signed(x)
	case int16:
		i = signed(x)
	case int32:
		i = signed(x)
	case int64:
		i = x
	case int:
		i = signed(x)
	case uint8:
		i, ok = signedFromUnsigned(x)
	case uint16:
		i, ok = signedFromUnsigned(x)
	case uint32:
		i, ok = signedFromUnsigned(x)
	case uint64:
		i, ok = signedFromUnsigned(x)
	case uint:
		i, ok = signedFromUnsigned(x)
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", ErrTypeMismatch, v)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %v overflows int64", ErrValueRange, v)
	}
	return i, nil
}

func uintFits(u uint64, size int) bool {
	return size >= 8 || u < 1<<(8*size)
}

func intFits(i int64, size int) bool {
	if size >= 8 {
		return true
	}
	limit := int64(1) << (8*size - 1)
	return i >= -limit && i < limit
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	}
	if i, err := toInt(v); err == nil {
		return float64(i), nil
	}
	if u, err := toUint(v); err == nil {
		return float64(u), nil
	}
	return 0, fmt.Errorf("%w: %T is not a number", ErrTypeMismatch, v)
}

func toBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	}
	return nil, fmt.Errorf("%w: %T is not a byte string", ErrTypeMismatch, v)
}

// toString returns the bytes of a string-like value without copying strings.
func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case byte:
		return string([]byte{x}), nil
	}
	return "", fmt.Errorf("%w: %T is not a string", ErrTypeMismatch, v)
}

func anySlice[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// elems flattens the slice types a K array may be supplied as.
func elems(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case []uint8:
		return anySlice(x), nil
	case []uint16:
		return anySlice(x), nil
	case []uint32:
		return anySlice(x), nil
	case []uint64:
		return anySlice(x), nil
	case []uint:
		return anySlice(x), nil
	case []int8:
		return anySlice(x), nil
	case []int16:
		return anySlice(x), nil
	case []int32:
		return anySlice(x), nil
	case []int64:
		return anySlice(x), nil
	case []int:
		return anySlice(x), nil
	case []float32:
		return anySlice(x), nil
	case []float64:
		return anySlice(x), nil
	case []string:
		return anySlice(x), nil
	case [][]byte:
		return anySlice(x), nil
	case []Bits:
		return anySlice(x), nil
	}
	return nil, fmt.Errorf("%w: %T is not an array", ErrTypeMismatch, v)
}
