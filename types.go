package stdf

import (
	"fmt"
	"strings"
)

// Kind is the closed set of STDF data type tags a schema field can carry.
type Kind uint8

const (
	KindInvalid Kind = iota
	U1               // 1-byte unsigned integer
	U2               // 2-byte unsigned integer
	U4               // 4-byte unsigned integer
	U8               // 8-byte unsigned integer
	I1               // 1-byte signed integer
	I2               // 2-byte signed integer
	I4               // 4-byte signed integer
	I8               // 8-byte signed integer
	R4               // 4-byte IEEE float
	R8               // 8-byte IEEE float
	B1               // one raw byte
	C1               // one character
	N1               // 4-bit nibble, two share a byte
	Cn               // 1-byte length + characters
	Sn               // 2-byte length + characters
	Bn               // 1-byte length + bytes
	Dn               // 2-byte bit count + ceil(bits/8) bytes
	Vn               // 2-byte count + self-describing elements
	B0               // zero-width pad, only valid inside Vn
	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid: "invalid",
	U1:          "U1",
	U2:          "U2",
	U4:          "U4",
	U8:          "U8",
	I1:          "I1",
	I2:          "I2",
	I4:          "I4",
	I8:          "I8",
	R4:          "R4",
	R8:          "R8",
	B1:          "B1",
	C1:          "C1",
	N1:          "N1",
	Cn:          "Cn",
	Sn:          "Sn",
	Bn:          "Bn",
	Dn:          "Dn",
	Vn:          "Vn",
	B0:          "B0",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Size returns the width in bytes of fixed-width primitive kinds and 0 for every
// other kind.
func (k Kind) Size() int {
	switch k {
	case U1, I1, B1, C1:
		return 1
	case U2, I2:
		return 2
	case U4, I4, R4:
		return 4
	case U8, I8, R8:
		return 8
	}
	return 0
}

// IsPrimitive reports whether k is handled by the primitive codec.
func (k Kind) IsPrimitive() bool { return k.Size() > 0 }

// IsVarLen reports whether k is one of the length-prefixed kinds.
func (k Kind) IsVarLen() bool {
	switch k {
	case Cn, Sn, Bn, Dn:
		return true
	}
	return false
}

// Type is the resolved form of a schema type tag. Array marks the K×<Kind>
// family, whose element count comes from another field of the same record.
type Type struct {
	Kind  Kind
	Array bool
}

func (t Type) String() string {
	if t.Array {
		return "Kx" + t.Kind.String()
	}
	return t.Kind.String()
}

var kindByName = map[string]Kind{
	"U1": U1, "U2": U2, "U4": U4, "U8": U8,
	"I1": I1, "I2": I2, "I4": I4, "I8": I8,
	"R4": R4, "R8": R8, "B1": B1, "C1": C1,
	"N1": N1, "Cn": Cn, "Sn": Sn, "Bn": Bn, "Dn": Dn, "Vn": Vn,
}

// ParseType resolves a schema type tag. Array tags are written K<c><sub>, where
// <c> is one of 0, x or n and <sub> is any non-array tag except Vn.
func ParseType(tag string) (Type, error) {
	if k, ok := kindByName[tag]; ok {
		return Type{Kind: k}, nil
	}
	if len(tag) == 4 && tag[0] == 'K' && strings.IndexByte("0xn", tag[1]) >= 0 {
		k, ok := kindByName[tag[2:]]
		if ok && k != Vn {
			return Type{Kind: k, Array: true}, nil
		}
	}
	return Type{}, fmt.Errorf("%w: tag %q", ErrUnsupportedType, tag)
}

// MustParseType is like ParseType but panics on an unknown tag.
func MustParseType(tag string) Type {
	t, err := ParseType(tag)
	if err != nil {
		panic(err)
	}
	return t
}

// vnTypes is the fixed Vn element vocabulary, indexed by the element's type byte.
var vnTypes = [...]Kind{B0, U1, U2, U4, I1, I2, I4, R4, R8, Cn, Bn, Dn, N1}

func vnCode(k Kind) (byte, bool) {
	for i, v := range vnTypes {
		if v == k {
			return byte(i), true
		}
	}
	return 0, false
}

// Bits is the value of a Dn field. Count is the declared bit count; Data holds
// ceil(Count/8) bytes. The bit count is not recoverable from Data alone, so
// encoders require it explicitly.
type Bits struct {
	Count uint16
	Data  []byte
}

// MaxBitsLen is the largest data length NewBits accepts: every bit of it must
// fit the 16-bit count.
const MaxBitsLen = 0xFFFF / 8

// NewBits returns a Bits covering every bit of data. Data longer than
// MaxBitsLen fails with ErrLengthOverflow.
func NewBits(data []byte) (Bits, error) {
	if len(data) > MaxBitsLen {
		return Bits{}, fmt.Errorf("%w: %d bytes is more bits than a Dn count holds", ErrLengthOverflow, len(data))
	}
	return Bits{Count: uint16(len(data) * 8), Data: data}, nil
}

// GenValue is one element of a Vn field: its type from the Vn vocabulary and
// its value. B0 elements carry a nil Value.
type GenValue struct {
	Kind  Kind
	Value any
}
