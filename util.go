package stdf

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

// ByteOrder combines binary.ByteOrder and binary.AppendByteOrder, so the codec
// can both read in place and append while encoding.
// binary.LittleEndian and binary.BigEndian satisfy it.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var (
	BE ByteOrder = binary.BigEndian
	LE ByteOrder = binary.LittleEndian
)

// DefaultOrder returns the byte order a session starts in, before any FAR is
// seen. WithByteOrder overrides it per session.
func DefaultOrder() ByteOrder { return binary.LittleEndian }

const (
	// HeaderSize is the size of every record header: u16 length, u8 type, u8 subtype.
	HeaderSize = 4
	// MaxBodyLen is the largest body a 16-bit header length can declare.
	MaxBodyLen = 1<<16 - 1

	// UnknownName is given to records whose (type, subtype) is absent from the schema.
	UnknownName = "UNK"
)

// FAR (File Attributes Record) declares the byte order of every record after it.
const (
	farTyp       = 0
	farSub       = 10
	cpuTypeField = "CPU_TYPE"
)

// CPU_TYPE values of the FAR record.
const (
	CPUSun = 1 // big-endian
	CPUx86 = 2 // little-endian
)

// byteOrderFor maps a FAR CPU_TYPE to the byte order it declares.
func byteOrderFor(cpu uint64) (ByteOrder, bool) {
	switch cpu {
	case CPUSun:
		return BE, true
	case CPUx86:
		return LE, true
	}
	return nil, false
}

// OrderName returns "big" or "little".
func OrderName(o ByteOrder) string {
	if o == BE {
		return "big"
	}
	return "little"
}

// CeilDiv rounds n/d up to the nearest integer.
func CeilDiv[T constraints.Integer](n, d T) T { return (n + d - 1) / d }
