package stdf

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("stdf: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrNilSchema indicates that a Reader, Writer or Codec was built without a schema.
	ErrNilSchema = errors.New("stdf: nil schema")

	// ErrClosed indicates a Reader used after Close.
	ErrClosed = errors.New("stdf: reader closed")

	// ErrTruncatedHeader indicates that the stream ended inside a 4-byte record header.
	ErrTruncatedHeader = errors.New("stdf: truncated record header")

	// ErrTruncatedBody indicates that the stream ended before the declared record length.
	ErrTruncatedBody = errors.New("stdf: truncated record body")

	// ErrBodyOverrun indicates that a field needs more bytes than the record body holds.
	ErrBodyOverrun = errors.New("stdf: field overruns record body")

	// ErrUnsupportedType indicates a type tag outside the known vocabulary, or a tag
	// handed to the wrong codec (e.g. Cn to the primitive codec).
	ErrUnsupportedType = errors.New("stdf: unsupported type")

	// ErrUnknownMultiplier indicates a K array field with no entry in the multiplier table.
	ErrUnknownMultiplier = errors.New("stdf: unknown multiplier field")

	// ErrMissingDriverField indicates that the count field of a K array was not decoded
	// (or supplied) before the array itself.
	ErrMissingDriverField = errors.New("stdf: missing array driver field")

	// ErrInvalidByteOrder indicates a FAR record whose CPU_TYPE selects no known byte order.
	ErrInvalidByteOrder = errors.New("stdf: invalid byte order declaration")

	// ErrLengthOverflow indicates a value too long for its length prefix, or a record
	// body larger than the 16-bit header length.
	ErrLengthOverflow = errors.New("stdf: length overflow")

	// ErrUnknownRecord indicates an encode request for a record name the schema lacks.
	ErrUnknownRecord = errors.New("stdf: unknown record name")

	// ErrTypeMismatch indicates a Go value that cannot be encoded as the field's type.
	ErrTypeMismatch = errors.New("stdf: type mismatch")

	// ErrValueRange indicates a numeric value that does not fit the field's width.
	ErrValueRange = errors.New("stdf: value out of range")

	// ErrArrayLength indicates a K array whose length differs from its driver field.
	ErrArrayLength = errors.New("stdf: array length does not match driver field")

	// ErrMissingField indicates a field supplied after an omitted one. Only trailing
	// fields may be omitted.
	ErrMissingField = errors.New("stdf: field present after an omitted field")

	// ErrBitCount indicates a Dn value whose data length disagrees with its bit count.
	ErrBitCount = errors.New("stdf: bit count does not match data length")

	// ErrInvalidSchema indicates a malformed or inconsistent schema table.
	ErrInvalidSchema = errors.New("stdf: invalid schema")
)
