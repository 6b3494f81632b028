package stdf

import "fmt"

// Header is the 4-byte prefix of every record.
type Header struct {
	Len uint16 // body length in bytes
	Typ uint8  // record type
	Sub uint8  // record subtype
}

// DecodeHeader decodes a header from the front of b.
func DecodeHeader(b []byte, order ByteOrder) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d of %d bytes", ErrTruncatedHeader, len(b), HeaderSize)
	}
	return Header{Len: order.Uint16(b), Typ: b[2], Sub: b[3]}, nil
}

// AppendTo appends the encoded header to dst.
func (h Header) AppendTo(dst []byte, order ByteOrder) []byte {
	dst = order.AppendUint16(dst, h.Len)
	return append(dst, h.Typ, h.Sub)
}

func (h Header) String() string {
	return fmt.Sprintf("(%d, %d) len=%d", h.Typ, h.Sub, h.Len)
}

// Record is one decoded record. It never aliases the buffer it was decoded
// from.
type Record struct {
	Name string
	Header
	// Fields holds the decoded body in schema order. Trailing fields the
	// producer omitted are absent. Unknown records have no fields.
	Fields *Fields
	// Raw is a copy of the body of an unknown record, so it can be written
	// back unchanged. It is nil for known records.
	Raw []byte
	// Offset is the position of the header in the stream.
	Offset int64
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (any, bool) { return r.Fields.Get(name) }

// Unknown reports whether the record's type pair is absent from the schema.
func (r *Record) Unknown() bool { return r.Name == UnknownName }

func (r *Record) String() string {
	return fmt.Sprintf("%s %s @%d", r.Name, r.Header, r.Offset)
}
