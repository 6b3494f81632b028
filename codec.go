package stdf

import (
	"bytes"
	"fmt"
)

// Codec decodes and encodes single records against a schema. It owns the byte
// order of one session: a FAR record switches the order for every record after
// it, on both the decode and the encode path.
//
// A Codec is not safe for concurrent use. Sessions over different files use
// separate Codecs and may share one schema.
type Codec struct {
	schema Schema
	order  ByteOrder
}

// NewCodec returns a Codec starting in the default byte order.
func NewCodec(schema Schema) (*Codec, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	return &Codec{schema: schema, order: DefaultOrder()}, nil
}

// WithByteOrder sets the current byte order and returns the Codec for chaining.
func (c *Codec) WithByteOrder(order ByteOrder) *Codec {
	c.order = order
	return c
}

// Order returns the current byte order.
func (c *Codec) Order() ByteOrder { return c.order }

// Schema returns the schema the Codec was built with.
func (c *Codec) Schema() Schema { return c.schema }

// DecodeHeader decodes a header under the current byte order.
func (c *Codec) DecodeHeader(b []byte) (Header, error) {
	return DecodeHeader(b, c.order)
}

// Decode decodes one record body. body must hold exactly h.Len bytes.
func (c *Codec) Decode(h Header, body []byte) (*Record, error) {
	rec, _, err := c.decode(h, body)
	return rec, err
}

// decode also returns the number of body bytes the fields consumed.
func (c *Codec) decode(h Header, body []byte) (*Record, int, error) {
	if len(body) != int(h.Len) {
		return nil, 0, fmt.Errorf("%w: declared %d bytes, got %d", ErrTruncatedBody, h.Len, len(body))
	}

	rec := &Record{Header: h}
	name, ok := c.schema.LookupByType(h.Typ, h.Sub)
	if !ok {
		rec.Name = UnknownName
		rec.Fields = NewFields(0)
		rec.Raw = bytes.Clone(body)
		return rec, len(body), nil
	}
	entry, ok := c.schema.LookupByName(name)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s registered for %s", ErrUnknownRecord, name, h)
	}

	fields, n, err := c.decodeFields(entry, body)
	if err != nil {
		return nil, n, fmt.Errorf("%s: %w", name, err)
	}
	rec.Name = name
	rec.Fields = fields
	if err := c.observe(h.Typ, h.Sub, fields); err != nil {
		return nil, n, err
	}
	return rec, n, nil
}

func (c *Codec) decodeFields(e *Entry, body []byte) (*Fields, int, error) {
	src := NewBytesReader(body)
	out := NewFields(len(e.Fields))
	var acc nibbles

	for _, f := range e.Fields {
		// The high half of a nibble pair was read with the low half, so it is
		// decoded even when the body is used up.
		pending := f.Type.Kind == N1 && !f.Type.Array && acc.high
		if !pending && src.Available() == 0 {
			break
		}

		var (
			v   any
			err error
		)
		switch {
		case f.Type.Array:
			v, err = c.decodeArray(src, f, out)
			acc = nibbles{}
		case f.Type.Kind == N1:
			var u uint8
			u, acc, err = decodeNibble(src, acc)
			v = u
		case f.Type.Kind == Vn:
			v, err = c.decodeGen(src)
			acc = nibbles{}
		default:
			v, err = c.decodeValue(src, f.Type.Kind)
			acc = nibbles{}
		}
		if err != nil {
			return nil, src.Len(), fmt.Errorf("field %s: %w", f.Name, err)
		}
		out.Set(f.Name, v)
	}
	return out, src.Len(), nil
}

// decodeValue decodes one primitive or length-prefixed value.
func (c *Codec) decodeValue(src *BytesReader, k Kind) (any, error) {
	var (
		v   any
		n   int
		err error
	)
	switch {
	case k.IsPrimitive():
		v, n, err = DecodePrimitive(k, src.Rest(), c.order)
	case k.IsVarLen():
		v, n, err = DecodeVarLen(k, src.Rest(), c.order)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedType, k)
	}
	if err != nil {
		return nil, err
	}
	src.Skip(n)
	return v, nil
}

func decodeSlice[T any](n int, next func() (any, error)) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := next()
		if err != nil {
			return nil, fmt.Errorf("element %d of %d: %w", i, n, err)
		}
		out[i] = v.(T)
	}
	return out, nil
}

// decodeArray decodes a K array into a typed slice whose length comes from the
// driver field already present in decoded.
func (c *Codec) decodeArray(src *BytesReader, f Field, decoded *Fields) (any, error) {
	n, err := ResolveCount(f.Name, decoded)
	if err != nil {
		return nil, err
	}

	k := f.Type.Kind
	if k == N1 {
		var acc nibbles
		return decodeSlice[uint8](n, func() (any, error) {
			var u uint8
			var err error
			u, acc, err = decodeNibble(src, acc)
			return u, err
		})
	}

	if size := k.Size(); size > 0 && n*size > src.Available() {
		return nil, fmt.Errorf("%w: %d x %s needs %d bytes, %d left", ErrBodyOverrun, n, k, n*size, src.Available())
	}
	next := func() (any, error) { return c.decodeValue(src, k) }
	switch k {
	case U1, B1:
		return decodeSlice[uint8](n, next)
	case U2:
		return decodeSlice[uint16](n, next)
	case U4:
		return decodeSlice[uint32](n, next)
	case U8:
		return decodeSlice[uint64](n, next)
	case I1:
		return decodeSlice[int8](n, next)
	case I2:
		return decodeSlice[int16](n, next)
	case I4:
		return decodeSlice[int32](n, next)
	case I8:
		return decodeSlice[int64](n, next)
	case R4:
		return decodeSlice[float32](n, next)
	case R8:
		return decodeSlice[float64](n, next)
	case C1, Cn, Sn:
		return decodeSlice[string](n, next)
	case Bn:
		return decodeSlice[[]byte](n, next)
	case Dn:
		return decodeSlice[Bits](n, next)
	}
	return nil, fmt.Errorf("%w: array of %s", ErrUnsupportedType, k)
}

// decodeGen decodes a Vn field: a 2-byte count, then per element a type byte
// and the element's value. B0 pad bytes before an element's type byte are
// skipped and not counted.
func (c *Codec) decodeGen(src *BytesReader) ([]GenValue, error) {
	b := src.Next(2)
	if len(b) < 2 {
		return nil, fmt.Errorf("%w: Vn count needs 2 bytes, %d left", ErrBodyOverrun, len(b))
	}
	n := int(c.order.Uint16(b))

	// every element takes at least its type byte
	out := make([]GenValue, 0, min(n, src.Available()))
	for i := range n {
		var (
			code byte
			err  error
		)
		for code == 0 {
			if code, err = src.ReadByte(); err != nil {
				return nil, fmt.Errorf("%w: Vn element %d of %d has no type byte", ErrBodyOverrun, i, n)
			}
		}
		if int(code) >= len(vnTypes) {
			return nil, fmt.Errorf("%w: Vn type code %d", ErrUnsupportedType, code)
		}

		g := GenValue{Kind: vnTypes[code]}
		if g.Kind == N1 {
			// the element owns the whole byte; the nibble is its low half
			if g.Value, err = src.ReadByte(); err != nil {
				return nil, fmt.Errorf("%w: Vn element %d: N1 needs 1 byte, 0 left", ErrBodyOverrun, i)
			}
		} else if g.Value, err = c.decodeValue(src, g.Kind); err != nil {
			return nil, fmt.Errorf("Vn element %d: %w", i, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// AppendRecord appends the encoded record (header and body) to dst. Fields are
// encoded in schema order and encoding stops at the first field fields lacks;
// a field supplied after an omitted one fails with ErrMissingField. On error
// dst is returned unchanged.
func (c *Codec) AppendRecord(dst []byte, name string, fields FieldGetter) ([]byte, error) {
	entry, ok := c.schema.LookupByName(name)
	if !ok {
		return dst, fmt.Errorf("%w: %s", ErrUnknownRecord, name)
	}

	start := len(dst)
	out, seen, err := c.appendFields(append(dst, 0, 0, entry.Typ, entry.Sub), entry, fields)
	if err != nil {
		return dst[:start], fmt.Errorf("%s: %w", name, err)
	}
	size := len(out) - start - HeaderSize
	if size > MaxBodyLen {
		return dst[:start], fmt.Errorf("%w: %s body is %d bytes", ErrLengthOverflow, name, size)
	}
	c.order.PutUint16(out[start:], uint16(size))

	if err := c.observe(entry.Typ, entry.Sub, seen); err != nil {
		return dst[:start], err
	}
	return out, nil
}

func (c *Codec) appendFields(dst []byte, e *Entry, fields FieldGetter) ([]byte, *Fields, error) {
	seen := NewFields(len(e.Fields))
	var (
		acc     nibbleSlot
		omitted string
		err     error
	)
	for _, f := range e.Fields {
		v, ok := fields.Get(f.Name)
		if !ok {
			if omitted == "" {
				omitted = f.Name
			}
			continue
		}
		if omitted != "" {
			return dst, nil, fmt.Errorf("%w: %s is set but %s is not", ErrMissingField, f.Name, omitted)
		}

		switch {
		case f.Type.Array:
			dst, err = c.appendArray(dst, f, v, seen)
			acc = nibbleSlot{}
		case f.Type.Kind == N1:
			dst, acc, err = appendNibble(dst, v, acc)
		case f.Type.Kind == Vn:
			dst, err = c.appendGen(dst, v)
			acc = nibbleSlot{}
		default:
			dst, err = c.appendValue(dst, f.Type.Kind, v)
			acc = nibbleSlot{}
		}
		if err != nil {
			return dst, nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		seen.Set(f.Name, v)
	}
	return dst, seen, nil
}

func (c *Codec) appendValue(dst []byte, k Kind, v any) ([]byte, error) {
	switch {
	case k.IsPrimitive():
		return AppendPrimitive(dst, k, v, c.order)
	case k.IsVarLen():
		return AppendVarLen(dst, k, v, c.order)
	}
	return dst, fmt.Errorf("%w: %s", ErrUnsupportedType, k)
}

// appendArray encodes a K array. Its length must equal the driver field,
// which has to be encoded first.
func (c *Codec) appendArray(dst []byte, f Field, v any, seen *Fields) ([]byte, error) {
	n, err := ResolveCount(f.Name, seen)
	if err != nil {
		return dst, err
	}
	items, err := elems(v)
	if err != nil {
		return dst, err
	}
	if len(items) != n {
		return dst, fmt.Errorf("%w: %d elements, driver says %d", ErrArrayLength, len(items), n)
	}

	var acc nibbleSlot
	for i, item := range items {
		if f.Type.Kind == N1 {
			dst, acc, err = appendNibble(dst, item, acc)
		} else {
			dst, err = c.appendValue(dst, f.Type.Kind, item)
		}
		if err != nil {
			return dst, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return dst, nil
}

func (c *Codec) appendGen(dst []byte, v any) ([]byte, error) {
	gen, ok := v.([]GenValue)
	if !ok {
		return dst, fmt.Errorf("%w: Vn needs []GenValue, got %T", ErrTypeMismatch, v)
	}
	count := 0
	for _, g := range gen {
		if g.Kind != B0 {
			count++
		}
	}
	if count > 0xFFFF {
		return dst, fmt.Errorf("%w: Vn holds at most 65535 elements, got %d", ErrLengthOverflow, count)
	}

	var err error
	dst = c.order.AppendUint16(dst, uint16(count))
	for i, g := range gen {
		code, ok := vnCode(g.Kind)
		if !ok {
			return dst, fmt.Errorf("%w: %s in Vn element %d", ErrUnsupportedType, g.Kind, i)
		}
		dst = append(dst, code)
		switch g.Kind {
		case B0:
			// pad byte, not counted
		case N1:
			var u uint64
			if u, err = toUint(g.Value); err == nil && u > 0xFF {
				err = fmt.Errorf("%w: N1 value %d exceeds one byte", ErrValueRange, u)
			}
			dst = append(dst, byte(u))
		default:
			dst, err = c.appendValue(dst, g.Kind, g.Value)
		}
		if err != nil {
			return dst, fmt.Errorf("Vn element %d: %w", i, err)
		}
	}
	return dst, nil
}

// observe applies the byte order declared by a FAR record. It takes effect
// for the next record.
func (c *Codec) observe(typ, sub uint8, fields FieldGetter) error {
	if typ != farTyp || sub != farSub {
		return nil
	}
	v, ok := fields.Get(cpuTypeField)
	if !ok {
		return fmt.Errorf("%w: FAR has no %s", ErrInvalidByteOrder, cpuTypeField)
	}
	cpu, err := toUint(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidByteOrder, cpuTypeField, err)
	}
	order, ok := byteOrderFor(cpu)
	if !ok {
		return fmt.Errorf("%w: %s=%d", ErrInvalidByteOrder, cpuTypeField, cpu)
	}
	c.order = order
	return nil
}

// Encode encodes one record in the default byte order.
func Encode(schema Schema, name string, fields FieldGetter) ([]byte, error) {
	c, err := NewCodec(schema)
	if err != nil {
		return nil, err
	}
	b, err := c.AppendRecord(nil, name, fields)
	if err != nil {
		return nil, err
	}
	return b, nil
}
