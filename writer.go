package stdf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Writer encodes records onto a stream. Like the Reader it tracks the first
// I/O error, after which every write returns it. A record that fails to encode
// is rejected without touching the stream and does not poison the Writer.
//
// Writing a FAR switches the byte order of the records that follow, so files
// produced by a Writer decode back with a Reader.
type Writer struct {
	w      io.Writer
	bw     *bufio.Writer // nil when w needs no buffering
	closer io.Closer
	codec  *Codec
	count  int64 // bytes written
	recs   int   // records written
	err    error // first I/O error
}

// NewWriter creates a Writer over w. Unbuffered sinks are wrapped in a
// bufio.Writer of BufferSize.
func NewWriter(w io.Writer, schema Schema) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}
	codec, err := NewCodec(schema)
	if err != nil {
		return nil, err
	}

	wr := &Writer{w: w, codec: codec}
	if c, ok := w.(io.Closer); ok {
		wr.closer = c
	}
	switch bw := w.(type) {
	case *bufio.Writer:
		wr.bw = bw
	case *bytes.Buffer:
	default:
		wr.bw = bufio.NewWriterSize(w, BufferSize)
		wr.w = wr.bw
	}
	return wr, nil
}

// WithByteOrder sets the byte order the session starts in and returns the
// Writer for chaining.
func (w *Writer) WithByteOrder(order ByteOrder) *Writer {
	w.codec.WithByteOrder(order)
	return w
}

// WriteRecord encodes and writes one record.
func (w *Writer) WriteRecord(name string, fields FieldGetter) error {
	if w.err != nil {
		return w.err
	}
	bp := getBuf()
	defer putBuf(bp)

	b, err := w.codec.AppendRecord(*bp, name, fields)
	*bp = b
	if err != nil {
		return err
	}
	return w.write(b)
}

// Put writes a decoded record. Unknown records are written back from their
// raw body.
func (w *Writer) Put(rec *Record) error {
	if w.err != nil {
		return w.err
	}
	if !rec.Unknown() {
		return w.WriteRecord(rec.Name, rec.Fields)
	}
	if len(rec.Raw) > MaxBodyLen {
		return fmt.Errorf("%w: raw body is %d bytes", ErrLengthOverflow, len(rec.Raw))
	}

	bp := getBuf()
	defer putBuf(bp)
	h := Header{Len: uint16(len(rec.Raw)), Typ: rec.Typ, Sub: rec.Sub}
	*bp = append(h.AppendTo(*bp, w.codec.Order()), rec.Raw...)
	return w.write(*bp)
}

func (w *Writer) write(b []byte) error {
	n, err := w.w.Write(b)
	w.count += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	w.setError(err)
	if err == nil {
		w.recs++
	}
	return w.err
}

// setError records the first non-nil error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil || w.bw == nil {
		return w.err
	}
	w.setError(w.bw.Flush())
	return w.err
}

// Result flushes the buffer and returns the bytes written and the final error
// state.
func (w *Writer) Result() (int64, error) {
	_ = w.Flush()
	return w.count, w.err
}

// Close flushes and closes the underlying writer if it implements io.Closer.
func (w *Writer) Close() error {
	err := w.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
		w.closer = nil
	}
	return err
}

func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Records() int { return w.recs }
func (w *Writer) Err() error   { return w.err }

// Order returns the byte order the next record will be written in.
func (w *Writer) Order() ByteOrder { return w.codec.Order() }

// Copy re-encodes every remaining record of r onto w and returns the number of
// records copied. The Writer starts in the Reader's byte order.
func Copy(w *Writer, r *Reader) (int, error) {
	if r.count == 0 {
		w.WithByteOrder(r.Order())
	}
	n := 0
	for rec, err := range r.All() {
		if err != nil {
			return n, err
		}
		if err := w.Put(rec); err != nil {
			return n, fmt.Errorf("%s at offset %d: %w", rec.Name, rec.Offset, err)
		}
		n++
	}
	return n, nil
}
