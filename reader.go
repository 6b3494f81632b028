package stdf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/oy3o/stdf/compress"
	"github.com/oy3o/stdf/internal/mmap"
)

// Reader decodes a stream of records one at a time. It tracks the first error
// it encounters; every call after that returns it. A Reader is one decode
// session and is not safe for concurrent use.
type Reader struct {
	r      io.Reader    // stream source, nil for in-memory sessions
	src    *BytesReader // in-memory source, bodies are decoded in place
	closer io.Closer
	codec  *Codec
	log    Logger

	hdr    [HeaderSize]byte
	body   []byte // reused stream body buffer
	offset int64  // stream position of the next header
	count  int    // records decoded
	err    error  // first error encountered
}

// NewReader creates a Reader over r. Unbuffered sources are wrapped in a
// bufio.Reader of BufferSize.
func NewReader(r io.Reader, schema Schema) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	codec, err := NewCodec(schema)
	if err != nil {
		return nil, err
	}

	rd := &Reader{codec: codec, log: nopLogger{}}
	switch src := r.(type) {
	case *BytesReader:
		rd.src = src
	case *bufio.Reader, *bytes.Reader, *bytes.Buffer:
		rd.r = src
	default:
		rd.r = bufio.NewReaderSize(r, BufferSize)
	}
	return rd, nil
}

// Open starts a session over an in-memory buffer. Records never alias b. A nil
// schema is reported by the first call to Next.
func Open(b []byte, schema Schema) *Reader {
	rd := &Reader{src: NewBytesReader(b), log: nopLogger{}}
	rd.codec, rd.err = NewCodec(schema)
	return rd
}

// OpenFile opens an STDF file. Compressed files (gzip, zstd, s2, lz4) are
// decompressed while streaming; plain files are memory-mapped. Close releases
// the file.
func OpenFile(path string, schema Schema) (*Reader, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	mf, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	f := compress.Detect(mf.Data[:min(len(mf.Data), compress.MagicLen)])
	if f == compress.None {
		rd := Open(mf.Data, schema)
		rd.closer = mf
		return rd, nil
	}

	zr, err := compress.Decompress(NewBytesReader(mf.Data), f)
	if err != nil {
		_ = mf.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rd, err := NewReader(zr, schema)
	if err != nil {
		_ = zr.Close()
		_ = mf.Close()
		return nil, err
	}
	rd.closer = closers{zr, mf}
	return rd, nil
}

type closers []io.Closer

func (cs closers) Close() error {
	var err error
	for _, c := range cs {
		err = errors.Join(err, c.Close())
	}
	return err
}

// WithByteOrder sets the byte order the session starts in and returns the
// Reader for chaining. A FAR record still overrides it.
func (r *Reader) WithByteOrder(order ByteOrder) *Reader {
	if r.codec != nil {
		r.codec.WithByteOrder(order)
	}
	return r
}

// WithLogger sets the logger and returns the Reader for chaining.
func (r *Reader) WithLogger(l Logger) *Reader {
	if l == nil {
		l = nopLogger{}
	}
	r.log = l
	return r
}

// Close ends the session and releases the underlying file of an OpenFile
// session. It does not close readers passed to NewReader. Next returns
// ErrClosed afterwards, unless the session had already failed or ended.
func (r *Reader) Close() error {
	r.setError(ErrClosed)
	r.src, r.r = nil, nil
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Next decodes the next record. It returns io.EOF when the stream ends
// cleanly between records.
func (r *Reader) Next() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}

	start := r.offset
	h, err := r.readHeader()
	if err != nil {
		r.setError(err)
		return nil, r.err
	}
	body, err := r.readBody(int(h.Len))
	if err != nil {
		r.setError(fmt.Errorf("%w: record %s at offset %d", err, h, start))
		return nil, r.err
	}
	r.log.Debug("body start", "offset", start+HeaderSize, "typ", h.Typ, "sub", h.Sub, "len", h.Len)

	rec, n, err := r.codec.decode(h, body)
	if err != nil {
		r.setError(fmt.Errorf("record at offset %d: %w", start, err))
		return nil, r.err
	}
	rec.Offset = start
	r.count++

	switch {
	case rec.Unknown():
		r.log.Warn("record type not found in schema", "typ", h.Typ, "sub", h.Sub, "offset", start)
	case n < int(h.Len):
		r.log.Warn("record body not fully decoded", "rec", rec.Name, "offset", start, "len", h.Len, "decoded", n)
	}
	r.log.Debug("body end", "rec", rec.Name, "offset", r.offset)
	return rec, nil
}

// All iterates over the remaining records. Iteration stops after the first
// error, which is yielded; a clean end of stream yields nothing.
func (r *Reader) All() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			rec, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

func (r *Reader) readHeader() (Header, error) {
	var b []byte
	if r.src != nil {
		b = r.src.Next(HeaderSize)
	} else {
		n, err := io.ReadFull(r.r, r.hdr[:])
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, err
		}
		b = r.hdr[:n]
	}
	r.offset += int64(len(b))

	if len(b) == 0 {
		return Header{}, io.EOF
	}
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d of %d bytes at offset %d", ErrTruncatedHeader, len(b), HeaderSize, r.offset-int64(len(b)))
	}
	return r.codec.DecodeHeader(b)
}

func (r *Reader) readBody(n int) ([]byte, error) {
	var b []byte
	if r.src != nil {
		b = r.src.Next(n)
	} else {
		if cap(r.body) < n {
			r.body = make([]byte, n)
		}
		read, err := io.ReadFull(r.r, r.body[:n])
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, err
		}
		b = r.body[:read]
	}
	r.offset += int64(len(b))

	if len(b) < n {
		return nil, fmt.Errorf("%w: declared %d bytes, %d available", ErrTruncatedBody, n, len(b))
	}
	return b, nil
}

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Err returns the first error encountered, or nil if the stream ended cleanly
// or the session was closed.
func (r *Reader) Err() error {
	if r.err == io.EOF || r.err == ErrClosed {
		return nil
	}
	return r.err
}

// Offset returns the stream position of the next header.
func (r *Reader) Offset() int64 { return r.offset }

// Count returns the number of records decoded.
func (r *Reader) Count() int { return r.count }

// Order returns the byte order the next record will be decoded in.
func (r *Reader) Order() ByteOrder {
	if r.codec == nil {
		return DefaultOrder()
	}
	return r.codec.Order()
}
