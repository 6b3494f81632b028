package compress

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// NewReader sniffs the compression format of r and returns a reader of the
// decompressed stream. Closing it releases the decompressor and closes r if r
// is an io.Closer.
func NewReader(r io.Reader) (io.ReadCloser, Format, error) {
	if r == nil {
		return nil, None, errors.New("compress: nil reader")
	}
	pr := PeekReader(r)
	head, err := pr.Peek(MagicLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, None, err
	}
	f := Detect(head)
	rc, err := Decompress(pr, f)
	return rc, f, err
}

// Decompress wraps r in a decompressor for f.
func Decompress(r io.Reader, f Format) (io.ReadCloser, error) {
	rc := &readCloser{src: r}
	switch f {
	case None:
		rc.Reader = r
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		rc.Reader, rc.close = zr, zr.Close
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		rc.Reader = zr
		rc.close = func() error { zr.Close(); return nil }
	case S2:
		rc.Reader = s2.NewReader(r)
	case LZ4:
		rc.Reader = lz4.NewReader(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	return rc, nil
}

type readCloser struct {
	io.Reader
	close func() error
	src   io.Reader
}

func (r *readCloser) Close() error {
	var err error
	if r.close != nil {
		err = r.close()
	}
	if c, ok := r.src.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

// NewWriter returns a writer compressing to w in format f. Close flushes the
// compressor; it does not close w.
func NewWriter(w io.Writer, f Format) (io.WriteCloser, error) {
	switch f {
	case None:
		return nopCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return zw, nil
	case S2:
		return s2.NewWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
