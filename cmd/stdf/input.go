package main

import (
	"io"
	"os"

	"github.com/oy3o/stdf"
	"github.com/oy3o/stdf/compress"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// input is an open record stream and whatever must be closed after it.
type input struct {
	*stdf.Reader
	closer io.Closer
}

func (in *input) Close() error {
	err := in.Reader.Close()
	if in.closer != nil {
		if cerr := in.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// openInput opens a record stream. Files go through stdf.OpenFile; standard
// input is sniffed for compression and streamed.
func (a *App) openInput(path string) (*input, error) {
	if path == stdinPath {
		return a.streamInput(os.Stdin, nil)
	}
	r, err := stdf.OpenFile(path, a.schema)
	if err != nil {
		return nil, err
	}
	return &input{Reader: r.WithLogger(a.lo)}, nil
}

// streamInput decompresses src and, when tee is set, copies the decompressed
// bytes to it as they are consumed. Closing the input closes src if it is an
// io.Closer.
func (a *App) streamInput(src io.Reader, tee io.Writer) (*input, error) {
	zr, _, err := compress.NewReader(src)
	if err != nil {
		return nil, err
	}
	var in io.Reader = zr
	if tee != nil {
		in = io.TeeReader(zr, tee)
	}
	r, err := stdf.NewReader(in, a.schema)
	if err != nil {
		_ = zr.Close()
		return nil, err
	}
	return &input{Reader: r.WithLogger(a.lo), closer: zr}, nil
}
