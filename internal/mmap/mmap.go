// Package mmap maps whole files read-only into memory.
package mmap

import (
	"errors"
	"os"
)

// ErrTooLarge is returned for files that cannot be indexed as a []byte.
var ErrTooLarge = errors.New("mmap: file too large")

// File is a read-only view of a file's contents. Data must not be used after
// Close.
type File struct {
	Data    []byte
	mmapped bool
}

// Open maps the file at path. If mapping is unavailable it falls back to
// reading the file into memory.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, ErrTooLarge
	}
	size := int(size64)
	if size == 0 {
		return &File{Data: []byte{}}, nil
	}

	if data, err := mapFile(f, size); err == nil {
		return &File{Data: data, mmapped: true}, nil
	}

	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil {
		return nil, err
	}
	return &File{Data: data}, nil
}

// Mapped reports whether Data is backed by a memory mapping.
func (f *File) Mapped() bool { return f.mmapped }

// Close releases the mapping.
func (f *File) Close() error {
	if f == nil || f.Data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unmap(f.Data)
	}
	f.Data = nil
	f.mmapped = false
	return err
}
