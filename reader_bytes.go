package stdf

import "io"

// BytesReader reads from an in-memory byte slice without copying. It backs both
// in-memory sessions (Open) and the per-record body cursor.
type BytesReader struct {
	B []byte // source slice
	N int    // current read position
}

// NewBytesReader creates a new BytesReader.
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b}
}

// Read implements the [io.Reader] interface.
func (r *BytesReader) Read(p []byte) (int, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	n := copy(p, r.B[r.N:])
	r.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	b := r.B[r.N]
	r.N++
	return b, nil
}

// Next returns a view of the next n bytes and advances past them. If fewer than
// n bytes remain it returns what is left and advances to the end. The view
// aliases B; callers copy what they keep.
func (r *BytesReader) Next(n int) []byte {
	if n > r.Available() {
		n = r.Available()
	}
	b := r.B[r.N : r.N+n]
	r.N += n
	return b
}

// Rest returns a view of the unread bytes without advancing.
func (r *BytesReader) Rest() []byte {
	if r.N >= len(r.B) {
		return nil
	}
	return r.B[r.N:]
}

// Skip advances the read position by n bytes, stopping at the end.
func (r *BytesReader) Skip(n int) {
	r.N = min(r.N+n, len(r.B))
}

// Len returns the number of bytes read.
func (r *BytesReader) Len() int {
	return r.N
}

// Available returns the number of bytes available for reading.
func (r *BytesReader) Available() int {
	length := len(r.B) - r.N
	if length <= 0 {
		return 0
	}
	return length
}
