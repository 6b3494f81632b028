// Package compress opens and creates compressed STDF streams. Tester output
// is commonly archived gzip'd or zstd'd; readers sniff the format from the
// stream's magic bytes and writers pick it from the file extension.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned by ParseFormat for an unrecognised name.
var ErrUnknownFormat = errors.New("compress: unknown format")

// Format identifies a stream compression format.
type Format uint8

const (
	None Format = iota
	Gzip
	Zstd
	S2
	LZ4
)

var formatNames = [...]string{
	None: "none",
	Gzip: "gzip",
	Zstd: "zstd",
	S2:   "s2",
	LZ4:  "lz4",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(name, n) {
			return Format(f), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".s2", ".sz":
		return S2
	case ".lz4":
		return LZ4
	}
	return None
}

var (
	magicGzip   = []byte{0x1f, 0x8b}
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicS2     = []byte("\xff\x06\x00\x00S2sTwO")
	magicSnappy = []byte("\xff\x06\x00\x00sNaPpY")
)

// MagicLen is the number of leading bytes Detect needs.
const MagicLen = 10

// Detect identifies the format from the first bytes of a stream. Anything
// unrecognised, including a plain STDF header, is None.
func Detect(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, magicGzip):
		return Gzip
	case bytes.HasPrefix(head, magicZstd):
		return Zstd
	case bytes.HasPrefix(head, magicLZ4):
		return LZ4
	case bytes.HasPrefix(head, magicS2), bytes.HasPrefix(head, magicSnappy):
		return S2
	}
	return None
}
