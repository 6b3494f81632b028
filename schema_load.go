package stdf

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/puzpuzpuz/xsync/v4"
)

//go:embed schemas/stdf_v4.json
var stdfV4 []byte

// tableCache holds compiled tables keyed by the xxhash of their source, so
// sessions loading the same schema share one immutable Table.
var tableCache = xsync.NewMap[uint64, *Table]()

// recordDoc is one record of a schema document:
//
//	{"FAR": {"rec_typ": 0, "rec_sub": 10, "body": [["CPU_TYPE", "U1"], ["STDF_VER", "U1"]]}}
type recordDoc struct {
	Typ  uint8      `koanf:"rec_typ"`
	Sub  uint8      `koanf:"rec_sub"`
	Body [][]string `koanf:"body"`
}

var defaultSchema = sync.OnceValue(func() *Table {
	t, err := ParseSchema(stdfV4, "json")
	if err != nil {
		panic(fmt.Sprintf("stdf: embedded STDF V4 schema: %v", err))
	}
	return t
})

// DefaultSchema returns the embedded STDF V4 schema.
func DefaultSchema() *Table { return defaultSchema() }

func parserFor(format string) (koanf.Parser, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return json.Parser(), nil
	case "yaml", "yml":
		return yaml.Parser(), nil
	case "toml":
		return toml.Parser(), nil
	}
	return nil, fmt.Errorf("%w: unsupported schema format %q", ErrInvalidSchema, format)
}

// LoadSchema reads a schema document from path. The format (json, yaml or
// toml) is taken from the file extension.
func LoadSchema(path string) (*Table, error) {
	parser, err := parserFor(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	ko := koanf.New(".")
	if err := ko.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("error loading schema %s: %w", path, err)
	}
	return compileSchema(ko)
}

// ParseSchema compiles a schema document held in memory.
func ParseSchema(data []byte, format string) (*Table, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	sum := xxhash.Sum64(data)
	if t, ok := tableCache.Load(sum); ok {
		return t, nil
	}
	ko := koanf.New(".")
	if err := ko.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	t, err := compileSchema(ko)
	if err != nil {
		return nil, err
	}
	t, _ = tableCache.LoadOrStore(sum, t)
	return t, nil
}

func compileSchema(ko *koanf.Koanf) (*Table, error) {
	var docs map[string]recordDoc
	if err := ko.Unmarshal("", &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	slices.Sort(names)

	entries := make([]Entry, 0, len(docs))
	for _, name := range names {
		doc := docs[name]
		e := Entry{Name: name, Typ: doc.Typ, Sub: doc.Sub, Fields: make([]Field, 0, len(doc.Body))}
		for i, pair := range doc.Body {
			if len(pair) != 2 {
				return nil, fmt.Errorf("%w: %s field %d is not a [name, type] pair", ErrInvalidSchema, name, i)
			}
			typ, err := ParseType(pair[1])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", name, pair[0], err)
			}
			e.Fields = append(e.Fields, Field{Name: pair[0], Type: typ})
		}
		entries = append(entries, e)
	}
	return NewTable(entries)
}
