package stdf

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Field is one schema field: its name and resolved type.
type Field struct {
	Name string
	Type Type
}

// Entry describes one record kind. Field order is authoritative: later fields
// may depend on earlier ones.
type Entry struct {
	Name   string
	Typ    uint8
	Sub    uint8
	Fields []Field
}

// Schema is what the record codec needs from a schema source.
type Schema interface {
	LookupByName(name string) (*Entry, bool)
	LookupByType(typ, sub uint8) (string, bool)
}

type typeKey struct{ typ, sub uint8 }

// Table is an immutable Schema. It is safe for concurrent use by any number of
// sessions.
type Table struct {
	byName map[string]*Entry
	byType map[typeKey]*Entry
	names  []string
	digest uint64
}

var _ Schema = (*Table)(nil)

// NewTable validates entries and builds a Table. Names and (type, subtype)
// pairs must be unique, and every K array field must have a multiplier entry.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		byName: make(map[string]*Entry, len(entries)),
		byType: make(map[typeKey]*Entry, len(entries)),
	}
	h := xxhash.New()
	for i := range entries {
		e := entries[i]
		e.Fields = slices.Clone(e.Fields)
		if e.Name == "" || e.Name == UnknownName {
			return nil, fmt.Errorf("%w: invalid record name %q", ErrInvalidSchema, e.Name)
		}
		if _, dup := t.byName[e.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate record %s", ErrInvalidSchema, e.Name)
		}
		key := typeKey{e.Typ, e.Sub}
		if other, dup := t.byType[key]; dup {
			return nil, fmt.Errorf("%w: %s and %s share type (%d, %d)", ErrInvalidSchema, other.Name, e.Name, e.Typ, e.Sub)
		}
		seen := make(map[string]bool, len(e.Fields))
		for _, f := range e.Fields {
			if seen[f.Name] {
				return nil, fmt.Errorf("%w: %s declares %s twice", ErrInvalidSchema, e.Name, f.Name)
			}
			seen[f.Name] = true
			if f.Type.Kind == KindInvalid || f.Type.Kind == B0 {
				return nil, fmt.Errorf("%w: %s.%s has type %s", ErrInvalidSchema, e.Name, f.Name, f.Type)
			}
			if _, ok := Multipliers[f.Name]; f.Type.Array && !ok {
				return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMultiplier, e.Name, f.Name)
			}
		}
		t.byName[e.Name] = &e
		t.byType[key] = &e
		t.names = append(t.names, e.Name)
	}
	slices.Sort(t.names)
	for _, name := range t.names {
		e := t.byName[name]
		_, _ = h.WriteString(name)
		_, _ = h.WriteString(strconv.Itoa(int(e.Typ)<<8 | int(e.Sub)))
		for _, f := range e.Fields {
			_, _ = h.WriteString(f.Name)
			_, _ = h.WriteString(f.Type.String())
		}
	}
	t.digest = h.Sum64()
	return t, nil
}

// LookupByName returns the entry of the named record kind.
func (t *Table) LookupByName(name string) (*Entry, bool) {
	e, ok := t.byName[name]
	return e, ok
}

// LookupByType returns the record name registered for (typ, sub).
func (t *Table) LookupByType(typ, sub uint8) (string, bool) {
	e, ok := t.byType[typeKey{typ, sub}]
	if !ok {
		return "", false
	}
	return e.Name, true
}

// Names returns the record names in sorted order.
func (t *Table) Names() []string { return slices.Clone(t.names) }

// Len returns the number of record kinds.
func (t *Table) Len() int { return len(t.names) }

// Digest is an xxhash64 over the table's names, type pairs and fields. Equal
// tables have equal digests regardless of how they were loaded.
func (t *Table) Digest() uint64 { return t.digest }
