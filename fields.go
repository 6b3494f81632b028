package stdf

import (
	"iter"

	"github.com/elliotchance/orderedmap/v3"
)

// Fields is a record body: field name to decoded value, in schema order.
type Fields struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewFields returns an empty field map with room for n fields.
func NewFields(n int) *Fields {
	return &Fields{m: orderedmap.NewOrderedMapWithCapacity[string, any](n)}
}

// Get returns the value of the named field.
func (f *Fields) Get(name string) (any, bool) {
	if f == nil || f.m == nil {
		return nil, false
	}
	return f.m.Get(name)
}

// Set adds or replaces a field. New fields go to the end.
func (f *Fields) Set(name string, v any) {
	if f.m == nil {
		f.m = orderedmap.NewOrderedMap[string, any]()
	}
	f.m.Set(name, v)
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil || f.m == nil {
		return 0
	}
	return f.m.Len()
}

// Names returns the field names in order.
func (f *Fields) Names() []string {
	names := make([]string, 0, f.Len())
	for name := range f.All() {
		names = append(names, name)
	}
	return names
}

// All iterates over the fields in order.
func (f *Fields) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if f == nil || f.m == nil {
			return
		}
		for k, v := range f.m.AllFromFront() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Map returns the fields as a plain map.
func (f *Fields) Map() Map {
	m := make(Map, f.Len())
	for k, v := range f.All() {
		m[k] = v
	}
	return m
}

// Map is an unordered field map, convenient for building records to encode.
type Map map[string]any

// Get implements FieldGetter.
func (m Map) Get(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}
