package main

import (
	"bytes"
	"encoding/hex"
	"math"

	"github.com/goccy/go-json"

	"github.com/oy3o/stdf"
)

// orderedFields marshals a record body as a JSON object in schema order. The
// entry, when known, tells K×U1 arrays apart from byte strings.
type orderedFields struct {
	f     *stdf.Fields
	entry *stdf.Entry
}

func (o orderedFields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for name, v := range o.f.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		if b, ok := v.([]byte); ok && o.isArray(name) {
			v = mapSlice(b)
		}
		val, err := json.Marshal(jsonValue(v))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o orderedFields) isArray(name string) bool {
	if o.entry == nil {
		return false
	}
	for _, f := range o.entry.Fields {
		if f.Name == name {
			return f.Type.Array
		}
	}
	return false
}

type jsonBits struct {
	Count uint16 `json:"count"`
	Data  string `json:"data"`
}

type jsonGen struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

// jsonValue maps decoded values onto JSON-friendly ones: byte strings become
// hex and non-finite floats become strings.
func jsonValue(v any) any {
	switch v := v.(type) {
	case []byte:
		return hex.EncodeToString(v)
	case stdf.Bits:
		return jsonBits{Count: v.Count, Data: hex.EncodeToString(v.Data)}
	case stdf.GenValue:
		return jsonGen{Type: v.Kind.String(), Value: jsonValue(v.Value)}
	case float32:
		return jsonFloat(float64(v), v)
	case float64:
		return jsonFloat(v, v)
	case []stdf.GenValue:
		return mapSlice(v)
	case [][]byte:
		return mapSlice(v)
	case []stdf.Bits:
		return mapSlice(v)
	case []float32:
		return mapSlice(v)
	case []float64:
		return mapSlice(v)
	}
	return v
}

func jsonFloat(f float64, orig any) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return orig
}

func mapSlice[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = jsonValue(v)
	}
	return out
}
