package lang

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/goccy/go-yaml"
)

// Native converts v to plain Go values: integers become int64 when they fit
// and *big.Int otherwise; arrays become []any.
func (v Value) Native() any {
	switch v.Type {
	case TypeInteger:
		if v.Int == nil {
			return int64(0)
		}

		if v.Int.IsInt64() {
			return v.Int.Int64()
		}

		return new(big.Int).Set(v.Int)

	case TypeArray:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = e.Native()
		}

		return out
	}

	return nil
}

// MarshalJSON implements json.Marshaler. Integers are written as JSON
// numbers of arbitrary length.
func (v Value) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer

	v.marshalJSON(&b)

	return b.Bytes(), nil
}

func (v Value) marshalJSON(b *bytes.Buffer) {
	switch v.Type {
	case TypeInteger:
		if v.Int == nil {
			b.WriteByte('0')
		} else {
			b.WriteString(v.Int.String())
		}

	case TypeArray:
		b.WriteByte('[')

		for i, e := range v.Elems {
			if i > 0 {
				b.WriteByte(',')
			}

			e.marshalJSON(b)
		}

		b.WriteByte(']')

	default:
		b.WriteString("null")
	}
}

// yamlNative converts v for YAML encoding. Integers outside the int64 range
// are emitted as decimal strings.
func (v Value) yamlNative() any {
	switch v.Type {
	case TypeInteger:
		if v.Int != nil && !v.Int.IsInt64() {
			return v.Int.String()
		}

	case TypeArray:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = e.yamlNative()
		}

		return out
	}

	return v.Native()
}

// Native returns the bindings of t as a map of plain Go values.
// See [Value.Native].
func (t *Table) Native() map[string]any {
	m := make(map[string]any, t.Len())

	for name, v := range t.All() {
		m[name] = v.Native()
	}

	return m
}

// MarshalJSON implements json.Marshaler, preserving declaration order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer

	b.WriteByte('{')

	for i, name := range t.Names() {
		if i > 0 {
			b.WriteByte(',')
		}

		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}

		b.Write(key)
		b.WriteByte(':')
		t.values[name].marshalJSON(&b)
	}

	b.WriteByte('}')

	return b.Bytes(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler, preserving declaration
// order.
func (t *Table) MarshalYAML() (any, error) {
	slice := make(yaml.MapSlice, 0, t.Len())

	for name, v := range t.All() {
		slice = append(slice, yaml.MapItem{Key: name, Value: v.yamlNative()})
	}

	return slice, nil
}
