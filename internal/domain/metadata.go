package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"spotmap/pkg/e"
)

type MetaKind uint8

const (
	MetaString MetaKind = iota + 1
	MetaNumber
	MetaBool
)

// MetaValue is a string, a number or a boolean. The zero value is invalid.
type MetaValue struct {
	kind MetaKind
	s    string
	n    float64
	b    bool
}

func StringValue(s string) MetaValue  { return MetaValue{kind: MetaString, s: s} }
func NumberValue(n float64) MetaValue { return MetaValue{kind: MetaNumber, n: n} }
func BoolValue(b bool) MetaValue      { return MetaValue{kind: MetaBool, b: b} }

func (v MetaValue) Kind() MetaKind { return v.kind }

func (v MetaValue) String() (string, bool)  { return v.s, v.kind == MetaString }
func (v MetaValue) Number() (float64, bool) { return v.n, v.kind == MetaNumber }
func (v MetaValue) Bool() (bool, bool)      { return v.b, v.kind == MetaBool }

func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case MetaString:
		return json.Marshal(v.s)
	case MetaNumber:
		return json.Marshal(v.n)
	case MetaBool:
		return json.Marshal(v.b)
	default:
		return nil, fmt.Errorf("metadata value has no kind")
	}
}

func (v *MetaValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = StringValue(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return e.Validation(fmt.Sprintf("metadata number %s out of range", t))
		}
		*v = NumberValue(n)
	case bool:
		*v = BoolValue(t)
	default:
		return e.Validation("metadata values must be string, number or boolean")
	}
	return nil
}

// Metadata is the open key/value bag attached to an alert.
type Metadata map[string]MetaValue

// Keys returns the keys in lexical order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LogValue renders the bag as a log group in key order.
func (m Metadata) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(m))
	for _, k := range m.Keys() {
		v := m[k]
		switch v.Kind() {
		case MetaString:
			s, _ := v.String()
			attrs = append(attrs, slog.String(k, s))
		case MetaNumber:
			n, _ := v.Number()
			attrs = append(attrs, slog.Float64(k, n))
		case MetaBool:
			b, _ := v.Bool()
			attrs = append(attrs, slog.Bool(k, b))
		}
	}
	return slog.GroupValue(attrs...)
}

func (m Metadata) validate() error {
	for k, v := range m {
		if k == "" {
			return e.Validation("metadata keys must not be empty")
		}
		if v.kind == 0 {
			return e.Validation(fmt.Sprintf("metadata %q has no value", k))
		}
	}
	return nil
}
