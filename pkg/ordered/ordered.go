// Package ordered decodes JSON objects while keeping their keys in the order
// they were received.
//
// The live feed addresses collection entries by object keys and the order of
// those keys is significant (removals by index shift later positions, score
// keys decide notification order), so a plain map[string]any cannot be used.
//
// Decoded values are one of: Object, []any, json.Number, string, bool or nil.
package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Field is a single key/value pair of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a JSON object with its keys in document order.
type Object []Field

// Get returns the value stored under key. When a key occurs more than once the
// last occurrence wins, the same as encoding/json.
func (o Object) Get(key string) (any, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (o Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Object returns the nested object stored under key, if there is one.
func (o Object) Object(key string) (Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	obj, ok := v.(Object)
	return obj, ok
}

// Keys returns the keys in document order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for _, f := range o {
		keys = append(keys, f.Key)
	}
	return keys
}

// UnmarshalJSON lets Object be used as a field type with encoding/json.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case Object:
		*o = t
	case nil:
		*o = nil
	default:
		return fmt.Errorf("ordered: expected object, got %T", v)
	}
	return nil
}

// MarshalJSON writes the fields back in order.
func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode parses a single JSON value.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("ordered: trailing data after JSON value")
	}
	return v, nil
}

// DecodeObject parses data that must hold a JSON object (or null).
func DecodeObject(data []byte) (Object, error) {
	var o Object
	if err := o.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return o, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("ordered: unexpected delimiter %q", t)
	default:
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (Object, error) {
	obj := Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("ordered: expected object key, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj = append(obj, Field{Key: key, Value: val})
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}
