package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// member is one top-level key of the settings object with its raw value.
type member struct {
	key   string
	value json.RawMessage
}

// document is a JSON object that keeps its keys in file order. Values are
// carried as raw JSON, so numbers and nested objects are written back
// exactly as they were read.
type document struct {
	members []member
	index   map[string]int
}

func parseDocument(data []byte) (*document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: not an object", ErrInvalidDocument)
	}

	doc := &document{index: make(map[string]int)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected %v", ErrInvalidDocument, tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, key, err)
		}
		doc.set(key, raw)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidDocument)
	}
	return doc, nil
}

// set replaces the value of key in place, or appends key when it is new.
// A key repeated in the file keeps its first position and its last value.
func (d *document) set(key string, value json.RawMessage) {
	if i, ok := d.index[key]; ok {
		d.members[i].value = value
		return
	}
	d.index[key] = len(d.members)
	d.members = append(d.members, member{key: key, value: value})
}

// setStrings overlays string values. New keys are appended in sorted order.
func (d *document) setStrings(values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw, err := marshalString(values[k])
		if err != nil {
			return err
		}
		d.set(k, raw)
	}
	return nil
}

// get returns the raw value of key.
func (d *document) get(key string) (json.RawMessage, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.members[i].value, true
}

func (d *document) keys() []string {
	out := make([]string, len(d.members))
	for i, m := range d.members {
		out[i] = m.key
	}
	return out
}

// MarshalJSON writes the members in order.
func (d *document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range d.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalString encodes s without HTML escaping.
func marshalString(s string) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
