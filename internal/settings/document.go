// Package settings reads, merges and writes Claude Code settings.json files.
//
// Settings files are maintained by hand and by several tools at once, so a
// Document keeps every member it does not manage byte-for-byte (apart from
// indentation) and in its original order. Only the managed hook categories
// are ever re-encoded.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	errNotObject = errors.New("not a JSON object")
	errNotArray  = errors.New("not a JSON array")
)

// Member is one key/value pair of a JSON object. Value holds the original
// bytes.
type Member struct {
	Key   string
	Value json.RawMessage
}

// Object is a JSON object that keeps member order. Methods never modify
// the receiver; mutators return a new Object.
type Object []Member

// Index returns the position of key, or -1. With duplicate keys the last
// one wins, matching encoding/json.
func (o Object) Index(key string) int {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return i
		}
	}
	return -1
}

// Get returns the raw value stored under key.
func (o Object) Get(key string) (json.RawMessage, bool) {
	if i := o.Index(key); i >= 0 {
		return o[i].Value, true
	}
	return nil, false
}

// Set replaces the value of key in place, or appends it.
func (o Object) Set(key string, value json.RawMessage) Object {
	out := o.clone()
	if i := out.Index(key); i >= 0 {
		out[i].Value = value
		return out
	}
	return append(out, Member{Key: key, Value: value})
}

// Insert places key at position i. Callers must ensure key is absent.
func (o Object) Insert(i int, key string, value json.RawMessage) Object {
	if i < 0 || i > len(o) {
		i = len(o)
	}
	out := make(Object, 0, len(o)+1)
	out = append(out, o[:i]...)
	out = append(out, Member{Key: key, Value: value})
	return append(out, o[i:]...)
}

// Delete removes every member named key.
func (o Object) Delete(key string) Object {
	out := make(Object, 0, len(o))
	for _, m := range o {
		if m.Key != key {
			out = append(out, m)
		}
	}
	return out
}

// Keys returns member names in document order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

func (o Object) clone() Object {
	out := make(Object, len(o), len(o)+1)
	copy(out, o)
	return out
}

// MarshalJSON writes members in order with their original values.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeValue(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(m.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(m.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object keeping member order.
func (o *Object) UnmarshalJSON(data []byte) error {
	obj, err := parseObject(data)
	if err != nil {
		return err
	}
	*o = obj
	return nil
}

func parseObject(data []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	obj := Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		obj = append(obj, Member{Key: key, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseArray(data []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errNotArray
	}

	items := []json.RawMessage{}
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		items = append(items, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return items, nil
}

func expectEOF(dec *json.Decoder) error {
	_, err := dec.Token()
	if err == io.EOF {
		return nil
	}
	if err == nil {
		return errors.New("unexpected data after top-level value")
	}
	return err
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// encodeValue marshals v without HTML escaping so shell operators such as
// "&&" stay readable in hook commands.
func encodeValue(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func encodeIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Document is a parsed settings.json.
type Document struct {
	root Object
}

// NewDocument returns an empty settings document.
func NewDocument() *Document {
	return &Document{root: Object{}}
}

// Parse reads a settings document. Empty input yields an empty document;
// anything that is not a single JSON object is a MalformedConfigError.
func Parse(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return NewDocument(), nil
	}

	root, err := parseObject(data)
	if errors.Is(err, errNotObject) {
		return nil, malformed("", "document is not a JSON object")
	}
	if err != nil {
		return nil, &MalformedConfigError{Reason: "invalid JSON", Err: err}
	}
	return &Document{root: root}, nil
}

// Encode renders the document with two-space indentation and a trailing
// newline.
func (d *Document) Encode() ([]byte, error) {
	return encodeIndent(d.root)
}

// Clone returns a copy sharing no mutable state with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return NewDocument()
	}
	return &Document{root: d.root.clone()}
}

// Keys returns top-level member names in document order.
func (d *Document) Keys() []string {
	return d.root.Keys()
}

// Get returns the raw value of a top-level member.
func (d *Document) Get(key string) (json.RawMessage, bool) {
	return d.root.Get(key)
}

// Equal reports whether both documents encode to the same bytes.
func (d *Document) Equal(other *Document) bool {
	a, errA := d.Clone().Encode()
	b, errB := other.Clone().Encode()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// HooksJSON returns the indented hooks member, if present.
func (d *Document) HooksJSON() ([]byte, bool, error) {
	raw, ok := d.root.Get(hooksKey)
	if !ok {
		return nil, false, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, true, err
	}
	return buf.Bytes(), true, nil
}
