package item

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyStack is returned when encoding an empty stack. Empty slots are
// encoded by their container (as a zero-length blob), never by this package.
var ErrEmptyStack = errors.New("cannot encode empty stack")

// Marshal encodes s into its canonical byte form.
//
// The encoding is JSON with:
//  1. object keys sorted
//  2. no HTML escaping
//  3. all strings NFC normalised
//  4. omitted zero-valued optional fields
//
// Identical stacks therefore always encode to identical bytes.
func Marshal(s *Stack) ([]byte, error) {
	if Empty(s) {
		return nil, ErrEmptyStack
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	field := func(key string) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeString(&buf, key)
		buf.WriteByte(':')
	}

	// Keys in sorted order: amount, lore, material, max_stack, name, tags.
	field("amount")
	buf.WriteString(strconv.Itoa(s.Amount))

	if len(s.Lore) > 0 {
		field("lore")
		buf.WriteByte('[')
		for i, line := range s.Lore {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(&buf, line)
		}
		buf.WriteByte(']')
	}

	field("material")
	writeString(&buf, s.Material)

	if s.MaxStack > 0 {
		field("max_stack")
		buf.WriteString(strconv.Itoa(s.MaxStack))
	}

	if s.Name != "" {
		field("name")
		writeString(&buf, s.Name)
	}

	if len(s.Tags) > 0 {
		field("tags")
		buf.WriteByte('{')
		keys := make([]string, 0, len(s.Tags))
		for k := range s.Tags {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(&buf, k)
			buf.WriteByte(':')
			writeString(&buf, s.Tags[k])
		}
		buf.WriteByte('}')
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Unmarshal decodes a stack produced by Marshal. Unknown fields are rejected.
func Unmarshal(data []byte) (*Stack, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var s Stack
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode stack: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode stack: trailing data")
	}
	if Empty(&s) {
		return nil, fmt.Errorf("decode stack: empty stack %q x%d", s.Material, s.Amount)
	}
	if s.MaxStack < 0 {
		return nil, fmt.Errorf("decode stack: negative max_stack %d", s.MaxStack)
	}
	return &s, nil
}

// writeString writes an NFC normalised JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string never fails.
	_ = enc.Encode(norm.NFC.String(s))
	out := tmp.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	buf.Write(out)
}
