package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MarshalJSON encodes the manifest as a single JSON object with keys in
// manifest order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", key, err)
		}
		v, err := json.Marshal(m.entries[key])
		if err != nil {
			return nil, fmt.Errorf("failed to encode entry %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping its key order.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// Encode writes the manifest as JSON followed by a newline.
func Encode(w io.Writer, m *Manifest) error {
	data, err := m.MarshalJSON()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Decode reads one manifest object from r. Object key order becomes
// manifest order; a repeated key keeps its first position.
func Decode(r io.Reader) (*Manifest, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("failed to parse manifest: expected object, got %v", tok)
	}

	m := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse manifest: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("failed to parse manifest: unexpected token %v", tok)
		}

		var entry Entry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to parse manifest entry %q: %w", key, err)
		}
		m.Set(key, entry)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse manifest: trailing data after object")
	}

	return m, nil
}
