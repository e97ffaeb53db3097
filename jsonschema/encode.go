package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// MarshalJSON writes keys in insertion order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, err := json.Marshal(s.vals[k])
		if err != nil {
			return nil, fmt.Errorf("jsonschema: encode %q: %w", k, err)
		}
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// JSON returns the compact JSON text of s.
func (s *Schema) JSON() ([]byte, error) { return s.MarshalJSON() }

// JSONIndent returns indented JSON text of s.
func (s *Schema) JSONIndent(indent string) ([]byte, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := json.Indent(&b, raw, "", indent); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// MarshalYAML returns a mapping node that keeps insertion order.
func (s *Schema) MarshalYAML() (any, error) {
	if s == nil {
		return nil, nil
	}
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range s.keys {
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		vn := &yaml.Node{}
		if err := vn.Encode(s.vals[k]); err != nil {
			return nil, fmt.Errorf("jsonschema: encode %q: %w", k, err)
		}
		n.Content = append(n.Content, kn, vn)
	}
	return n, nil
}

// YAML returns the YAML text of s.
func (s *Schema) YAML() ([]byte, error) {
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping key order. Nested objects become
// *Schema, numbers become json.Number.
func (s *Schema) UnmarshalJSON(data []byte) error {
	out, err := Parse(data)
	if err != nil {
		return err
	}
	*s = *out
	return nil
}

// Parse decodes JSON text into an ordered fragment.
func Parse(data []byte) (*Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*Schema)
	if !ok {
		return nil, errors.New("jsonschema: document is not an object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("jsonschema: trailing data after document")
	}
	return s, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

// decodeToken builds the value starting at tok. Closing delimiters are read
// from the token stream.
func decodeToken(dec *json.Decoder, tok any) (any, error) {
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		s := New()
		for {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if kt == json.Delim('}') {
				return s, nil
			}
			k, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("jsonschema: unexpected key token %v", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			s.Set(k, v)
		}
	case '[':
		arr := []any{}
		for {
			et, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if et == json.Delim(']') {
				return arr, nil
			}
			v, err := decodeToken(dec, et)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	}
	return nil, fmt.Errorf("jsonschema: unexpected delimiter %v", d)
}
