package jsonschema

import "strings"

// Keywords emitted by the compiler. Only the subset of the draft 2020-12
// vocabulary that skema produces or reads is listed.
const (
	KeyTitle                = "title"
	KeyDescription          = "description"
	KeyType                 = "type"
	KeyFormat               = "format"
	KeyDefault              = "default"
	KeyEnum                 = "enum"
	KeyConst                = "const"
	KeyPattern              = "pattern"
	KeyMinLength            = "minLength"
	KeyMaxLength            = "maxLength"
	KeyMinimum              = "minimum"
	KeyMaximum              = "maximum"
	KeyExclusiveMinimum     = "exclusiveMinimum"
	KeyExclusiveMaximum     = "exclusiveMaximum"
	KeyMultipleOf           = "multipleOf"
	KeyProperties           = "properties"
	KeyRequired             = "required"
	KeyAdditionalProperties = "additionalProperties"
	KeyItems                = "items"
	KeyPrefixItems          = "prefixItems"
	KeyMinItems             = "minItems"
	KeyMaxItems             = "maxItems"
	KeyUniqueItems          = "uniqueItems"
	KeyAllOf                = "allOf"
	KeyAnyOf                = "anyOf"
	KeyOneOf                = "oneOf"
	KeyRef                  = "$ref"
	KeyDefs                 = "$defs"
)

// DefsPrefix is the pointer prefix of local shared definitions.
const DefsPrefix = "#/$defs/"

// Schema is an ordered JSON Schema fragment. Keys keep the position of their
// first insertion, so identical build sequences serialize to identical bytes.
//
// Values are plain JSON values (string, bool, numbers, nil, []any,
// map[string]any), []string, or nested *Schema / []*Schema.
type Schema struct {
	keys []string
	vals map[string]any
}

// New returns an empty fragment.
func New() *Schema { return &Schema{vals: map[string]any{}} }

// Object returns a fragment with "type":"object" and an empty properties map.
func Object() *Schema { return New().Set(KeyType, "object").Set(KeyProperties, New()) }

// RefTo returns {"$ref":"#/$defs/<name>"}.
func RefTo(name string) *Schema { return New().Set(KeyRef, DefsPrefix+escapeToken(name)) }

// Set stores v under key. An existing key keeps its position.
func (s *Schema) Set(key string, v any) *Schema {
	if s.vals == nil {
		s.vals = map[string]any{}
	}
	if _, ok := s.vals[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.vals[key] = v
	return s
}

// Get returns the value stored under key.
func (s *Schema) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Schema) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Delete removes key.
func (s *Schema) Delete(key string) {
	if s == nil {
		return
	}
	if _, ok := s.vals[key]; !ok {
		return
	}
	delete(s.vals, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (s *Schema) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Clone deep-copies nested fragments and JSON containers.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{keys: append([]string(nil), s.keys...), vals: make(map[string]any, len(s.vals))}
	for k, v := range s.vals {
		out.vals[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Schema:
		return t.Clone()
	case []*Schema:
		out := make([]*Schema, len(t))
		for i, e := range t {
			out[i] = e.Clone()
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Type returns the "type" keyword as a list. A single string yields a one
// element list; absence yields nil.
func (s *Schema) Type() []string {
	v, ok := s.Get(KeyType)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Child returns the nested fragment stored under key, or nil.
func (s *Schema) Child(key string) *Schema {
	v, _ := s.Get(key)
	c, _ := v.(*Schema)
	return c
}

// Children returns the fragment list stored under key (allOf, prefixItems, ...).
func (s *Schema) Children(key string) []*Schema {
	v, _ := s.Get(key)
	switch t := v.(type) {
	case []*Schema:
		return t
	case []any:
		out := make([]*Schema, 0, len(t))
		for _, e := range t {
			if c, ok := e.(*Schema); ok {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// Properties returns the "properties" fragment, or nil.
func (s *Schema) Properties() *Schema { return s.Child(KeyProperties) }

// Defs returns the "$defs" fragment, or nil.
func (s *Schema) Defs() *Schema { return s.Child(KeyDefs) }

// Required returns the "required" list.
func (s *Schema) Required() []string {
	v, _ := s.Get(KeyRequired)
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Ref returns the "$ref" pointer, or "".
func (s *Schema) Ref() string {
	v, _ := s.Get(KeyRef)
	r, _ := v.(string)
	return r
}

// DefName returns the definition name targeted by a local "$ref", or false
// when the fragment does not point into "$defs".
func (s *Schema) DefName() (string, bool) {
	r := s.Ref()
	if !strings.HasPrefix(r, DefsPrefix) {
		return "", false
	}
	return unescapeToken(strings.TrimPrefix(r, DefsPrefix)), true
}

// escape '~' -> '~0', '/' -> '~1' per RFC6901
func escapeToken(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func unescapeToken(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}
