package compile

import (
	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// array nests the element fragment under "items"; minItems/maxItems/
// uniqueItems stay on the array itself.
func (s *session) array(prop string, t skema.Array, c skema.Constraints) (*js.Schema, error) {
	if t.Elem == nil {
		return nil, unsupportedType(prop, t, "array requires an element type")
	}
	items, err := s.element(prop, t.Elem)
	if err != nil {
		return nil, err
	}
	frag := js.New().Set(js.KeyType, "array").Set(js.KeyItems, items)
	applyConstraints(frag, skema.CategoryArray, c)
	return frag, nil
}

// tuple emits "prefixItems" in declaration order and encodes the policy for
// extra items in "items": false, true, or the typed fragment.
func (s *session) tuple(prop string, t skema.Tuple, c skema.Constraints) (*js.Schema, error) {
	if len(t.Items) == 0 {
		return nil, &skema.CompileError{Kind: skema.EmptyTuple, Property: prop, Type: typeName(t)}
	}
	prefix := make([]*js.Schema, 0, len(t.Items))
	for _, it := range t.Items {
		f, err := s.element(prop, it)
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, f)
	}
	frag := js.New().Set(js.KeyType, "array").Set(js.KeyPrefixItems, prefix)
	switch {
	case t.Additional.Disallowed():
		frag.Set(js.KeyItems, false)
	case t.Additional.Any():
		frag.Set(js.KeyItems, true)
	default:
		extra, _ := t.Additional.Typed()
		f, err := s.element(prop, extra)
		if err != nil {
			return nil, err
		}
		frag.Set(js.KeyItems, f)
	}
	applyConstraints(frag, skema.CategoryTuple, c)
	return frag, nil
}

// element compiles an array or tuple member. References to schema-bearing
// models become shared definitions.
func (s *session) element(prop string, t skema.Type) (*js.Schema, error) {
	if m, ok := t.(skema.ModelRef); ok {
		return s.refOrInline(prop, m)
	}
	return s.compile(prop, t, nil)
}
