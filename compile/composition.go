package compile

import (
	"fmt"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// composition emits {"<op>": [fragmentOrRef, ...]}. It never adds a
// "required" list of its own.
func (s *session) composition(prop string, t skema.Composition, c skema.Constraints) (*js.Schema, error) {
	switch t.Op {
	case skema.OpAllOf, skema.OpAnyOf, skema.OpOneOf:
	default:
		return nil, unsupportedType(prop, t, fmt.Sprintf("unknown operator %q", string(t.Op)))
	}
	if len(t.Members) == 0 {
		return nil, &skema.CompileError{Kind: skema.InvalidCompositionMember, Property: prop, Type: typeName(t), Detail: "no members"}
	}
	list := make([]*js.Schema, 0, len(t.Members))
	for i, m := range t.Members {
		f, err := s.member(prop, t, i, m)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	frag := js.New().Set(string(t.Op), list)
	applyConstraints(frag, skema.CategoryComposition, c)
	return frag, nil
}

func (s *session) member(prop string, t skema.Composition, i int, m skema.Type) (*js.Schema, error) {
	switch mt := m.(type) {
	case nil:
		return nil, invalidMember(prop, t, i, "nil member")
	case skema.ModelRef:
		if mt.Model == nil && mt.Inline == nil {
			return nil, invalidMember(prop, t, i, "member does not expose a compiled schema")
		}
		return s.refOrInline(prop, mt)
	}
	return s.compile(prop, m, nil)
}

func invalidMember(prop string, t skema.Composition, i int, detail string) error {
	return &skema.CompileError{Kind: skema.InvalidCompositionMember, Property: prop, Type: typeName(t), Detail: fmt.Sprintf("member %d: %s", i, detail)}
}

// nullable admits null next to the wrapped type: a type list for scalars,
// an anyOf with {"type":"null"} otherwise.
func (s *session) nullable(prop string, t skema.Nullable, c skema.Constraints) (*js.Schema, error) {
	inner := t.Inner
	for {
		n, ok := inner.(skema.Nullable)
		if !ok {
			break
		}
		inner = n.Inner
	}
	if sc, ok := inner.(skema.Scalar); ok {
		frag, err := s.scalar(prop, sc, c)
		if err != nil {
			return nil, err
		}
		types := frag.Type()
		for _, typ := range types {
			if typ == "null" {
				return frag, nil
			}
		}
		frag.Set(js.KeyType, append(append([]string(nil), types...), "null"))
		return frag, nil
	}
	innerFrag, err := s.build(prop, inner, c)
	if err != nil {
		return nil, err
	}
	return js.New().Set(js.KeyAnyOf, []*js.Schema{innerFrag, js.New().Set(js.KeyType, "null")}), nil
}
