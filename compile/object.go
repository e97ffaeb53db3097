package compile

import (
	"fmt"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// object compiles a ModelRef property: the model's fragment is embedded, or
// with "ref": true registered as a shared definition and pointed at.
func (s *session) object(prop string, m skema.ModelRef, c skema.Constraints) (*js.Schema, error) {
	if m.Model == nil && m.Inline == nil {
		return nil, unsupportedType(prop, m, "model reference without a model")
	}
	var (
		frag *js.Schema
		err  error
	)
	if useRef, _ := c[skema.OptRef].(bool); useRef {
		frag, err = s.reference(prop, m)
	} else {
		frag, err = s.inline(prop, m)
	}
	if err != nil {
		return nil, err
	}
	applyConstraints(frag, skema.CategoryObject, c)
	return frag, nil
}

// inline returns a fresh copy of the model's fragment for embedding.
func (s *session) inline(prop string, m skema.ModelRef) (*js.Schema, error) {
	if m.Model == nil {
		return s.assembleNested(prop, m.Inline)
	}
	if cm, ok := m.Model.(*Model); ok {
		if doc, ok := cm.cached(); ok {
			return s.embed(prop, doc)
		}
		return s.assembleNested(prop, cm.decl)
	}
	doc, err := m.Model.JSONSchema()
	if err != nil {
		return nil, fmt.Errorf("compile: schema of model %q: %w", m.Name(), err)
	}
	if doc == nil {
		return nil, unsupportedType(prop, m, "model exposes no compiled schema")
	}
	return s.embed(prop, doc)
}

// reference registers the model under its name (idempotently) and returns
// a "$ref" pointer. Anonymous models are embedded instead.
func (s *session) reference(prop string, m skema.ModelRef) (*js.Schema, error) {
	name := m.Name()
	if name == "" {
		return s.inline(prop, m)
	}
	if d := declOf(m); d != nil && s.open(d) {
		s.recursive[d] = true
		s.use(name)
		return js.RefTo(name), nil
	}
	frag, err := s.inline(prop, m)
	if err != nil {
		return nil, err
	}
	if n, ok := frag.DefName(); ok && n == name {
		// a recursive declaration registered itself while assembling
		return frag, nil
	}
	if err := s.register(name, prop, frag); err != nil {
		return nil, err
	}
	return js.RefTo(name), nil
}

// refOrInline is shared by composition members and array/tuple elements:
// schema-bearing models become shared definitions, inline declarations are
// embedded.
func (s *session) refOrInline(prop string, m skema.ModelRef) (*js.Schema, error) {
	switch {
	case m.Model != nil:
		return s.reference(prop, m)
	case m.Inline != nil:
		return s.inline(prop, m)
	}
	return nil, unsupportedType(prop, m, "model reference without a model")
}

// assembleNested assembles a nested declaration. A declaration that turned
// out to reference itself is moved into the shared definitions.
func (s *session) assembleNested(prop string, d *skema.Declaration) (*js.Schema, error) {
	frag, err := s.assemble(d)
	if err != nil {
		return nil, err
	}
	if s.recursive[d] && frag.Ref() == "" {
		if err := s.register(d.Name, prop, frag); err != nil {
			return nil, err
		}
		return js.RefTo(d.Name), nil
	}
	return frag, nil
}

// embed copies a compiled document and hoists its "$defs" into the session
// so that every "#/$defs/<name>" pointer resolves from the root.
func (s *session) embed(prop string, doc *js.Schema) (*js.Schema, error) {
	frag := doc.Clone()
	if defs := frag.Defs(); defs != nil {
		for _, n := range defs.Keys() {
			if d := defs.Child(n); d != nil {
				if err := s.register(n, prop, d); err != nil {
					return nil, err
				}
			}
		}
		frag.Delete(js.KeyDefs)
	}
	return frag, nil
}

func (s *session) open(d *skema.Declaration) bool {
	for _, o := range s.stack {
		if o == d {
			return true
		}
	}
	return false
}

func declOf(m skema.ModelRef) *skema.Declaration {
	if cm, ok := m.Model.(*Model); ok {
		return cm.decl
	}
	return m.Inline
}
