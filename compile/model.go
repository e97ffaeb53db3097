package compile

import (
	"sync"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
	"github.com/reoring/skema/validate"
)

// Model is a declaration bound to a Compiler. It satisfies skema.Model and
// compiles lazily; the document is cached after the first success.
type Model struct {
	decl *skema.Declaration
	c    *Compiler

	mu  sync.Mutex
	doc *js.Schema
}

// NewModel binds d to a Compiler built from opts.
func NewModel(d *skema.Declaration, opts ...Options) *Model {
	return &Model{decl: d, c: New(opts...)}
}

// MustModel is NewModel plus an eager compile; it panics on compile errors.
func MustModel(d *skema.Declaration, opts ...Options) *Model {
	m := NewModel(d, opts...)
	if _, err := m.JSONSchema(); err != nil {
		panic(err)
	}
	return m
}

// ModelName implements skema.Model.
func (m *Model) ModelName() string {
	if m == nil || m.decl == nil {
		return ""
	}
	return m.decl.Name
}

// Declaration returns the bound declaration.
func (m *Model) Declaration() *skema.Declaration { return m.decl }

// JSONSchema implements skema.Model. Callers receive a copy.
func (m *Model) JSONSchema() (*js.Schema, error) {
	if doc, ok := m.cached(); ok {
		return doc.Clone(), nil
	}
	doc, err := m.c.Compile(m.decl)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	if m.doc == nil {
		m.doc = doc
	}
	doc = m.doc
	m.mu.Unlock()
	return doc.Clone(), nil
}

// cached returns the compiled document without compiling.
func (m *Model) cached() (*js.Schema, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc, m.doc != nil
}

// JSON returns the indented JSON document.
func (m *Model) JSON() ([]byte, error) {
	doc, err := m.JSONSchema()
	if err != nil {
		return nil, err
	}
	return doc.JSONIndent("  ")
}

// Validate checks instance against the compiled document.
func (m *Model) Validate(instance any, opts ...validate.Options) (skema.Errors, error) {
	doc, err := m.JSONSchema()
	if err != nil {
		return nil, err
	}
	return validate.Validate(doc, instance, opts...), nil
}
