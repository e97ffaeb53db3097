package compile

import (
	"io"

	"github.com/sirupsen/logrus"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// Options configures a Compiler.
type Options struct {
	// Definitions, when set, is shared by every compile call of the Compiler.
	// Otherwise each call starts from an empty map.
	Definitions *Definitions
	// Logger receives debug records about shared definitions and compile
	// failures. Nil discards them.
	Logger logrus.FieldLogger
}

// Compiler turns declarations into JSON Schema documents.
type Compiler struct {
	defs *Definitions
	log  logrus.FieldLogger
}

// New returns a Compiler. The last Options value wins.
func New(opts ...Options) *Compiler {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	log := opt.Logger
	if log == nil {
		log = discardLogger()
	}
	return &Compiler{defs: opt.Definitions, log: log}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Compile compiles d with a default Compiler.
func Compile(d *skema.Declaration) (*js.Schema, error) { return New().Compile(d) }

// CompileType compiles a single type with a default Compiler.
func CompileType(t skema.Type, c skema.Constraints) (*js.Schema, error) {
	return New().CompileType(t, c)
}

// Compile assembles the document for d: title, description, type, properties
// in declaration order, required, and the "$defs" referenced while compiling.
func (c *Compiler) Compile(d *skema.Declaration) (*js.Schema, error) {
	if d == nil {
		return nil, &skema.CompileError{Kind: skema.UnsupportedType, Detail: "nil declaration"}
	}
	s := c.session()
	doc, err := s.assemble(d)
	if err != nil {
		c.log.WithError(err).WithField("model", d.Name).Debug("compile failed")
		return nil, err
	}
	if err := s.finish(d, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CompileType compiles one type and its constraints outside of a model. The
// fragment carries "$defs" when model references were registered.
func (c *Compiler) CompileType(t skema.Type, cons skema.Constraints) (*js.Schema, error) {
	s := c.session()
	frag, err := s.compile("", t, cons)
	if err != nil {
		c.log.WithError(err).Debug("compile failed")
		return nil, err
	}
	if err := s.finish(nil, frag); err != nil {
		return nil, err
	}
	return frag, nil
}

func (c *Compiler) session() *session {
	defs := c.defs
	if defs == nil {
		defs = NewDefinitions()
	}
	return &session{defs: defs, log: c.log, recursive: map[*skema.Declaration]bool{}}
}

// session is the state of one compile call.
type session struct {
	defs *Definitions
	log  logrus.FieldLogger
	// used lists the definitions referenced by this call, in first-use order.
	used []string
	// stack holds the declarations being assembled, for recursion detection.
	stack     []*skema.Declaration
	recursive map[*skema.Declaration]bool
}

// assemble builds the object document of one declaration.
func (s *session) assemble(d *skema.Declaration) (*js.Schema, error) {
	for _, open := range s.stack {
		if open == d {
			if d.Name == "" {
				return nil, &skema.CompileError{Kind: skema.UnsupportedType, Type: "object", Detail: "recursive declaration needs a name"}
			}
			s.recursive[d] = true
			s.use(d.Name)
			return js.RefTo(d.Name), nil
		}
	}
	s.stack = append(s.stack, d)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	doc := js.New()
	if d.Title != "" {
		doc.Set(js.KeyTitle, d.Title)
	}
	if d.Description != "" {
		doc.Set(js.KeyDescription, d.Description)
	}
	typ := d.Type
	if typ == "" {
		typ = "object"
	}
	doc.Set(js.KeyType, typ)

	props := js.New()
	required := []string{}
	for _, p := range d.Properties {
		frag, err := s.compile(p.Name, p.Type, p.Constraints)
		if err != nil {
			return nil, err
		}
		props.Set(p.Name, frag)
		if !p.IsOptional() {
			required = append(required, p.Name)
		}
	}
	doc.Set(js.KeyProperties, props)
	doc.Set(js.KeyRequired, required)
	if d.AdditionalProperties != nil {
		doc.Set(js.KeyAdditionalProperties, *d.AdditionalProperties)
	}
	return doc, nil
}

// finish registers a recursive root and attaches the used definitions.
func (s *session) finish(root *skema.Declaration, doc *js.Schema) error {
	if root != nil && s.recursive[root] {
		if err := s.register(root.Name, "", doc.Clone()); err != nil {
			return err
		}
	}
	if len(s.used) == 0 {
		return nil
	}
	defs := js.New()
	for _, n := range s.used {
		if f, ok := s.defs.Get(n); ok {
			defs.Set(n, f)
		}
	}
	doc.Set(js.KeyDefs, defs)
	return nil
}

// use records that the current document points at "$defs/<name>".
func (s *session) use(name string) {
	for _, n := range s.used {
		if n == name {
			return
		}
	}
	s.used = append(s.used, name)
}

// register inserts frag idempotently and records its use.
func (s *session) register(name, prop string, frag *js.Schema) error {
	inserted, err := s.defs.Register(name, frag)
	if err != nil {
		s.log.WithFields(logrus.Fields{"model": name, "property": prop}).Debug("conflicting shared definition")
		return &skema.CompileError{Kind: skema.ConflictingDefinition, Property: prop, Type: name, Detail: "a different schema is already registered under this name"}
	}
	if inserted {
		s.log.WithFields(logrus.Fields{"model": name, "property": prop}).Debug("registered shared definition")
	}
	s.use(name)
	return nil
}
