package skema

// Constraints maps constraint option names to values. Keys may use the
// snake_case option spelling (min_length) or the JSON Schema keyword
// (minLength).
type Constraints map[string]any

// Property-level options that never reach the schema fragment.
const (
	OptOptional = "optional"
	OptRef      = "ref"
)

// Property is one declared field of a model.
type Property struct {
	Name        string
	Type        Type
	Constraints Constraints
	Optional    bool
}

// IsOptional reports whether the property is left out of "required", either
// through the Optional flag or through an "optional": true constraint.
func (p Property) IsOptional() bool {
	if p.Optional {
		return true
	}
	b, _ := p.Constraints[OptOptional].(bool)
	return b
}

// UseRef reports whether a ModelRef property asks for a shared definition
// instead of an inline fragment.
func (p Property) UseRef() bool {
	b, _ := p.Constraints[OptRef].(bool)
	return b
}

// Declaration is the input of schema compilation: an ordered list of
// properties plus document-level metadata.
type Declaration struct {
	Name        string
	Title       string
	Description string
	// Type defaults to "object" when empty.
	Type       string
	Properties []Property
	// AdditionalProperties is emitted when non-nil.
	AdditionalProperties *bool
}

// Property returns the declared property with the given name.
func (d *Declaration) Property(name string) (Property, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

type declBuilder struct {
	d *Declaration
}

type propStep struct {
	b   *declBuilder
	idx int
}

// Define starts a declaration builder for the named model.
func Define(name string) *declBuilder {
	return &declBuilder{d: &Declaration{Name: name}}
}

// Title sets the document title.
func (b *declBuilder) Title(t string) *declBuilder { b.d.Title = t; return b }

// Description sets the document description.
func (b *declBuilder) Description(s string) *declBuilder { b.d.Description = s; return b }

// Strict emits "additionalProperties": false.
func (b *declBuilder) Strict() *declBuilder {
	f := false
	b.d.AdditionalProperties = &f
	return b
}

// AllowAdditional emits "additionalProperties": true.
func (b *declBuilder) AllowAdditional() *declBuilder {
	t := true
	b.d.AdditionalProperties = &t
	return b
}

// Field appends a required property. Redeclaring a name replaces the earlier
// property in place.
func (b *declBuilder) Field(name string, t Type, c Constraints) *propStep {
	p := Property{Name: name, Type: t, Constraints: c}
	for i := range b.d.Properties {
		if b.d.Properties[i].Name == name {
			b.d.Properties[i] = p
			return &propStep{b: b, idx: i}
		}
	}
	b.d.Properties = append(b.d.Properties, p)
	return &propStep{b: b, idx: len(b.d.Properties) - 1}
}

// Build returns the declaration.
func (b *declBuilder) Build() *Declaration { return b.d }

// Optional leaves the current property out of "required".
func (f *propStep) Optional() *declBuilder {
	f.b.d.Properties[f.idx].Optional = true
	return f.b
}

// Required keeps the current property in "required" (default).
func (f *propStep) Required() *declBuilder {
	f.b.d.Properties[f.idx].Optional = false
	return f.b
}

// Field starts the next property.
func (f *propStep) Field(name string, t Type, c Constraints) *propStep {
	return f.b.Field(name, t, c)
}

// Build returns the declaration.
func (f *propStep) Build() *Declaration { return f.b.Build() }
