package skema

import "fmt"

// Kind names a scalar JSON type. Date, DateTime and Time are strings with a
// fixed format.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindNumber
	KindBoolean
	KindNull
	KindDate
	KindDateTime
	KindTime
)

// JSONType returns the JSON Schema "type" value of the kind.
func (k Kind) JSONType() string {
	switch k {
	case KindString, KindDate, KindDateTime, KindTime:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	}
	return ""
}

// Format returns the fixed "format" of date/time kinds, or "".
func (k Kind) Format() string {
	switch k {
	case KindDate:
		return "date"
	case KindDateTime:
		return "date-time"
	case KindTime:
		return "time"
	}
	return ""
}

func (k Kind) String() string {
	if f := k.Format(); f != "" {
		return f
	}
	if t := k.JSONType(); t != "" {
		return t
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Category groups types that accept the same constraint keywords.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryString
	CategoryInteger
	CategoryNumber
	CategoryBoolean
	CategoryNull
	CategoryArray
	CategoryTuple
	CategoryObject
	CategoryComposition
	CategoryNullable
)

var categoryNames = [...]string{
	CategoryUnknown:     "unknown",
	CategoryString:      "string",
	CategoryInteger:     "integer",
	CategoryNumber:      "number",
	CategoryBoolean:     "boolean",
	CategoryNull:        "null",
	CategoryArray:       "array",
	CategoryTuple:       "tuple",
	CategoryObject:      "object",
	CategoryComposition: "composition",
	CategoryNullable:    "nullable",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return categoryNames[CategoryUnknown]
	}
	return categoryNames[c]
}

// Type is a semantic type. The set of implementations is closed: Scalar,
// ModelRef, Array, Tuple, Composition and Nullable.
type Type interface {
	Category() Category
	fmt.Stringer
	isType()
}

// Scalar is a JSON scalar, optionally a date/time string.
type Scalar struct{ Kind Kind }

// Category returns the constraint category of the scalar kind.
func (s Scalar) Category() Category {
	switch s.Kind {
	case KindString, KindDate, KindDateTime, KindTime:
		return CategoryString
	case KindInteger:
		return CategoryInteger
	case KindNumber:
		return CategoryNumber
	case KindBoolean:
		return CategoryBoolean
	case KindNull:
		return CategoryNull
	}
	return CategoryUnknown
}

func (s Scalar) String() string { return s.Kind.String() }
func (Scalar) isType()          {}

// ModelRef points at another schema-bearing model. When Model is nil, Inline
// is compiled as an anonymous object.
type ModelRef struct {
	Model  Model
	Inline *Declaration
}

func (ModelRef) Category() Category { return CategoryObject }

// Name returns the model name used as the shared definition key.
func (m ModelRef) Name() string {
	switch {
	case m.Model != nil:
		return m.Model.ModelName()
	case m.Inline != nil:
		return m.Inline.Name
	}
	return ""
}

func (m ModelRef) String() string {
	if n := m.Name(); n != "" {
		return n
	}
	return "object"
}
func (ModelRef) isType() {}

// Array is a homogeneous list.
type Array struct{ Elem Type }

func (Array) Category() Category { return CategoryArray }
func (a Array) String() string {
	if a.Elem == nil {
		return "array"
	}
	return "array<" + a.Elem.String() + ">"
}
func (Array) isType() {}

// AdditionalItems is the tuple policy for items past the positional ones.
type AdditionalItems struct {
	mode additionalMode
	typ  Type
}

type additionalMode int

const (
	additionalDisallowed additionalMode = iota
	additionalAny
	additionalTyped
)

var (
	// AdditionalDisallowed forbids extra tuple items.
	AdditionalDisallowed = AdditionalItems{mode: additionalDisallowed}
	// AdditionalAny allows unconstrained extra tuple items.
	AdditionalAny = AdditionalItems{mode: additionalAny}
)

// AdditionalTyped requires extra tuple items to satisfy t.
func AdditionalTyped(t Type) AdditionalItems { return AdditionalItems{mode: additionalTyped, typ: t} }

// Disallowed reports whether extra items are forbidden.
func (a AdditionalItems) Disallowed() bool { return a.mode == additionalDisallowed }

// Any reports whether extra items are unconstrained.
func (a AdditionalItems) Any() bool { return a.mode == additionalAny }

// Typed returns the type extra items must satisfy.
func (a AdditionalItems) Typed() (Type, bool) { return a.typ, a.mode == additionalTyped }

// Tuple is a positional list.
type Tuple struct {
	Items      []Type
	Additional AdditionalItems
}

func (Tuple) Category() Category { return CategoryTuple }
func (t Tuple) String() string   { return fmt.Sprintf("tuple(%d)", len(t.Items)) }
func (Tuple) isType()            {}

// Operator is a composition keyword.
type Operator string

const (
	OpAllOf Operator = "allOf"
	OpAnyOf Operator = "anyOf"
	OpOneOf Operator = "oneOf"
)

// Composition combines member types with allOf/anyOf/oneOf.
type Composition struct {
	Op      Operator
	Members []Type
}

func (Composition) Category() Category { return CategoryComposition }
func (c Composition) String() string   { return string(c.Op) }
func (Composition) isType()            {}

// Nullable admits null in addition to Inner.
type Nullable struct{ Inner Type }

func (Nullable) Category() Category { return CategoryNullable }
func (n Nullable) String() string {
	if n.Inner == nil {
		return "nullable"
	}
	return "nullable<" + n.Inner.String() + ">"
}
func (Nullable) isType() {}

func String() Type   { return Scalar{Kind: KindString} }
func Integer() Type  { return Scalar{Kind: KindInteger} }
func Number() Type   { return Scalar{Kind: KindNumber} }
func Boolean() Type  { return Scalar{Kind: KindBoolean} }
func Null() Type     { return Scalar{Kind: KindNull} }
func Date() Type     { return Scalar{Kind: KindDate} }
func DateTime() Type { return Scalar{Kind: KindDateTime} }
func Time() Type     { return Scalar{Kind: KindTime} }

// ArrayOf returns an Array of elem.
func ArrayOf(elem Type) Type { return Array{Elem: elem} }

// TupleOf returns a Tuple with the given positional types and policy.
func TupleOf(additional AdditionalItems, items ...Type) Type {
	return Tuple{Items: items, Additional: additional}
}

// Ref returns a ModelRef to m.
func Ref(m Model) Type { return ModelRef{Model: m} }

// ObjectOf returns a ModelRef compiled inline from d.
func ObjectOf(d *Declaration) Type { return ModelRef{Inline: d} }

func AllOf(members ...Type) Type { return Composition{Op: OpAllOf, Members: members} }
func AnyOf(members ...Type) Type { return Composition{Op: OpAnyOf, Members: members} }
func OneOf(members ...Type) Type { return Composition{Op: OpOneOf, Members: members} }

// NullableOf returns a Nullable wrapping t.
func NullableOf(t Type) Type { return Nullable{Inner: t} }
