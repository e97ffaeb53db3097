package compile

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/sirupsen/logrus"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/constraint"
	"github.com/reoring/skema/internal/equality"
	js "github.com/reoring/skema/jsonschema"
)

// compile resolves the category of t, checks c against the constraint table
// and delegates to the builder of the variant.
func (s *session) compile(prop string, t skema.Type, c skema.Constraints) (*js.Schema, error) {
	cat, err := categoryOf(prop, t)
	if err != nil {
		return nil, err
	}
	if err := checkConstraints(prop, t, cat, c); err != nil {
		s.log.WithFields(logrus.Fields{"property": prop, "type": typeName(t)}).WithError(err).Debug("constraint rejected")
		return nil, err
	}
	return s.build(prop, t, c)
}

func (s *session) build(prop string, t skema.Type, c skema.Constraints) (*js.Schema, error) {
	switch tt := t.(type) {
	case skema.Scalar:
		return s.scalar(prop, tt, c)
	case skema.Array:
		return s.array(prop, tt, c)
	case skema.Tuple:
		return s.tuple(prop, tt, c)
	case skema.ModelRef:
		return s.object(prop, tt, c)
	case skema.Composition:
		return s.composition(prop, tt, c)
	case skema.Nullable:
		return s.nullable(prop, tt, c)
	}
	return nil, unsupportedType(prop, t, "")
}

// categoryOf returns the constraint category of t. Nullable types use the
// category of the wrapped type.
func categoryOf(prop string, t skema.Type) (skema.Category, error) {
	for {
		if t == nil {
			return skema.CategoryUnknown, unsupportedType(prop, t, "no type given")
		}
		n, ok := t.(skema.Nullable)
		if !ok {
			break
		}
		t = n.Inner
	}
	cat := t.Category()
	if cat == skema.CategoryUnknown {
		return cat, unsupportedType(prop, t, "")
	}
	return cat, nil
}

// checkConstraints rejects keywords that are neither legal for cat nor
// universal, and enum/const lists holding duplicates.
func checkConstraints(prop string, t skema.Type, cat skema.Category, c skema.Constraints) error {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if constraint.PropertyOption(cat, k) {
			continue
		}
		e, ok := constraint.Lookup(cat, k)
		if !ok {
			return &skema.CompileError{Kind: skema.UnsupportedConstraint, Property: prop, Type: typeName(t), Keyword: k}
		}
		if err := checkValue(prop, t, k, e, c[k]); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(prop string, t skema.Type, key string, e constraint.Entry, v any) error {
	switch e.Keyword {
	case js.KeyEnum:
		vals, ok := listOf(v)
		if !ok {
			return invalidValue(prop, t, key, "enum must be an array")
		}
		if i, j, dup := equality.FirstDuplicate(vals); dup {
			return invalidValue(prop, t, key, fmt.Sprintf("items %d and %d are equal", i, j))
		}
	case js.KeyConst:
		if vals, ok := listOf(v); ok {
			if i, j, dup := equality.FirstDuplicate(vals); dup {
				return invalidValue(prop, t, key, fmt.Sprintf("items %d and %d are equal", i, j))
			}
		}
	case js.KeyType:
		switch tv := v.(type) {
		case string:
		case []string:
		default:
			return invalidValue(prop, t, key, fmt.Sprintf("type must be a string or string list, got %T", tv))
		}
	}
	return nil
}

// listOf converts any slice or array to []any.
func listOf(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// applyConstraints writes the keywords of c present in the table order of
// cat. The "type" option replaces the builder's type in place.
func applyConstraints(frag *js.Schema, cat skema.Category, c skema.Constraints) {
	if len(c) == 0 {
		return
	}
	if v, ok := lookup(c, "type", js.KeyType); ok {
		frag.Set(js.KeyType, v)
	}
	for _, e := range constraint.Order(cat) {
		if v, ok := lookup(c, e.Option, e.Keyword); ok {
			frag.Set(e.Keyword, v)
		}
	}
}

func lookup(c skema.Constraints, option, keyword string) (any, bool) {
	if v, ok := c[option]; ok {
		return v, true
	}
	v, ok := c[keyword]
	return v, ok
}

func typeName(t skema.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func unsupportedType(prop string, t skema.Type, detail string) error {
	return &skema.CompileError{Kind: skema.UnsupportedType, Property: prop, Type: typeName(t), Detail: detail}
}

func invalidValue(prop string, t skema.Type, key, detail string) error {
	return &skema.CompileError{Kind: skema.InvalidConstraintValue, Property: prop, Type: typeName(t), Keyword: key, Detail: detail}
}
