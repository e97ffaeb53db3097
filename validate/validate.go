// Package validate walks a compiled schema document against a data instance
// and reports every mismatch as a skema.Error keyed by dotted path.
//
// By default only runtime kinds are checked and an absent property is not a
// finding. Options.Required and Options.Keywords opt into presence checks and
// keyword checks (lengths, bounds, enum/const, formats, compositions).
package validate

import (
	"fmt"
	"reflect"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/i18n"
	js "github.com/reoring/skema/jsonschema"
)

// Options selects the optional checks. The zero value checks types only.
type Options struct {
	// Required reports required properties that are absent or null.
	Required bool
	// Keywords checks the value keywords of every fragment and reports
	// values whose kind does not fit an object or array fragment.
	Keywords bool
}

// Validate checks instance against schema. The walk never stops at the first
// finding; the result lists every error in document order.
func Validate(schema *js.Schema, instance any, opts ...Options) skema.Errors {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if schema == nil {
		return nil
	}
	w := &walker{root: schema, opt: opt}
	root := w.resolve(schema)
	if root == nil {
		return nil
	}
	if v := indirect(instance); v != nil && isObject(v) {
		w.object("", root, v)
		w.keywords("", root, v)
	} else {
		w.value("", root, instance)
	}
	return w.errs
}

type walker struct {
	root *js.Schema
	opt  Options
	errs skema.Errors
}

// probe validates v against frag in isolation and returns its findings.
func (w *walker) probe(path string, frag *js.Schema, v any) skema.Errors {
	sub := &walker{root: w.root, opt: w.opt}
	sub.value(path, frag, v)
	return sub.errs
}

// value checks one value: scalar kinds are compared against "type", objects
// and lists are walked recursively. A value whose kind does not fit an
// object or array fragment is accepted.
func (w *walker) value(path string, frag *js.Schema, v any) {
	frag = w.resolve(frag)
	if frag == nil {
		return
	}
	if isNil(v) {
		v = nil
	}
	types := frag.Type()
	if len(types) == 0 {
		if inner, ok := nullableInner(frag); ok && !w.opt.Keywords {
			if v != nil {
				w.value(path, inner, v)
			}
			return
		}
		w.keywords(path, frag, v)
		return
	}
	if v == nil {
		// absence yields a null value, which is not a finding by itself
		if w.opt.Keywords && has(types, "null") {
			w.keywords(path, frag, v)
		}
		return
	}
	if has(types, "object") {
		if val, ok := v.(skema.Validatable); ok {
			w.errs = append(w.errs, val.ValidationErrors().Rebase(path)...)
			return
		}
		if iv := indirect(v); isObject(iv) {
			w.object(path, frag, iv)
			w.keywords(path, frag, iv)
			return
		}
	}
	iv := indirect(v)
	if has(types, "array") && isList(iv) {
		w.array(path, frag, iv)
		w.keywords(path, frag, iv)
		return
	}
	scalars := scalarTypes(types)
	if len(scalars) == 0 {
		// object/array fragments accept other kinds unless keywords are checked
		if w.opt.Keywords {
			w.fail(path, skema.TypeInvalidType, map[string]any{"type": types[0]})
		}
		return
	}
	for _, t := range scalars {
		if kindMatches(t, iv, frag) {
			w.keywords(path, frag, iv)
			return
		}
	}
	w.fail(path, skema.TypeInvalidType, map[string]any{"type": scalars[0]})
}

// object walks the declared properties of frag.
func (w *walker) object(path string, frag *js.Schema, v any) {
	props := frag.Properties()
	if props == nil {
		return
	}
	var required []string
	if w.opt.Required {
		required = frag.Required()
	}
	for _, name := range props.Keys() {
		p := skema.JoinPath(path, name)
		pv, ok := property(v, name)
		if (!ok || isNil(pv)) && has(required, name) {
			w.fail(p, skema.TypeBlank, nil)
			continue
		}
		if !ok {
			continue
		}
		if child := props.Child(name); child != nil {
			w.value(p, child, pv)
		}
	}
}

// array walks the elements of a list: positional fragments from
// "prefixItems" first, then "items" for the rest.
func (w *walker) array(path string, frag *js.Schema, v any) {
	rv := reflect.ValueOf(v)
	prefix := frag.Children(js.KeyPrefixItems)
	items, _ := frag.Get(js.KeyItems)
	for i := 0; i < rv.Len(); i++ {
		p := skema.IndexPath(path, i)
		ev := rv.Index(i).Interface()
		if i < len(prefix) {
			w.value(p, prefix[i], ev)
			continue
		}
		switch it := items.(type) {
		case *js.Schema:
			w.value(p, it, ev)
		case bool:
			if !it {
				w.fail(p, skema.TypeAdditionalItems, map[string]any{"count": len(prefix)})
			}
		}
	}
}

func (w *walker) fail(path, typ string, params map[string]any) {
	var data map[string]string
	if len(params) > 0 {
		data = make(map[string]string, len(params))
		for k, v := range params {
			data[k] = fmt.Sprint(v)
		}
	}
	w.errs = append(w.errs, skema.ErrorAt(path, typ, i18n.T(typ, data), params))
}

// nullableInner recognizes anyOf [T, {"type":"null"}].
func nullableInner(frag *js.Schema) (*js.Schema, bool) {
	members := frag.Children(js.KeyAnyOf)
	if len(members) != 2 {
		return nil, false
	}
	if t := members[1].Type(); len(t) == 1 && t[0] == "null" && members[1].Len() == 1 {
		return members[0], true
	}
	return nil, false
}

func scalarTypes(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t != "object" && t != "array" && t != "null" {
			out = append(out, t)
		}
	}
	if len(out) == 0 && has(types, "null") {
		out = append(out, "null")
	}
	return out
}

func has(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
