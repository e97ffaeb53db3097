package validate

import (
	"math/big"
	"reflect"
	"sync"
	"time"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/equality"
	js "github.com/reoring/skema/jsonschema"
)

var timeType = reflect.TypeOf(time.Time{})

// property resolves a named value from a map (string keys), a zero-argument
// accessor method named after the property, or a struct field. The second
// result reports whether the instance carries the property at all.
func property(v any, name string) (any, bool) {
	if m, ok := v.(map[string]any); ok {
		pv, ok := m[name]
		return pv, ok
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() == reflect.Map {
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	}
	if out, ok := accessor(rv, name); ok {
		return out, true
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	idx, ok := structKeys(rv.Type())[name]
	if !ok {
		return nil, false
	}
	fv, err := rv.FieldByIndexErr(idx)
	if err != nil {
		// nil embedded pointer
		return nil, false
	}
	return fv.Interface(), true
}

// accessor calls the exported method named after the property when it takes
// no arguments and returns one value. Pointer receivers are tried as well.
func accessor(rv reflect.Value, name string) (any, bool) {
	mname := skema.AccessorName(name)
	if mname == "" {
		return nil, false
	}
	m := rv.MethodByName(mname)
	if !m.IsValid() && rv.Kind() != reflect.Pointer && rv.CanAddr() {
		m = rv.Addr().MethodByName(mname)
	}
	if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() != 1 {
		return nil, false
	}
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false
	}
	return m.Call(nil)[0].Interface(), true
}

var keyCache sync.Map // reflect.Type -> map[string][]int

// structKeys maps property names to field indexes, following
// skema.ResolveStructKey. Promoted fields of embedded structs are included.
func structKeys(t reflect.Type) map[string][]int {
	if v, ok := keyCache.Load(t); ok {
		return v.(map[string][]int)
	}
	keys := map[string][]int{}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || (sf.Anonymous && sf.Type.Kind() == reflect.Struct) {
			continue
		}
		k := skema.ResolveStructKey(sf)
		if k == "-" {
			continue
		}
		if _, dup := keys[k]; dup && len(sf.Index) > 1 {
			// the outer field shadows the promoted one
			continue
		}
		keys[k] = sf.Index
	}
	v, _ := keyCache.LoadOrStore(t, keys)
	return v.(map[string][]int)
}

// indirect dereferences pointers and interfaces; nil pointers become nil.
func indirect(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
		return v
	}
	if _, ok := v.(*big.Rat); ok {
		return v
	}
	if _, ok := v.(*big.Int); ok {
		return v
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// isObject reports string-keyed maps and structs other than time.Time.
func isObject(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return rv.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		return rv.Type() != timeType && !isNumber(v)
	}
	return false
}

// isList reports slices and arrays; []byte is text, as in encoding/json.
func isList(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Type().Elem().Kind() != reflect.Uint8
	}
	return false
}

// text returns the string form of textual values.
func text(v any) (string, bool) {
	if isNumber(v) {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// isNumber reports numeric values. Booleans are not numbers; json.Number is.
func isNumber(v any) bool {
	if _, ok := v.(bool); ok {
		return false
	}
	_, ok := equality.ToRat(v)
	return ok
}

// kindMatches compares the runtime kind of v with one scalar JSON type.
// time.Time counts as a string where the fragment carries a date or time
// format.
func kindMatches(typ string, v any, frag *js.Schema) bool {
	switch typ {
	case "string":
		if _, ok := text(v); ok {
			return true
		}
		if _, ok := v.(time.Time); ok {
			f, _ := frag.Get(js.KeyFormat)
			switch f {
			case "date", "date-time", "time":
				return true
			}
		}
		return false
	case "integer":
		r, ok := ratOf(v)
		return ok && r.IsInt()
	case "number":
		return isNumber(v)
	case "boolean":
		return reflect.ValueOf(v).Kind() == reflect.Bool
	case "null":
		return v == nil
	}
	return false
}

func ratOf(v any) (*big.Rat, bool) {
	if _, ok := v.(bool); ok {
		return nil, false
	}
	return equality.ToRat(v)
}
