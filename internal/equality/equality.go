// Package equality canonicalizes values for JSON Schema equality. Numbers
// compare by mathematical value and objects independent of key order; values
// of different JSON types are never equal (true != 1).
package equality

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Keyer is implemented by ordered containers (jsonschema.Schema) that can
// expose their entries for canonicalization.
type Keyer interface {
	Keys() []string
	Get(key string) (any, bool)
}

// Equal reports whether a and b are equal under JSON Schema semantics.
func Equal(a, b any) bool { return Key(a) == Key(b) }

// FirstDuplicate returns the indexes of the first pair of equal values.
func FirstDuplicate(vals []any) (int, int, bool) {
	seen := make(map[string]int, len(vals))
	for i, v := range vals {
		k := Key(v)
		if j, ok := seen[k]; ok {
			return j, i, true
		}
		seen[k] = i
	}
	return 0, 0, false
}

// Key returns a canonical string for v. Two values share a key exactly when
// they are equal under JSON Schema semantics.
func Key(v any) string {
	var b strings.Builder
	writeKey(&b, v)
	return b.String()
}

func writeKey(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
		return
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
		return
	case string:
		b.WriteString("s:")
		b.WriteString(strconv.Quote(t))
		return
	case json.Number:
		writeNumber(b, numberRat(string(t)))
		return
	case jsonNumber:
		writeNumber(b, numberRat(t.String()))
		return
	case Keyer:
		keys := t.Keys()
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			val, _ := t.Get(k)
			writeKey(b, val)
		}
		b.WriteByte('}')
		return
	}
	if r, ok := ToRat(v); ok {
		writeNumber(b, r)
		return
	}
	if v, ok := stringer(v); ok {
		b.WriteString("s:")
		b.WriteString(strconv.Quote(v))
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		b.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			writeKey(b, rv.Index(i).Interface())
		}
		b.WriteByte(']')
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		vals := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, ok := stringer(iter.Key().Interface())
			if !ok {
				k = iter.Key().String()
			}
			keys = append(keys, k)
			vals[k] = iter.Value().Interface()
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			writeKey(b, vals[k])
		}
		b.WriteByte('}')
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			b.WriteString("null")
			return
		}
		writeKey(b, rv.Elem().Interface())
	case reflect.Bool:
		writeKey(b, rv.Bool())
	default:
		b.WriteString("?:")
		b.WriteString(strconv.Quote(rv.Type().String()))
	}
}

func writeNumber(b *strings.Builder, r *big.Rat) {
	if r == nil {
		b.WriteString("n:NaN")
		return
	}
	b.WriteString("n:")
	b.WriteString(r.RatString())
}

func stringer(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// jsonNumber matches number literal types of JSON decoders other than
// encoding/json.
type jsonNumber interface {
	Float64() (float64, error)
	Int64() (int64, error)
	String() string
}

func numberRat(s string) *big.Rat {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil
	}
	return r
}

// ToRat converts any Go numeric value (including json.Number and named
// numeric types) to an exact rational. Floats convert through their shortest
// decimal form, so 0.1 equals json.Number("0.1"). Non-finite floats and
// non-numbers report false.
func ToRat(v any) (*big.Rat, bool) {
	switch t := v.(type) {
	case json.Number:
		r := numberRat(string(t))
		return r, r != nil
	case jsonNumber:
		r := numberRat(t.String())
		return r, r != nil
	case *big.Rat:
		return t, t != nil
	case *big.Int:
		if t == nil {
			return nil, false
		}
		return new(big.Rat).SetInt(t), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Rat).SetInt64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(rv.Uint())), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		// the shortest decimal that round-trips, as a JSON encoder writes it
		return numberRat(strconv.FormatFloat(f, 'g', -1, rv.Type().Bits())), true
	}
	return nil, false
}
