package validate

import (
	"math/big"
	"net/mail"
	"net/netip"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/google/uuid"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/internal/equality"
	js "github.com/reoring/skema/jsonschema"
)

// keywords applies the value keywords of frag to v when Options.Keywords is
// set. Kind-specific keywords only apply to values of that kind.
func (w *walker) keywords(path string, frag *js.Schema, v any) {
	if !w.opt.Keywords || frag == nil {
		return
	}
	if raw, ok := frag.Get(js.KeyEnum); ok {
		if vals, ok := list(raw); ok && !contains(vals, v) {
			w.fail(path, skema.TypeInclusion, nil)
		}
	}
	if c, ok := frag.Get(js.KeyConst); ok && !equality.Equal(c, v) {
		w.fail(path, skema.TypeEqualTo, map[string]any{"value": c})
	}
	if s, ok := text(v); ok {
		w.stringKeywords(path, frag, s)
	}
	if r, ok := ratOf(v); ok {
		w.numberKeywords(path, frag, r)
	}
	if isList(v) {
		w.arrayKeywords(path, frag, v)
	}
	if isObject(v) {
		w.objectKeywords(path, frag, v)
	}
	w.composition(path, frag, v)
}

func (w *walker) stringKeywords(path string, frag *js.Schema, s string) {
	n := utf8.RuneCountInString(s)
	if lo, ok := count(frag, js.KeyMinLength); ok && n < lo {
		w.fail(path, skema.TypeTooShort, map[string]any{"count": lo})
	}
	if hi, ok := count(frag, js.KeyMaxLength); ok && n > hi {
		w.fail(path, skema.TypeTooLong, map[string]any{"count": hi})
	}
	if p, ok := frag.Get(js.KeyPattern); ok {
		if ps, ok := p.(string); ok && !matchPattern(ps, s) {
			w.fail(path, skema.TypeInvalid, map[string]any{"pattern": ps})
		}
	}
	if f, ok := frag.Get(js.KeyFormat); ok {
		if fs, ok := f.(string); ok && !checkFormat(fs, s) {
			w.fail(path, skema.TypeInvalid, map[string]any{"format": fs})
		}
	}
}

func (w *walker) numberKeywords(path string, frag *js.Schema, r *big.Rat) {
	bound := func(key string) (*big.Rat, any, bool) {
		raw, ok := frag.Get(key)
		if !ok {
			return nil, nil, false
		}
		b, ok := ratOf(raw)
		return b, raw, ok
	}
	if b, raw, ok := bound(js.KeyMinimum); ok && r.Cmp(b) < 0 {
		w.fail(path, skema.TypeGreaterEqual, map[string]any{"count": raw})
	}
	if b, raw, ok := bound(js.KeyMaximum); ok && r.Cmp(b) > 0 {
		w.fail(path, skema.TypeLessEqual, map[string]any{"count": raw})
	}
	if b, raw, ok := bound(js.KeyExclusiveMinimum); ok && r.Cmp(b) <= 0 {
		w.fail(path, skema.TypeGreater, map[string]any{"count": raw})
	}
	if b, raw, ok := bound(js.KeyExclusiveMaximum); ok && r.Cmp(b) >= 0 {
		w.fail(path, skema.TypeLess, map[string]any{"count": raw})
	}
	if b, raw, ok := bound(js.KeyMultipleOf); ok && b.Sign() != 0 {
		if !new(big.Rat).Quo(r, b).IsInt() {
			w.fail(path, skema.TypeNotMultiple, map[string]any{"count": raw})
		}
	}
}

func (w *walker) arrayKeywords(path string, frag *js.Schema, v any) {
	vals, _ := list(v)
	if lo, ok := count(frag, js.KeyMinItems); ok && len(vals) < lo {
		w.fail(path, skema.TypeTooFewItems, map[string]any{"count": lo})
	}
	if hi, ok := count(frag, js.KeyMaxItems); ok && len(vals) > hi {
		w.fail(path, skema.TypeTooManyItems, map[string]any{"count": hi})
	}
	if u, _ := frag.Get(js.KeyUniqueItems); u == true {
		if _, _, dup := equality.FirstDuplicate(vals); dup {
			w.fail(path, skema.TypeNotUnique, nil)
		}
	}
}

// objectKeywords reports map keys outside "properties" when
// additionalProperties is false. Struct instances only expose declared
// fields and are not checked.
func (w *walker) objectKeywords(path string, frag *js.Schema, v any) {
	if ap, _ := frag.Get(js.KeyAdditionalProperties); ap != false {
		return
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return
	}
	props := frag.Properties()
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	for _, k := range keys {
		if props == nil || !props.Has(k) {
			w.fail(skema.JoinPath(path, k), skema.TypeUnknownKey, nil)
		}
	}
}

// composition checks allOf (every member), anyOf (at least one) and oneOf
// (exactly one). Members are probed in isolation; only allOf surfaces the
// member findings.
func (w *walker) composition(path string, frag *js.Schema, v any) {
	for _, m := range frag.Children(js.KeyAllOf) {
		w.errs = append(w.errs, w.probe(path, m, v)...)
	}
	if members := frag.Children(js.KeyAnyOf); len(members) > 0 {
		if matches(w, path, members, v, 1) == 0 {
			w.fail(path, skema.TypeNoMatch, nil)
		}
	}
	if members := frag.Children(js.KeyOneOf); len(members) > 0 {
		switch n := matches(w, path, members, v, 2); {
		case n == 0:
			w.fail(path, skema.TypeNoMatch, nil)
		case n > 1:
			w.fail(path, skema.TypeAmbiguous, nil)
		}
	}
}

// matches counts the members v satisfies, stopping at limit.
func matches(w *walker, path string, members []*js.Schema, v any, limit int) int {
	n := 0
	for _, m := range members {
		if len(w.probe(path, m, v)) == 0 {
			n++
			if n >= limit {
				break
			}
		}
	}
	return n
}

var patterns sync.Map // string -> *regexp2.Regexp, nil for invalid patterns

// matchPattern evaluates an ECMA-262 pattern. Invalid patterns match.
func matchPattern(pattern, s string) bool {
	var re *regexp2.Regexp
	if v, ok := patterns.Load(pattern); ok {
		re, _ = v.(*regexp2.Regexp)
	} else {
		re, _ = regexp2.Compile(pattern, regexp2.ECMAScript)
		patterns.Store(pattern, re)
	}
	if re == nil {
		return true
	}
	ok, err := re.MatchString(s)
	return err != nil || ok
}

var timeLayouts = []string{"15:04:05Z07:00", "15:04:05.999999999Z07:00", "15:04:05", "15:04:05.999999999"}

// checkFormat validates the formats the compiler emits plus a few common
// ones. Unknown formats are annotations and pass.
func checkFormat(format, s string) bool {
	switch format {
	case "date":
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	case "date-time":
		_, err := time.Parse(time.RFC3339Nano, s)
		return err == nil
	case "time":
		for _, l := range timeLayouts {
			if _, err := time.Parse(l, s); err == nil {
				return true
			}
		}
		return false
	case "email":
		a, err := mail.ParseAddress(s)
		return err == nil && a.Address == s
	case "uri":
		u, err := url.Parse(s)
		return err == nil && u.IsAbs()
	case "uuid":
		_, err := uuid.Parse(s)
		return err == nil && len(s) == 36
	case "ipv4":
		a, err := netip.ParseAddr(s)
		return err == nil && a.Is4()
	case "ipv6":
		a, err := netip.ParseAddr(s)
		return err == nil && a.Is6() && !strings.Contains(s, "%")
	}
	return true
}

// count reads a non-negative integer keyword.
func count(frag *js.Schema, key string) (int, bool) {
	raw, ok := frag.Get(key)
	if !ok {
		return 0, false
	}
	r, ok := ratOf(raw)
	if !ok || !r.IsInt() || r.Sign() < 0 || !r.Num().IsInt64() {
		return 0, false
	}
	return int(r.Num().Int64()), true
}

func contains(vals []any, v any) bool {
	for _, x := range vals {
		if equality.Equal(x, v) {
			return true
		}
	}
	return false
}

// list converts any slice or array to []any.
func list(v any) ([]any, bool) {
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
