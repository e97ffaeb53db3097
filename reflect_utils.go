package skema

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// property name used by the validator when walking native records.
// Priority: skema:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if st := sf.Tag.Get("skema"); st != "" {
		for _, p := range strings.Split(st, ",") {
			p = strings.TrimSpace(p)
			if p == "-" {
				return "-"
			}
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] != "" {
				return jt[:i]
			}
			return sf.Name
		}
		return jt
	}
	return sf.Name
}

// AccessorName returns the exported Go method name for a property:
// "email" -> "Email", "first_name" -> "FirstName".
func AccessorName(property string) string {
	var b strings.Builder
	upper := true
	for _, r := range property {
		if r == '_' || r == '-' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	s := b.String()
	if r, _ := utf8.DecodeRuneInString(s); !unicode.IsUpper(r) {
		return ""
	}
	return s
}
