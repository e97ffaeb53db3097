package format

import (
	"strings"

	skema "github.com/reoring/skema"
)

// Tokens splits a dotted attribute path into RFC 6901 reference tokens:
// "items[2].id" yields "items", "2", "id".
func Tokens(attr string) []string {
	segs := skema.SplitPath(attr)
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Token()
	}
	return out
}

// SchemaPointer locates an attribute in the compiled document: every name
// is prefixed with "/properties/", indexes are appended as they are.
// "email.address" becomes "/properties/email/properties/address".
func SchemaPointer(attr string) string {
	var b strings.Builder
	for _, s := range skema.SplitPath(attr) {
		if !s.IsIndex {
			b.WriteString("/properties")
		}
		b.WriteByte('/')
		b.WriteString(s.Token())
	}
	return b.String()
}

// DataPointer joins the tokens of attr under prefix.
func DataPointer(prefix, attr string) string {
	prefix = strings.TrimRight(prefix, "/")
	toks := Tokens(attr)
	if len(toks) == 0 {
		return prefix
	}
	return prefix + "/" + strings.Join(toks, "/")
}
