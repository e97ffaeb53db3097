// Package constraint holds the static table of constraint keywords legal per
// type category.
package constraint

import (
	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// Entry maps a constraint option name to its JSON Schema keyword.
type Entry struct {
	Option  string
	Keyword string
}

var (
	title       = Entry{"title", js.KeyTitle}
	description = Entry{"description", js.KeyDescription}
	typ         = Entry{"type", js.KeyType}
	enum        = Entry{"enum", js.KeyEnum}
	constant    = Entry{"const", js.KeyConst}
	def         = Entry{"default", js.KeyDefault}
)

// universal is legal for every category.
var universal = []Entry{typ, title, description, enum, constant, def}

var stringEntries = []Entry{
	{"format", js.KeyFormat},
	{"pattern", js.KeyPattern},
	{"min_length", js.KeyMinLength},
	{"max_length", js.KeyMaxLength},
}

var numericEntries = []Entry{
	{"minimum", js.KeyMinimum},
	{"maximum", js.KeyMaximum},
	{"exclusive_minimum", js.KeyExclusiveMinimum},
	{"exclusive_maximum", js.KeyExclusiveMaximum},
	{"multiple_of", js.KeyMultipleOf},
}

var arrayEntries = []Entry{
	{"min_items", js.KeyMinItems},
	{"max_items", js.KeyMaxItems},
	{"unique_items", js.KeyUniqueItems},
}

var byCategory = map[skema.Category][]Entry{
	skema.CategoryString:  stringEntries,
	skema.CategoryInteger: numericEntries,
	skema.CategoryNumber:  numericEntries,
	skema.CategoryArray:   arrayEntries,
	skema.CategoryTuple:   arrayEntries,
}

// Lookup resolves key, spelled either as the option name or as the JSON
// Schema keyword, against the entries legal for cat.
func Lookup(cat skema.Category, key string) (Entry, bool) {
	for _, e := range byCategory[cat] {
		if e.Option == key || e.Keyword == key {
			return e, true
		}
	}
	return LookupUniversal(key)
}

// LookupUniversal resolves key against the universally legal entries.
func LookupUniversal(key string) (Entry, bool) {
	for _, e := range universal {
		if e.Option == key || e.Keyword == key {
			return e, true
		}
	}
	return Entry{}, false
}

// PropertyOption reports whether key is a property-level option that is
// consumed by the assembler rather than emitted. "ref" is only meaningful for
// object-valued properties.
func PropertyOption(cat skema.Category, key string) bool {
	switch key {
	case skema.OptOptional:
		return true
	case skema.OptRef:
		return cat == skema.CategoryObject
	}
	return false
}

// Order returns the emission order of keywords for cat. "type" is written by
// the builders and is not part of the list.
func Order(cat skema.Category) []Entry {
	out := make([]Entry, 0, 2+len(byCategory[cat])+3)
	out = append(out, title, description)
	out = append(out, byCategory[cat]...)
	out = append(out, enum, constant, def)
	return out
}

// Legal returns the option names legal for cat, universal ones included.
func Legal(cat skema.Category) []string {
	out := make([]string, 0, len(universal)+len(byCategory[cat]))
	for _, e := range universal {
		out = append(out, e.Option)
	}
	for _, e := range byCategory[cat] {
		out = append(out, e.Option)
	}
	return out
}
