// Package format renders validation errors for external consumers: a flat
// field list, JSON Pointer entries, a JSON:API errors document and an
// RFC 7807 problem document.
//
// Every formatter is a pure function of the entries and Options. Codes are
// attached only with Options.IncludeCodes and only for recognized type tags.
package format

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	skema "github.com/reoring/skema"
)

// Kind names an output format.
type Kind string

const (
	KindFlat        Kind = "flat"
	KindJSONPointer Kind = "json_pointer"
	KindJSONAPI     Kind = "jsonapi"
	KindRFC7807     Kind = "rfc7807"
)

// Defaults used when the matching Options field is empty.
const (
	DefaultPrefix        = "/data/attributes"
	DefaultStatus        = "422"
	DefaultTitle         = "Invalid Attribute"
	DefaultTypeSuffix    = "validation-error"
	DefaultProblemTitle  = "Validation Failed"
	DefaultProblemStatus = 422
	DefaultProblemDetail = "The request contains invalid parameters"
)

// ErrUnknownKind is returned by Format for a Kind it does not know.
var ErrUnknownKind = errors.New("format: unknown kind")

// Options tunes the formatters. Zero fields take the defaults above.
type Options struct {
	// IncludeCodes adds machine-readable codes derived from the type tag.
	IncludeCodes bool

	// JSON:API
	Prefix string // pointer prefix, e.g. "/data/attributes"
	Status string
	Title  string

	// RFC 7807
	BaseURI       string // "", or "about:blank", yields the bare suffix as type
	TypeSuffix    string
	ProblemTitle  string
	ProblemStatus int
	Detail        string
}

// Format dispatches to the formatter of kind.
func Format(entries skema.Errors, kind Kind, opts Options) (any, error) {
	switch kind {
	case KindFlat:
		return Flat(entries, opts), nil
	case KindJSONPointer:
		return JSONPointer(entries, opts), nil
	case KindJSONAPI:
		return JSONAPI(entries, opts), nil
	case KindRFC7807:
		return RFC7807(entries, opts), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownKind, string(kind))
}

// JSON formats entries and encodes the result.
func JSON(entries skema.Errors, kind Kind, opts Options) ([]byte, error) {
	v, err := Format(entries, kind, opts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (o Options) code(typ string) string {
	if !o.IncludeCodes {
		return ""
	}
	c, _ := Code(typ)
	return c
}

func or[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
