package format

import (
	"strings"

	skema "github.com/reoring/skema"
)

// Problem is an RFC 7807 problem details document carrying the individual
// errors as an extension member.
type Problem struct {
	Type   string         `json:"type"`
	Title  string         `json:"title"`
	Status int            `json:"status"`
	Detail string         `json:"detail"`
	Errors []ProblemError `json:"errors"`
}

// ProblemError is one entry of Problem.Errors.
type ProblemError struct {
	Pointer string `json:"pointer"`
	Detail  string `json:"detail"`
	Code    string `json:"code,omitempty"`
}

// RFC7807 wraps the entries in a single problem document.
func RFC7807(entries skema.Errors, opts Options) Problem {
	p := Problem{
		Type:   ProblemType(opts.BaseURI, or(opts.TypeSuffix, DefaultTypeSuffix)),
		Title:  or(opts.ProblemTitle, DefaultProblemTitle),
		Status: or(opts.ProblemStatus, DefaultProblemStatus),
		Detail: or(opts.Detail, DefaultProblemDetail),
		Errors: make([]ProblemError, 0, len(entries)),
	}
	for _, e := range entries {
		p.Errors = append(p.Errors, ProblemError{Pointer: SchemaPointer(e.Attribute), Detail: e.Message, Code: opts.code(e.Type)})
	}
	return p
}

// ProblemType joins base and suffix. An empty base or "about:blank" yields
// the bare suffix.
func ProblemType(base, suffix string) string {
	if base == "" || base == "about:blank" {
		return suffix
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(suffix, "/")
}
