package format

import skema "github.com/reoring/skema"

// JSONAPIDocument is a JSON:API top-level errors document.
type JSONAPIDocument struct {
	Errors []JSONAPIError `json:"errors"`
}

// JSONAPIError is one JSON:API error object.
type JSONAPIError struct {
	Status string        `json:"status"`
	Code   string        `json:"code,omitempty"`
	Source JSONAPISource `json:"source"`
	Title  string        `json:"title"`
	Detail string        `json:"detail"`
}

// JSONAPISource points at the offending member of the request document.
type JSONAPISource struct {
	Pointer string `json:"pointer"`
}

// JSONAPI returns {errors: [{status, code?, source: {pointer}, title, detail}]}.
// The pointer is Options.Prefix followed by the path tokens; detail is the
// full message.
func JSONAPI(entries skema.Errors, opts Options) JSONAPIDocument {
	prefix := or(opts.Prefix, DefaultPrefix)
	status := or(opts.Status, DefaultStatus)
	title := or(opts.Title, DefaultTitle)
	doc := JSONAPIDocument{Errors: make([]JSONAPIError, 0, len(entries))}
	for _, e := range entries {
		doc.Errors = append(doc.Errors, JSONAPIError{
			Status: status,
			Code:   opts.code(e.Type),
			Source: JSONAPISource{Pointer: DataPointer(prefix, e.Attribute)},
			Title:  title,
			Detail: e.FullMessage(),
		})
	}
	return doc
}
