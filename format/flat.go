package format

import skema "github.com/reoring/skema"

// FlatEntry keeps the dotted path unchanged.
type FlatEntry struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Flat returns [{field, message, code?}].
func Flat(entries skema.Errors, opts Options) []FlatEntry {
	out := make([]FlatEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, FlatEntry{Field: e.Attribute, Message: e.Message, Code: opts.code(e.Type)})
	}
	return out
}

// PointerEntry locates the error with a schema pointer.
type PointerEntry struct {
	Pointer string `json:"pointer"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// JSONPointer returns [{pointer, message, code?}].
func JSONPointer(entries skema.Errors, opts Options) []PointerEntry {
	out := make([]PointerEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, PointerEntry{Pointer: SchemaPointer(e.Attribute), Message: e.Message, Code: opts.code(e.Type)})
	}
	return out
}
