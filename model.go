package skema

import js "github.com/reoring/skema/jsonschema"

// Model is a schema-bearing value: it has a name and a compiled schema
// document. compile.Model implements it; hosts may supply their own.
type Model interface {
	ModelName() string
	// JSONSchema returns the compiled document. Callers must not mutate it.
	JSONSchema() (*js.Schema, error)
}

// Validatable is implemented by instances that validate themselves. The
// structural validator delegates to it and re-keys the returned errors under
// the parent attribute.
type Validatable interface {
	ValidationErrors() Errors
}
