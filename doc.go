// Package skema compiles declarative property descriptors into JSON Schema
// documents and validates data against them.
//
// The package provides:
//
//   - A closed set of semantic types (Scalar, ModelRef, Array, Tuple, Composition, Nullable)
//   - Declarations: an ordered list of properties with constraint options
//   - A stable error model via Errors (dotted attribute path, type tag, message)
//   - The Model and Validatable capabilities consumed by the compiler and the validator
//
// Design policy:
//   - Keep only public types in the root package; implementations live in subpackages.
//   - Place the compiler under compile/, the structural validator under validate/,
//     and the error renderers under format/. The schema tree lives in jsonschema/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := skema.Define("User").
//	    Field("name", skema.String(), nil).
//	    Field("age", skema.Integer(), skema.Constraints{"minimum": 0}).Optional().
//	    Build()
//
//	doc, err := compile.Compile(user)
//	errs := validate.Validate(doc, map[string]any{"name": 5})
//	out := format.JSONAPI(errs, format.Options{IncludeCodes: true})
package skema
