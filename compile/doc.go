// Package compile turns skema declarations into JSON Schema (Draft 2020-12)
// documents.
//
// Overview
//   - Compile(d): one document per declaration with title, description, type,
//     properties in declaration order, required, and the "$defs" it points at.
//   - CompileType(t, c): a single fragment for a type plus constraints.
//   - Definitions: the shared definitions map. Registration is an atomic
//     insert-if-absent; a different schema under a taken name is an error.
//   - Model: a declaration bound to a Compiler, usable wherever skema.Model is
//     expected (references, composition members, array elements).
//
// Constraints are checked against the table of legal keywords for the type
// category before any fragment is built, so no partial document is returned.
//
// File layout (roles)
//   - compiler.go: Compiler, session, document assembly and "$defs" emission.
//   - dispatch.go: category resolution, constraint checks, keyword mapping.
//   - scalar.go / array.go / object.go / composition.go: per-variant builders.
//   - definitions.go: the shared definitions map.
//   - model.go: cached compiled models.
//
// Example
//
//	user := skema.Define("User").
//		Field("name", skema.String(), skema.Constraints{"min_length": 1}).
//		Field("age", skema.Integer(), skema.Constraints{"minimum": 0}).Optional().
//		Build()
//	doc, err := compile.Compile(user)
//	if err != nil {
//		return err
//	}
//	b, _ := doc.JSONIndent("  ")
package compile
