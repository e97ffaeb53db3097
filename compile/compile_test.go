package compile_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/compile"
	js "github.com/reoring/skema/jsonschema"
)

// normalize marshals v to JSON and unmarshals back into interface{} to remove ordering effects.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	_ = json.Unmarshal(b, &out)
	return out
}

func mustJSON(t *testing.T, s *js.Schema) string {
	t.Helper()
	b, err := s.JSON()
	if err != nil {
		t.Fatalf("JSON err: %v", err)
	}
	return string(b)
}

func userDecl() *skema.Declaration {
	return skema.Define("User").
		Title("User").
		Description("A registered user").
		Field("name", skema.String(), skema.Constraints{"min_length": 1, "max_length": 64}).
		Field("age", skema.Integer(), skema.Constraints{"minimum": 0}).Optional().
		Field("email", skema.String(), skema.Constraints{"format": "email"}).
		Build()
}

func TestCompile_Document(t *testing.T) {
	doc, err := compile.Compile(userDecl())
	if err != nil {
		t.Fatalf("Compile err: %v", err)
	}
	want := `{"title":"User","description":"A registered user","type":"object","properties":{` +
		`"name":{"type":"string","minLength":1,"maxLength":64},` +
		`"age":{"type":"integer","minimum":0},` +
		`"email":{"type":"string","format":"email"}},` +
		`"required":["name","email"]}`
	if got := mustJSON(t, doc); got != want {
		t.Fatalf("document mismatch\n got=%s\nwant=%s", got, want)
	}
	if err := js.Check(doc); err != nil {
		t.Fatalf("compiled document rejected: %v", err)
	}
}

func TestCompile_BlankMetadataOmittedAndRequiredAlwaysPresent(t *testing.T) {
	d := skema.Define("Empty").Field("note", skema.String(), nil).Optional().Build()
	doc, err := compile.Compile(d)
	if err != nil {
		t.Fatalf("Compile err: %v", err)
	}
	want := `{"type":"object","properties":{"note":{"type":"string"}},"required":[]}`
	if got := mustJSON(t, doc); got != want {
		t.Fatalf("document mismatch\n got=%s\nwant=%s", got, want)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	a, err := compile.Compile(userDecl())
	if err != nil {
		t.Fatalf("Compile err: %v", err)
	}
	b, err := compile.Compile(userDecl())
	if err != nil {
		t.Fatalf("Compile err: %v", err)
	}
	ab, _ := a.JSONIndent("  ")
	bb, _ := b.JSONIndent("  ")
	if !bytes.Equal(ab, bb) {
		t.Fatalf("identical declarations produced different bytes\n%s\n%s", ab, bb)
	}
}

func TestCompileType_LegalConstraintsEmitMappedKeywords(t *testing.T) {
	cases := []struct {
		name string
		typ  skema.Type
		c    skema.Constraints
		want map[string]any
	}{
		{"string", skema.String(), skema.Constraints{"pattern": "^[a-z]+$", "minLength": 2, "enum": []string{"ab", "cd"}},
			map[string]any{"type": "string", "pattern": "^[a-z]+$", "minLength": 2, "enum": []string{"ab", "cd"}}},
		{"number", skema.Number(), skema.Constraints{"exclusive_minimum": 0, "exclusive_maximum": 10, "multiple_of": 0.5, "default": 1},
			map[string]any{"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 10, "multipleOf": 0.5, "default": 1}},
		{"boolean", skema.Boolean(), skema.Constraints{"title": "Flag", "const": true},
			map[string]any{"type": "boolean", "title": "Flag", "const": true}},
		{"null", skema.Null(), nil, map[string]any{"type": "null"}},
		{"array", skema.ArrayOf(skema.Integer()), skema.Constraints{"min_items": 1, "max_items": 3, "unique_items": true},
			map[string]any{"type": "array", "items": map[string]any{"type": "integer"}, "minItems": 1, "maxItems": 3, "uniqueItems": true}},
		{"type override", skema.String(), skema.Constraints{"type": []string{"string", "number"}},
			map[string]any{"type": []string{"string", "number"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frag, err := compile.CompileType(tc.typ, tc.c)
			if err != nil {
				t.Fatalf("CompileType err: %v", err)
			}
			if got, want := normalize(frag), normalize(tc.want); !reflect.DeepEqual(got, want) {
				t.Fatalf("fragment mismatch\n got=%v\nwant=%v", got, want)
			}
		})
	}
}

func TestCompile_UnsupportedConstraintNamesKeyword(t *testing.T) {
	d := skema.Define("User").Field("age", skema.Integer(), skema.Constraints{"min_length": 3}).Build()
	_, err := compile.Compile(d)
	if !errors.Is(err, skema.ErrUnsupportedConstraint) {
		t.Fatalf("expected ErrUnsupportedConstraint, got %v", err)
	}
	ce, ok := skema.AsCompileError(err)
	if !ok || ce.Keyword != "min_length" || ce.Property != "age" || ce.Type != "integer" {
		t.Fatalf("unexpected compile error: %+v", ce)
	}
	want := `skema: unsupported constraint "min_length" for type integer on property "age"`
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestCompile_UnsupportedType(t *testing.T) {
	d := skema.Define("X").Field("a", nil, nil).Build()
	if _, err := compile.Compile(d); !errors.Is(err, skema.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if _, err := compile.CompileType(skema.Scalar{Kind: skema.Kind(99)}, nil); !errors.Is(err, skema.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for unknown kind, got %v", err)
	}
	if _, err := compile.CompileType(skema.ArrayOf(nil), nil); !errors.Is(err, skema.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for array without element, got %v", err)
	}
}

func TestCompile_InvalidConstraintValues(t *testing.T) {
	cases := []skema.Constraints{
		{"enum": []any{1, 1.0}},
		{"enum": []any{map[string]any{"a": 1, "b": 2}, map[string]any{"b": 2, "a": 1}}},
		{"enum": "not-a-list"},
		{"const": []any{"x", "x"}},
	}
	for _, c := range cases {
		if _, err := compile.CompileType(skema.Number(), c); !errors.Is(err, skema.ErrInvalidConstraintValue) {
			t.Fatalf("expected ErrInvalidConstraintValue for %v, got %v", c, err)
		}
	}
	if _, err := compile.CompileType(skema.Number(), skema.Constraints{"enum": []any{true, 1}}); err != nil {
		t.Fatalf("true and 1 are distinct, got %v", err)
	}
}

func TestCompileType_Tuple(t *testing.T) {
	cases := []struct {
		name string
		typ  skema.Type
		want string
	}{
		{"disallowed", skema.TupleOf(skema.AdditionalDisallowed, skema.String(), skema.Integer()),
			`{"type":"array","prefixItems":[{"type":"string"},{"type":"integer"}],"items":false}`},
		{"any", skema.TupleOf(skema.AdditionalAny, skema.Number()),
			`{"type":"array","prefixItems":[{"type":"number"}],"items":true}`},
		{"typed", skema.TupleOf(skema.AdditionalTyped(skema.Boolean()), skema.String()),
			`{"type":"array","prefixItems":[{"type":"string"}],"items":{"type":"boolean"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frag, err := compile.CompileType(tc.typ, nil)
			if err != nil {
				t.Fatalf("CompileType err: %v", err)
			}
			if got := mustJSON(t, frag); got != tc.want {
				t.Fatalf("tuple mismatch\n got=%s\nwant=%s", got, tc.want)
			}
		})
	}
	if _, err := compile.CompileType(skema.TupleOf(skema.AdditionalAny), nil); !errors.Is(err, skema.ErrEmptyTuple) {
		t.Fatalf("expected ErrEmptyTuple, got %v", err)
	}
}

func TestCompileType_DateFormatWins(t *testing.T) {
	cases := []struct {
		typ  skema.Type
		want string
	}{
		{skema.Date(), "date"},
		{skema.DateTime(), "date-time"},
		{skema.Time(), "time"},
	}
	for _, tc := range cases {
		frag, err := compile.CompileType(tc.typ, skema.Constraints{"format": "email", "min_length": 1})
		if err != nil {
			t.Fatalf("CompileType err: %v", err)
		}
		want := `{"type":"string","minLength":1,"format":"` + tc.want + `"}`
		if got := mustJSON(t, frag); got != want {
			t.Fatalf("date fragment mismatch\n got=%s\nwant=%s", got, want)
		}
	}
}

func TestCompileType_Nullable(t *testing.T) {
	frag, err := compile.CompileType(skema.NullableOf(skema.String()), skema.Constraints{"max_length": 3})
	if err != nil {
		t.Fatalf("CompileType err: %v", err)
	}
	if got, want := mustJSON(t, frag), `{"type":["string","null"],"maxLength":3}`; got != want {
		t.Fatalf("nullable scalar mismatch\n got=%s\nwant=%s", got, want)
	}

	frag, err = compile.CompileType(skema.NullableOf(skema.ArrayOf(skema.String())), nil)
	if err != nil {
		t.Fatalf("CompileType err: %v", err)
	}
	want := `{"anyOf":[{"type":"array","items":{"type":"string"}},{"type":"null"}]}`
	if got := mustJSON(t, frag); got != want {
		t.Fatalf("nullable array mismatch\n got=%s\nwant=%s", got, want)
	}
}

func addressModel() *compile.Model {
	return compile.NewModel(skema.Define("Address").
		Field("street", skema.String(), nil).
		Field("zip", skema.String(), skema.Constraints{"pattern": "^[0-9]{5}$"}).
		Build())
}

func TestCompile_CompositionSharesOneDefinition(t *testing.T) {
	addr := addressModel()
	d := skema.Define("Customer").
		Field("billing", skema.AnyOf(skema.Ref(addr), skema.String()), nil).
		Field("shipping", skema.OneOf(skema.Ref(addr), skema.Null()), nil).
		Build()
	doc, err := compile.Compile(d)
	if err != nil {
		t.Fatalf("Compile err: %v", err)
	}
	defs := doc.Defs()
	if defs == nil || defs.Len() != 1 || !defs.Has("Address") {
		t.Fatalf("expected exactly one Address definition, got %v", defs.Keys())
	}
	props := doc.Properties()
	billing := props.Child("billing").Children("anyOf")
	shipping := props.Child("shipping").Children("oneOf")
	if billing[0].Ref() != "#/$defs/Address" || shipping[0].Ref() != "#/$defs/Address" {
		t.Fatalf("expected two $ref pointers, got %q and %q", billing[0].Ref(), shipping[0].Ref())
	}
	if props.Child("billing").Has("required") {
		t.Fatalf("composition must not add a required list")
	}
	if err := js.Check(doc); err != nil {
		t.Fatalf("compiled document rejected: %v", err)
	}
}

func TestCompile_ArrayOfModelUsesRef(t *testing.T) {
	item := compile.NewModel(skema.Define("Item").Field("id", skema.Integer(), nil).Build())
	d := skema.Define("Order").Field("items", skema.ArrayOf(skema.Ref(item)), skema.Constraints{"min_items": 1}).Build()
	doc, err := compile.Compile(d)
	if err != nil {
		t.Fatalf("Compile err: %v", err)
	}
	want := `{"type":"object","properties":{"items":{"type":"array","items":{"$ref":"#/$defs/Item"},"minItems":1}},` +
		`"required":["items"],"$defs":{"Item":{"type":"object","properties":{"id":{"type":"integer"}},"required":["id"]}}}`
	if got := mustJSON(t, doc); got != want {
		t.Fatalf("document mismatch\n got=%s\nwant=%s", got, want)
	}
}

func TestCompile_EmbeddedModelHoistsDefinitions(t *testing.T) {
	item := compile.NewModel(skema.Define("Item").Field("id", skema.Integer(), nil).Build())
	order := compile.NewModel(skema.Define("Order").Field("items", skema.ArrayOf(skema.Ref(item)), nil).Build())
	d := skema.Define("Customer").
		Field("last_order", skema.Ref(order), nil).
		Field("address", skema.Ref(addressModel()), skema.Constraints{"ref": true, "description": "Home"}).
		Build()
	doc, err := compile.Compile(d)
	if err != nil {
		t.Fatalf("Compile err: %v", err)
	}
	lastOrder := doc.Properties().Child("last_order")
	if lastOrder.Has("$defs") {
		t.Fatalf("embedded model kept its own $defs")
	}
	if lastOrder.Child("properties").Child("items").Child("items").Ref() != "#/$defs/Item" {
		t.Fatalf("embedded array lost its $ref")
	}
	addr := doc.Properties().Child("address")
	if addr.Ref() != "#/$defs/Address" {
		t.Fatalf("ref option ignored: %s", mustJSON(t, addr))
	}
	if v, _ := addr.Get("description"); v != "Home" {
		t.Fatalf("description not kept next to $ref")
	}
	if keys := doc.Defs().Keys(); !reflect.DeepEqual(keys, []string{"Item", "Address"}) {
		t.Fatalf("$defs keys = %v", keys)
	}
	if err := js.Check(doc); err != nil {
		t.Fatalf("compiled document rejected: %v", err)
	}
}

func TestCompile_RecursiveDeclaration(t *testing.T) {
	node := &skema.Declaration{Name: "Node"}
	node.Properties = []skema.Property{
		{Name: "value", Type: skema.String()},
		{Name: "children", Type: skema.ArrayOf(skema.ObjectOf(node)), Optional: true},
	}
	doc, err := compile.Compile(node)
	if err != nil {
		t.Fatalf("Compile err: %v", err)
	}
	if doc.Properties().Child("children").Child("items").Ref() != "#/$defs/Node" {
		t.Fatalf("recursive element not emitted as $ref: %s", mustJSON(t, doc))
	}
	if !doc.Defs().Has("Node") {
		t.Fatalf("recursive declaration not registered")
	}
	if err := js.Check(doc); err != nil {
		t.Fatalf("compiled document rejected: %v", err)
	}
}

func TestCompile_InvalidCompositionMember(t *testing.T) {
	cases := []skema.Type{
		skema.AnyOf(),
		skema.OneOf(skema.String(), skema.ModelRef{}),
		skema.AllOf(nil),
	}
	for _, typ := range cases {
		if _, err := compile.CompileType(typ, nil); !errors.Is(err, skema.ErrInvalidCompositionMember) {
			t.Fatalf("expected ErrInvalidCompositionMember for %v, got %v", typ, err)
		}
	}
}

func TestCompile_ConflictingDefinition(t *testing.T) {
	defs := compile.NewDefinitions()
	c := compile.New(compile.Options{Definitions: defs})
	a := compile.NewModel(skema.Define("Item").Field("id", skema.Integer(), nil).Build())
	b := compile.NewModel(skema.Define("Item").Field("id", skema.String(), nil).Build())

	if _, err := c.CompileType(skema.AnyOf(skema.Ref(a)), nil); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := c.CompileType(skema.AnyOf(skema.Ref(a)), nil); err != nil {
		t.Fatalf("identical registration must be a no-op: %v", err)
	}
	_, err := c.CompileType(skema.AnyOf(skema.Ref(b)), nil)
	if !errors.Is(err, skema.ErrConflictingDefinition) {
		t.Fatalf("expected ErrConflictingDefinition, got %v", err)
	}
	if defs.Len() != 1 {
		t.Fatalf("definitions = %v", defs.Names())
	}
}

func TestDefinitions_ConcurrentRegister(t *testing.T) {
	defs := compile.NewDefinitions()
	c := compile.New(compile.Options{Definitions: defs})
	addr := addressModel()
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := skema.Define("Customer").Field("home", skema.AnyOf(skema.Ref(addr)), nil).Build()
			if _, err := c.Compile(d); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent compile failed: %v", err)
	}
	if defs.Len() != 1 {
		t.Fatalf("expected one shared definition, got %v", defs.Names())
	}
}

func TestModel_CachesAndCopies(t *testing.T) {
	m := addressModel()
	a, err := m.JSONSchema()
	if err != nil {
		t.Fatalf("JSONSchema err: %v", err)
	}
	a.Set("title", "mutated")
	b, _ := m.JSONSchema()
	if b.Has("title") {
		t.Fatalf("callers must receive a copy of the cached document")
	}
	if m.ModelName() != "Address" {
		t.Fatalf("ModelName = %q", m.ModelName())
	}
}
