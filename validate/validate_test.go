package validate_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/compile"
	js "github.com/reoring/skema/jsonschema"
	"github.com/reoring/skema/validate"
)

func mustCompile(t *testing.T, d *skema.Declaration) *js.Schema {
	t.Helper()
	doc, err := compile.Compile(d)
	if err != nil {
		t.Fatalf("Compile err: %v", err)
	}
	return doc
}

func attrs(es skema.Errors) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Attribute
	}
	return out
}

func nameDecl() *skema.Declaration {
	return skema.Define("Person").Field("name", skema.String(), nil).Build()
}

func TestValidate_ScalarTypes(t *testing.T) {
	doc := mustCompile(t, nameDecl())

	if errs := validate.Validate(doc, map[string]any{"name": "Lee"}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := validate.Validate(doc, map[string]any{"name": 5})
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	e := errs[0]
	if e.Attribute != "name" || e.Message != "is not a valid string" || e.Type != skema.TypeInvalidType {
		t.Fatalf("unexpected error: %+v", e)
	}
	if e.FullMessage() != "Name is not a valid string" {
		t.Fatalf("FullMessage = %q", e.FullMessage())
	}
}

func TestValidate_RuntimeKinds(t *testing.T) {
	d := skema.Define("Kinds").
		Field("i", skema.Integer(), nil).
		Field("n", skema.Number(), nil).
		Field("b", skema.Boolean(), nil).
		Field("z", skema.Null(), nil).
		Build()
	doc := mustCompile(t, d)

	ok := map[string]any{"i": 3.0, "n": json.Number("1.25"), "b": false, "z": nil}
	if errs := validate.Validate(doc, ok); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	bad := map[string]any{"i": 3.5, "n": true, "b": "true", "z": 0}
	errs := validate.Validate(doc, bad)
	if got, want := attrs(errs), []string{"i", "n", "b", "z"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("attributes = %v, want %v", got, want)
	}
	if errs[0].Message != "is not a valid integer" || errs[1].Message != "is not a valid number" {
		t.Fatalf("unexpected messages: %v", errs.FullMessages())
	}
}

func TestValidate_Exhaustive(t *testing.T) {
	d := skema.Define("User").
		Field("name", skema.String(), nil).
		Field("age", skema.Integer(), nil).
		Field("admin", skema.Boolean(), nil).
		Build()
	doc := mustCompile(t, d)
	errs := validate.Validate(doc, map[string]any{"name": 1, "age": "old", "admin": true})
	if got, want := attrs(errs), []string{"name", "age"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("attributes = %v, want %v", got, want)
	}
}

func TestValidate_AbsenceIsNotAnError(t *testing.T) {
	doc := mustCompile(t, nameDecl())
	if errs := validate.Validate(doc, map[string]any{}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := validate.Validate(doc, map[string]any{"name": nil}, validate.Options{Required: true})
	if len(errs) != 1 || errs[0].Type != skema.TypeBlank || errs[0].Message != "can't be blank" {
		t.Fatalf("expected a blank error, got %v", errs)
	}
}

func TestValidate_ArrayOfModelPaths(t *testing.T) {
	item := compile.NewModel(skema.Define("Item").Field("id", skema.Integer(), nil).Build())
	doc := mustCompile(t, skema.Define("Order").Field("items", skema.ArrayOf(skema.Ref(item)), nil).Build())

	in := map[string]any{"items": []any{
		map[string]any{"id": 1},
		map[string]any{"id": "x"},
		map[string]any{"id": 2},
		map[string]any{"id": false},
	}}
	errs := validate.Validate(doc, in)
	if got, want := attrs(errs), []string{"items[1].id", "items[3].id"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("attributes = %v, want %v", got, want)
	}
}

func TestValidate_NestedObjectsAndNonMaps(t *testing.T) {
	addr := compile.NewModel(skema.Define("Address").Field("zip", skema.String(), nil).Build())
	doc := mustCompile(t, skema.Define("Customer").Field("address", skema.Ref(addr), nil).Build())

	errs := validate.Validate(doc, map[string]any{"address": map[string]any{"zip": 12345}})
	if got := attrs(errs); !reflect.DeepEqual(got, []string{"address.zip"}) {
		t.Fatalf("attributes = %v", got)
	}
	// a non-map value for an object property is accepted
	if errs := validate.Validate(doc, map[string]any{"address": "somewhere"}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

type selfChecked struct{ zip string }

func (s selfChecked) ValidationErrors() skema.Errors {
	if s.zip == "" {
		return skema.Errors{{Attribute: "zip", Message: "can't be blank", Type: skema.TypeBlank}}
	}
	return nil
}

func TestValidate_DelegatesToValidatable(t *testing.T) {
	addr := compile.NewModel(skema.Define("Address").Field("zip", skema.String(), nil).Build())
	doc := mustCompile(t, skema.Define("Customer").Field("address", skema.Ref(addr), nil).Build())

	errs := validate.Validate(doc, map[string]any{"address": selfChecked{}})
	if len(errs) != 1 || errs[0].Attribute != "address.zip" || errs[0].Type != skema.TypeBlank {
		t.Fatalf("expected rebased child error, got %v", errs)
	}
	if errs := validate.Validate(doc, map[string]any{"address": selfChecked{zip: "12345"}}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

type account struct {
	Login   string `json:"login"`
	Age     any    `skema:"name=age"`
	Ignored int    `json:"-"`
	inner   int
}

type withAccessor struct{}

func (withAccessor) Name() any { return 42 }

func TestValidate_NativeRecords(t *testing.T) {
	d := skema.Define("Account").
		Field("login", skema.String(), nil).
		Field("age", skema.Integer(), nil).
		Build()
	doc := mustCompile(t, d)

	errs := validate.Validate(doc, &account{Login: "lee", Age: "ten"})
	if got := attrs(errs); !reflect.DeepEqual(got, []string{"age"}) {
		t.Fatalf("attributes = %v", got)
	}
	if errs := validate.Validate(doc, account{Login: "lee", Age: 10}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs = validate.Validate(mustCompile(t, nameDecl()), withAccessor{})
	if got := attrs(errs); !reflect.DeepEqual(got, []string{"name"}) {
		t.Fatalf("accessor value not checked: %v", got)
	}
}

func TestValidate_Tuple(t *testing.T) {
	d := skema.Define("Point").
		Field("pair", skema.TupleOf(skema.AdditionalDisallowed, skema.String(), skema.Integer()), nil).
		Field("tail", skema.TupleOf(skema.AdditionalTyped(skema.Boolean()), skema.String()), nil).
		Build()
	doc := mustCompile(t, d)
	in := map[string]any{
		"pair": []any{"x", 1, "extra"},
		"tail": []any{"a", true, "nope"},
	}
	errs := validate.Validate(doc, in)
	if got, want := attrs(errs), []string{"pair[2]", "tail[2]"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("attributes = %v, want %v", got, want)
	}
	if errs[0].Type != skema.TypeAdditionalItems || errs[1].Type != skema.TypeInvalidType {
		t.Fatalf("unexpected types: %+v", errs)
	}
}

func TestValidate_NullableAndDates(t *testing.T) {
	d := skema.Define("Event").
		Field("tags", skema.NullableOf(skema.ArrayOf(skema.String())), nil).
		Field("note", skema.NullableOf(skema.String()), nil).
		Field("at", skema.DateTime(), nil).
		Build()
	doc := mustCompile(t, d)

	if errs := validate.Validate(doc, map[string]any{"tags": nil, "note": nil, "at": time.Now()}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	errs := validate.Validate(doc, map[string]any{"tags": []any{"a", 1}, "note": 3})
	if got, want := attrs(errs), []string{"tags[1]", "note"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("attributes = %v, want %v", got, want)
	}
}

func TestValidate_RecursiveDocument(t *testing.T) {
	node := &skema.Declaration{Name: "Node"}
	node.Properties = []skema.Property{
		{Name: "value", Type: skema.String()},
		{Name: "children", Type: skema.ArrayOf(skema.ObjectOf(node)), Optional: true},
	}
	doc := mustCompile(t, node)
	in := map[string]any{
		"value": "root",
		"children": []any{
			map[string]any{"value": "a"},
			map[string]any{"value": "b", "children": []any{map[string]any{"value": 7}}},
		},
	}
	errs := validate.Validate(doc, in)
	if got := attrs(errs); !reflect.DeepEqual(got, []string{"children[1].children[0].value"}) {
		t.Fatalf("attributes = %v", got)
	}
}

func TestValidate_ParsedDocument(t *testing.T) {
	doc, err := js.Parse([]byte(`{"type":"object","properties":{"count":{"type":"integer","minimum":1}},"required":["count"]}`))
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	errs := validate.Validate(doc, map[string]any{"count": 0}, validate.Options{Keywords: true})
	if len(errs) != 1 || errs[0].Type != skema.TypeGreaterEqual || errs[0].Message != "must be greater than or equal to 1" {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestModel_Validate(t *testing.T) {
	m := compile.NewModel(nameDecl())
	errs, err := m.Validate(map[string]any{"name": []any{}})
	if err != nil {
		t.Fatalf("Validate err: %v", err)
	}
	if len(errs) != 1 || errs[0].Attribute != "name" {
		t.Fatalf("unexpected errors: %v", errs)
	}
}
