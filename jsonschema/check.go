package jsonschema

import (
	"bytes"
	"fmt"

	sjs "github.com/santhosh-tekuri/jsonschema/v6"
)

const checkResource = "skema-check.json"

// Check compiles s with a draft 2020-12 compiler and returns the compiler's
// error when s is not a well-formed schema (bad keyword values, dangling
// local $ref pointers, ...).
func Check(s *Schema) error {
	raw, err := s.MarshalJSON()
	if err != nil {
		return err
	}
	doc, err := sjs.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("jsonschema: decode for check: %w", err)
	}
	c := sjs.NewCompiler()
	c.DefaultDraft(sjs.Draft2020)
	if err := c.AddResource(checkResource, doc); err != nil {
		return fmt.Errorf("jsonschema: add resource: %w", err)
	}
	if _, err := c.Compile(checkResource); err != nil {
		return fmt.Errorf("jsonschema: %w", err)
	}
	return nil
}
