package singer

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates records against a stream's JSON Schema.
//
// Taps declare schemas as Draft 7; newer drafts self-identify via $schema
// and are honored when present.
type Validator struct {
	stream string
	schema *jsonschema.Schema
}

// NewValidator compiles the raw JSON Schema of a SCHEMA message.
func NewValidator(stream string, schema []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("stream %s: decode schema: %w", stream, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)

	resource := stream + ".schema.json"
	if err := compiler.AddResource(resource, doc); err != nil {
		return nil, fmt.Errorf("stream %s: add schema resource: %w", stream, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("stream %s: compile schema: %w", stream, err)
	}

	return &Validator{stream: stream, schema: compiled}, nil
}

// Validate checks one record against the stream schema. The record must
// come from ParseMessage so numbers are json.Number values, which keeps
// high-precision decimals intact during multipleOf checks.
func (v *Validator) Validate(record map[string]any) error {
	if err := v.schema.Validate(record); err != nil {
		return fmt.Errorf("record for stream %s does not conform to its schema: %w", v.stream, err)
	}
	return nil
}
