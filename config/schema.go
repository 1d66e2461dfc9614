package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/goaux/stacktrace/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed config.schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/takumakei/openapi-ts-gen-go/config.schema.json"

// Schema returns the JSON Schema a configuration document must satisfy.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, stacktrace.Trace(err)
	}
	return stacktrace.Trace2(compiler.Compile(schemaURL))
})

// validateSchema checks a decoded document (as produced by yaml or json
// unmarshalling into any) against the embedded schema.
func validateSchema(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	// the validator only understands encoding/json value types
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return nil
}
