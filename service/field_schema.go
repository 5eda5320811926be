package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Aashish23092/interest-notice-validator/utils/noticeparser"
)

var ErrInvalidFieldMap = errors.New("invalid field map")

const fieldMapSchemaURL = "notice-fields.json"

var (
	fieldMapSchemaOnce sync.Once
	fieldMapSchema     *jsonschema.Schema
	fieldMapSchemaErr  error
)

// fieldMapSchemaDoc accepts an object whose keys are known field names or
// aliases and whose values are strings or numbers.
func fieldMapSchemaDoc() map[string]any {
	value := map[string]any{"type": []string{"string", "number"}}
	properties := make(map[string]any)
	for _, key := range noticeparser.FieldKeys() {
		properties[key] = value
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"minProperties":        1,
		"properties":           properties,
		"additionalProperties": false,
	}
}

func compiledFieldMapSchema() (*jsonschema.Schema, error) {
	fieldMapSchemaOnce.Do(func() {
		b, err := json.Marshal(fieldMapSchemaDoc())
		if err != nil {
			fieldMapSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(fieldMapSchemaURL, bytes.NewReader(b)); err != nil {
			fieldMapSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		fieldMapSchema, fieldMapSchemaErr = compiler.Compile(fieldMapSchemaURL)
	})
	return fieldMapSchema, fieldMapSchemaErr
}

// DecodeFieldMap checks a JSON field map against the schema and returns its
// values as strings, numbers keeping their literal form.
func DecodeFieldMap(data []byte) (map[string]string, error) {
	schema, err := compiledFieldMapSchema()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", ErrInvalidFieldMap, err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFieldMap, err)
	}

	fields := make(map[string]string)
	for key, raw := range v.(map[string]any) {
		switch val := raw.(type) {
		case string:
			fields[key] = val
		case json.Number:
			fields[key] = val.String()
		}
	}
	return fields, nil
}
