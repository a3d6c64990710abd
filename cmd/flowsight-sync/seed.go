package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/flowsight/flowsight/pkg/models"
)

// seedSchema validates connection seed files before anything is written.
const seedSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "user_id": {"type": "string", "minLength": 1},
      "provider": {"type": "string", "enum": ["n8n", "make"]},
      "name": {"type": "string"},
      "config": {
        "type": "object",
        "additionalProperties": {"type": "string"}
      }
    },
    "required": ["user_id", "provider"],
    "additionalProperties": false
  }
}`

func validateSeed(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(seedSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate seed file: %w", err)
	}

	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}

		return fmt.Errorf("validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// parseSeed validates and decodes a seed file into connection values. IDs and
// timestamps are assigned at store time, not here.
func parseSeed(data []byte) ([]*models.Connection, error) {
	err := validateSeed(data)
	if err != nil {
		return nil, err
	}

	var conns []*models.Connection

	err = json.Unmarshal(data, &conns)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	return conns, nil
}
