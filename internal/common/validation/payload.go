package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// StringFieldsSchema builds a JSON Schema for a flat object in which every key
// is required and every value is a string.
func StringFieldsSchema(keys []string) map[string]interface{} {
	props := make(map[string]interface{}, len(keys))
	required := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		props[k] = map[string]interface{}{"type": "string"}
		required = append(required, k)
	}
	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// ValidateDocument checks data against schemaMap. It returns nil when the
// schema is empty or the document conforms.
func ValidateDocument(schemaMap map[string]interface{}, data interface{}) error {
	if len(schemaMap) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schemaMap),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("document does not match schema: %s", strings.Join(errs, "; "))
	}
	return nil
}
