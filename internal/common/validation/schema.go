package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// JSONSchema describes the expected shape of a worker's job variables.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput checks decoded job variables against schema.
// A nil value for a required key counts as missing.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	var errs []ValidationError

	for _, field := range schema.Required {
		if v, ok := input[field]; !ok || v == nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "required field missing",
				Code:    "REQUIRED_FIELD_MISSING",
			})
		}
	}

	for name, value := range input {
		prop, ok := schema.Properties[name]
		if !ok {
			if !schema.AdditionalProperties {
				errs = append(errs, ValidationError{Field: name, Message: "field not allowed in schema", Code: "EXTRA_FIELD"})
			}
			continue
		}
		if value == nil {
			continue
		}
		errs = append(errs, validateField(name, value, prop)...)
	}

	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validateField(name string, value interface{}, prop Property) []ValidationError {
	if err := validateType(value, prop.Type); err != nil {
		return []ValidationError{{Field: name, Message: err.Error(), Code: "INVALID_TYPE"}}
	}

	var errs []ValidationError
	switch v := value.(type) {
	case string:
		if prop.MinLength != nil && len(v) < *prop.MinLength {
			errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("value must be at least %d characters", *prop.MinLength), Code: "MIN_LENGTH_VIOLATION"})
		}
		if prop.MaxLength != nil && len(v) > *prop.MaxLength {
			errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("value must be at most %d characters", *prop.MaxLength), Code: "MAX_LENGTH_VIOLATION"})
		}
		if prop.Pattern != nil {
			if matched, err := regexp.MatchString(*prop.Pattern, v); err != nil || !matched {
				errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("value must match pattern %s", *prop.Pattern), Code: "PATTERN_MISMATCH"})
			}
		}
		if len(prop.Enum) > 0 && !contains(prop.Enum, v) {
			errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("value must be one of %v", prop.Enum), Code: "INVALID_ENUM_VALUE"})
		}
	case float64:
		if prop.Minimum != nil && v < *prop.Minimum {
			errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("value must be >= %g", *prop.Minimum), Code: "MINIMUM_VIOLATION"})
		}
		if prop.Maximum != nil && v > *prop.Maximum {
			errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("value must be <= %g", *prop.Maximum), Code: "MAXIMUM_VIOLATION"})
		}
	case []interface{}:
		if prop.Items != nil {
			for i, item := range v {
				errs = append(errs, validateField(fmt.Sprintf("%s[%d]", name, i), item, *prop.Items)...)
			}
		}
	case map[string]interface{}:
		if prop.Properties != nil {
			nested := ValidateInput(v, JSONSchema{Type: "object", Properties: prop.Properties, AdditionalProperties: true})
			for _, e := range nested.Errors {
				e.Field = name + "." + e.Field
				errs = append(errs, e)
			}
		}
	}
	return errs
}

func validateType(value interface{}, expected string) error {
	ok := true
	switch expected {
	case "string":
		_, ok = value.(string)
	case "number", "integer":
		// Zeebe variables decode through encoding/json, so numbers are float64.
		var f float64
		f, ok = value.(float64)
		if ok && expected == "integer" && f != float64(int64(f)) {
			ok = false
		}
	case "boolean":
		_, ok = value.(bool)
	case "object":
		_, ok = value.(map[string]interface{})
	case "array":
		_, ok = value.([]interface{})
	}
	if !ok {
		return fmt.Errorf("expected %s, got %T", expected, value)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GetErrorMessages returns "field: message" strings.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for a field or anything nested under it.
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			return true
		}
	}
	return false
}

func IntPtr(i int) *int { return &i }
