package profile

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/validation"
	"jobportal-workers/internal/models"
)

var wireSchema = validation.StringFieldsSchema(models.WireFields)

// BuildPayload projects draft onto the wire schema. Every declared key is
// present in the result; attachments with data are sent as file parts.
func BuildPayload(draft *models.ProfileDraft) (*models.SubmissionPayload, error) {
	values := make(map[string]string, len(models.WireFields))
	files := make(map[string]models.Attachment)

	for _, key := range models.WireFields {
		switch {
		case models.IsListField(key):
			data, err := json.Marshal(cleanList(draft.List(key)))
			if err != nil {
				return nil, errors.NewPayloadSchemaError(err.Error())
			}
			values[key] = string(data)

		case models.IsAttachmentField(key):
			if a, ok := draft.Attachment(key); ok && a.Size() > 0 {
				files[key] = a
				continue
			}
			values[key] = ""

		default:
			values[key] = wireValue(key, draft.Get(key))
		}
	}

	payload := models.NewSubmissionPayload(models.WireFields, values, files)
	if err := validation.ValidateDocument(wireSchema, schemaDocument(payload)); err != nil {
		return nil, errors.NewPayloadSchemaError(err.Error())
	}
	return payload, nil
}

// schemaDocument is the text view of payload with file parts represented by
// their file names.
func schemaDocument(payload *models.SubmissionPayload) map[string]interface{} {
	doc := payload.AsMap()
	for key, f := range payload.Files() {
		doc[key] = f.FileName
	}
	return doc
}

// cleanList trims entries and drops blanks and placeholders. The result is
// never nil so an empty list encodes as [].
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if validation.IsBlank(v) {
			continue
		}
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

func wireValue(key, value string) string {
	if validation.IsBlank(value) {
		return ""
	}
	value = strings.TrimSpace(value)

	switch {
	case models.IsNumericField(key):
		return absolute(value)
	case models.IsPhoneField(key):
		return digitsOnly(value)
	case key == models.FieldEmail:
		return strings.ToLower(value)
	}
	return value
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// absolute drops the sign of a plain decimal value and keeps its text
// otherwise. Income buckets such as "10000-20000" and words such as "Inf"
// pass through unchanged.
func absolute(value string) string {
	if !decimalPattern.MatchString(value) {
		return value
	}
	return strings.TrimLeft(value, "+-")
}

func digitsOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, value)
}
