// Package profile holds the profile-completion flow: merging known profile
// data into a draft, the three-step wizard, and building and dispatching the
// submission payload.
package profile

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"jobportal-workers/internal/common/validation"
	"jobportal-workers/internal/models"
)

// Sources are the raw candidate profile documents. Any of them may be nil
// or malformed.
type Sources struct {
	// Cached is the local mirror written by session.CacheProfile.
	Cached []byte
	// Edit is the profile-for-edit response.
	Edit []byte
	// Dashboard is the dashboard summary response.
	Dashboard []byte
}

// Normalize merges sources into one draft. For every field the first
// non-blank value wins in the order Edit, Dashboard, Cached. Placeholders
// count as blank. Unknown keys are
// kept in Extra under their original name.
func Normalize(src Sources) *models.ProfileDraft {
	draft := &models.ProfileDraft{}

	// Lowest precedence first; later layers overwrite.
	layers := []map[string]interface{}{
		decodeObject(src.Cached),
		models.DecodeProfileEnvelope(src.Dashboard).Fields,
		models.DecodeProfileEnvelope(src.Edit).Fields,
	}
	for _, fields := range layers {
		merge(draft, fields)
	}
	return draft
}

// FromMap normalizes a single document given with backend, UI or alias keys,
// such as process variables.
func FromMap(fields map[string]interface{}) *models.ProfileDraft {
	draft := &models.ProfileDraft{}
	merge(draft, fields)
	return draft
}

func decodeObject(raw []byte) map[string]interface{} {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil
	}
	return doc
}

// merge applies one source. A placeholder or blank value never replaces a
// value from an earlier layer. When the source names a field more than once
// the first non-blank value in key order wins.
func merge(draft *models.ProfileDraft, fields map[string]interface{}) {
	taken := make(map[string]bool)

	for _, key := range orderedKeys(fields) {
		raw := fields[key]
		backend, known := models.BackendName(key)
		switch {
		case !known:
			if raw == nil {
				continue
			}
			if draft.Extra == nil {
				draft.Extra = make(map[string]interface{})
			}
			draft.Extra[key] = raw

		case taken[backend]:

		case models.IsListField(backend):
			list, isList := coerceList(raw)
			if len(list) > 0 {
				draft.SetList(backend, list)
				taken[backend] = true
			} else if isList && draft.List(backend) == nil {
				draft.SetList(backend, list)
			}

		case models.IsAttachmentField(backend):
			// Files never arrive in a JSON document.

		default:
			value := coerceScalar(raw)
			if backend == models.FieldDOB {
				value = dateOnly(value)
			}
			if !validation.IsBlank(value) {
				draft.Set(backend, value)
				taken[backend] = true
			}
		}
	}
}

// orderedKeys sorts keys by name rank, then alphabetically.
func orderedKeys(fields map[string]interface{}) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := models.NameRank(keys[i]), models.NameRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

var idKeys = []string{"id", "_id", "value"}

func coerceScalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := t.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]interface{}:
		for _, k := range idKeys {
			if inner, ok := t[k]; ok {
				if _, nested := inner.(map[string]interface{}); !nested {
					return coerceScalar(inner)
				}
			}
		}
	}
	return ""
}

// coerceList reads a JSON array, a JSON-encoded array string or a comma
// separated string. isList reports whether raw had list shape at all.
func coerceList(raw interface{}) (list []string, isList bool) {
	switch t := raw.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := coerceScalar(item); !validation.IsBlank(s) {
				out = append(out, s)
			}
		}
		return out, true
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s = strings.TrimSpace(s); !validation.IsBlank(s) {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "[") {
			dec := json.NewDecoder(strings.NewReader(s))
			dec.UseNumber()
			var items []interface{}
			if err := dec.Decode(&items); err != nil {
				return nil, false
			}
			return coerceList(items)
		}
		if s == "" {
			return nil, false
		}
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); !validation.IsBlank(part) {
				out = append(out, part)
			}
		}
		return out, true
	}
	return nil, false
}

// dateOnly reduces a timestamp such as 1990-05-01T00:00:00.000Z to its date.
// Values that are not timestamps are returned unchanged.
func dateOnly(s string) string {
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		if _, ok := validation.ParseBirthDate(s[:10]); ok {
			return s[:10]
		}
	}
	return s
}
