// internal/models/payload.go
package models

// SubmissionPayload is the wire projection of a finalized draft. It is built
// once and never mutated; accessors return copies.
type SubmissionPayload struct {
	keys   []string
	values map[string]string
	files  map[string]Attachment
}

// NewSubmissionPayload copies its inputs. keys fixes the field order.
func NewSubmissionPayload(keys []string, values map[string]string, files map[string]Attachment) *SubmissionPayload {
	p := &SubmissionPayload{
		keys:   append([]string{}, keys...),
		values: make(map[string]string, len(values)),
		files:  make(map[string]Attachment, len(files)),
	}
	for k, v := range values {
		p.values[k] = v
	}
	for k, f := range files {
		f.Data = append([]byte(nil), f.Data...)
		p.files[k] = f
	}
	return p
}

// Value returns the text value sent for key.
func (p *SubmissionPayload) Value(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *SubmissionPayload) Keys() []string {
	return append([]string{}, p.keys...)
}

// Files returns the attachments sent as file parts, keyed by field.
func (p *SubmissionPayload) Files() map[string]Attachment {
	out := make(map[string]Attachment, len(p.files))
	for k, f := range p.files {
		out[k] = f
	}
	return out
}

// AsMap returns the text values as a generic document, for schema checks
// and process variables.
func (p *SubmissionPayload) AsMap() map[string]interface{} {
	out := make(map[string]interface{}, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
