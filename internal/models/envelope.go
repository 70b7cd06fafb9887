// internal/models/envelope.go
package models

import (
	"bytes"
	"encoding/json"
)

// EnvelopeKind tags the shape a profile response arrived in.
type EnvelopeKind int

const (
	EnvelopeUnknown EnvelopeKind = iota
	// EnvelopeWrapped is {"data"|"profile"|"employee"|"user": {...}}, possibly nested once.
	EnvelopeWrapped
	// EnvelopeFlat is the profile object itself.
	EnvelopeFlat
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeWrapped:
		return "wrapped"
	case EnvelopeFlat:
		return "flat"
	default:
		return "unknown"
	}
}

// ProfileEnvelope is the decoded server profile response. Fields is nil for
// EnvelopeUnknown.
type ProfileEnvelope struct {
	Kind       EnvelopeKind
	WrapperKey string
	Fields     map[string]interface{}
}

var wrapperKeys = []string{"data", "profile", "employee", "user"}

// DecodeProfileEnvelope classifies raw. It never fails: anything that is not
// a recognizable profile object decodes to EnvelopeUnknown.
func DecodeProfileEnvelope(raw []byte) ProfileEnvelope {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ProfileEnvelope{Kind: EnvelopeUnknown}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return ProfileEnvelope{Kind: EnvelopeUnknown}
	}
	return classify(doc, 0)
}

func classify(doc map[string]interface{}, depth int) ProfileEnvelope {
	if depth < 2 {
		for _, key := range wrapperKeys {
			inner, ok := doc[key].(map[string]interface{})
			if !ok {
				continue
			}
			if env := classify(inner, depth+1); env.Kind != EnvelopeUnknown {
				if env.WrapperKey == "" {
					env.WrapperKey = key
				} else {
					env.WrapperKey = key + "." + env.WrapperKey
				}
				env.Kind = EnvelopeWrapped
				return env
			}
		}
	}

	if hasKnownField(doc) {
		return ProfileEnvelope{Kind: EnvelopeFlat, Fields: doc}
	}
	return ProfileEnvelope{Kind: EnvelopeUnknown}
}

func hasKnownField(doc map[string]interface{}) bool {
	for k := range doc {
		if _, ok := BackendName(k); ok {
			return true
		}
	}
	return false
}
