package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendName(t *testing.T) {
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"occupation", FieldOccupation, true},
		{"city", FieldDistrict, true},
		{"district", FieldDistrict, true},
		{"pincode", FieldPin, true},
		{"mobile", FieldWhatsapp, true},
		{"MaritalStatus", FieldMarital, true},
		{"empOccuId", FieldOccupation, true},
		{"empoccuid", FieldOccupation, true},
		{"favouriteColour", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := BackendName(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNameRank(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"empDistrict", RankBackend},
		{"EMPDISTRICT", RankBackend},
		{"city", RankUI},
		{"district", RankAlias},
		{"districtId", RankAlias},
		{"favouriteColour", RankUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, NameRank(tt.key))
		})
	}
}

func TestUINameRoundTrip(t *testing.T) {
	for _, backend := range WireFields {
		ui := UIName(backend)
		got, ok := BackendName(ui)
		require.True(t, ok, backend)
		assert.Equal(t, backend, got)
	}
	assert.Equal(t, "occupation", UIName(FieldOccupation))
	assert.Equal(t, "city", UIName(FieldDistrict))
	assert.Equal(t, "notAField", UIName("notAField"))
}

func TestProfileDraft_GetSet(t *testing.T) {
	var d ProfileDraft
	assert.True(t, d.Set("occupation", "12"))
	assert.True(t, d.Set("empPin", "110001"))
	assert.False(t, d.Set("languages", "Hindi"))
	assert.False(t, d.Set("shoeSize", "9"))

	assert.Equal(t, "12", d.Occupation)
	assert.Equal(t, "12", d.Get(FieldOccupation))
	assert.Equal(t, "110001", d.Get("pincode"))
	assert.Equal(t, "9", d.Extra["shoeSize"])
	assert.Empty(t, d.Get("shoeSize"))
}

func TestProfileDraft_CloneIsDeep(t *testing.T) {
	d := &ProfileDraft{Name: "Asha"}
	d.SetList(FieldLanguages, []string{"Hindi"})
	d.SetAttachment(FieldPhoto, Attachment{FileName: "p.jpg", Data: []byte{1, 2}})
	d.Extra = map[string]interface{}{"k": "v"}

	c := d.Clone()
	c.Name = "Other"
	c.Lists[FieldLanguages][0] = "Tamil"
	c.Attachments[FieldPhoto].Data[0] = 9
	c.Extra["k"] = "changed"

	assert.Equal(t, "Asha", d.Name)
	assert.Equal(t, []string{"Hindi"}, d.List(FieldLanguages))
	a, _ := d.Attachment(FieldPhoto)
	assert.Equal(t, byte(1), a.Data[0])
	assert.Equal(t, "v", d.Extra["k"])
}

func TestProfileDraft_SetList(t *testing.T) {
	var d ProfileDraft
	d.SetList("languages", []string{})
	list, ok := d.Lists[FieldLanguages]
	assert.True(t, ok)
	assert.Empty(t, list)

	d.SetList("languages", nil)
	_, ok = d.Lists[FieldLanguages]
	assert.False(t, ok)

	d.SetList("empName", []string{"x"})
	assert.Empty(t, d.Lists)
}

func TestProfileDraft_ToMap(t *testing.T) {
	d := &ProfileDraft{Name: "Asha", District: "44", Extra: map[string]interface{}{"legacyId": "L-1"}}
	d.SetList(FieldPrefCountries, []string{"AE"})

	m := d.ToMap()
	assert.Equal(t, "Asha", m[FieldName])
	assert.Equal(t, "44", m[FieldDistrict])
	assert.Equal(t, []string{"AE"}, m[FieldPrefCountries])
	assert.Equal(t, "L-1", m["legacyId"])
	assert.NotContains(t, m, FieldEmail)

	ui := d.ToUIMap()
	assert.Equal(t, "44", ui["city"])
	assert.Equal(t, []string{"AE"}, ui["preferredCountries"])
}

func TestDecodeProfileEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		kind       EnvelopeKind
		wrapperKey string
		field      string
	}{
		{"flat object", `{"empName":"Asha","empPin":"110001"}`, EnvelopeFlat, "", "empName"},
		{"data wrapper", `{"status":true,"data":{"empName":"Asha"}}`, EnvelopeWrapped, "data", "empName"},
		{"nested wrapper", `{"data":{"employee":{"name":"Asha"}}}`, EnvelopeWrapped, "data.employee", "name"},
		{"profile wrapper with UI names", `{"profile":{"occupation":"3"}}`, EnvelopeWrapped, "profile", "occupation"},
		{"no known fields", `{"status":false,"message":"not found"}`, EnvelopeUnknown, "", ""},
		{"array", `[{"empName":"Asha"}]`, EnvelopeUnknown, "", ""},
		{"malformed", `{"empName":`, EnvelopeUnknown, "", ""},
		{"empty", ``, EnvelopeUnknown, "", ""},
		{"null", `null`, EnvelopeUnknown, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := DecodeProfileEnvelope([]byte(tt.raw))
			assert.Equal(t, tt.kind, env.Kind, env.Kind.String())
			assert.Equal(t, tt.wrapperKey, env.WrapperKey)
			if tt.field != "" {
				assert.Contains(t, env.Fields, tt.field)
			} else {
				assert.Nil(t, env.Fields)
			}
		})
	}
}

func TestSubmissionPayload_Immutable(t *testing.T) {
	values := map[string]string{FieldName: "Asha"}
	keys := []string{FieldName}
	p := NewSubmissionPayload(keys, values, nil)

	values[FieldName] = "changed"
	keys[0] = "changed"
	p.Keys()[0] = "again"

	v, ok := p.Value(FieldName)
	assert.True(t, ok)
	assert.Equal(t, "Asha", v)
	assert.Equal(t, []string{FieldName}, p.Keys())
	assert.Empty(t, p.Files())
	assert.Equal(t, map[string]interface{}{FieldName: "Asha"}, p.AsMap())
}
