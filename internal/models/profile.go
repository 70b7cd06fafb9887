// internal/models/profile.go
package models

import "sort"

// ProfileDraft is the in-progress profile edited by the wizard. Scalar fields
// are strings keyed by their backend name; income and distance stay as the
// string buckets the backend accepts.
type ProfileDraft struct {
	Name          string `json:"empName"`
	DOB           string `json:"empDob"`
	Gender        string `json:"empGender"`
	Whatsapp      string `json:"empWhatsapp"`
	MaritalStatus string `json:"empMarital"`
	Email         string `json:"empEmail"`

	Education           string `json:"empEdu"`
	TechnicalEducation  string `json:"empTechEdu"`
	Passport            string `json:"empPassport"`
	Skill               string `json:"empSkill"`
	Occupation          string `json:"empOccuId"`
	MigrationExperience string `json:"empInternationMigrationExp"`
	CurrentIncome       string `json:"empDailyWage"`
	ExpectedIncome      string `json:"empExpectedMonthlyIncome"`
	Relocation          string `json:"empRelocationIntQue"`

	State         string `json:"empState"`
	District      string `json:"empDistrict"`
	PoliceStation string `json:"empPS"`
	Panchayat     string `json:"empPanchayat"`
	Village       string `json:"empVillage"`
	Pin           string `json:"empPin"`
	RefName       string `json:"empRefName"`
	RefPhone      string `json:"empRefPhone"`
	RefDistance   string `json:"empRefDistance"`

	Lists       map[string][]string    `json:"-"`
	Attachments map[string]Attachment  `json:"-"`
	Extra       map[string]interface{} `json:"-"`
}

// Attachment is an uploaded file held in memory until submission.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (a Attachment) Size() int {
	return len(a.Data)
}

// fieldRefs resolves a backend field name to its storage in the draft.
var fieldRefs = map[string]func(*ProfileDraft) *string{
	FieldName:           func(p *ProfileDraft) *string { return &p.Name },
	FieldDOB:            func(p *ProfileDraft) *string { return &p.DOB },
	FieldGender:         func(p *ProfileDraft) *string { return &p.Gender },
	FieldWhatsapp:       func(p *ProfileDraft) *string { return &p.Whatsapp },
	FieldMarital:        func(p *ProfileDraft) *string { return &p.MaritalStatus },
	FieldEmail:          func(p *ProfileDraft) *string { return &p.Email },
	FieldEducation:      func(p *ProfileDraft) *string { return &p.Education },
	FieldTechEducation:  func(p *ProfileDraft) *string { return &p.TechnicalEducation },
	FieldPassport:       func(p *ProfileDraft) *string { return &p.Passport },
	FieldSkill:          func(p *ProfileDraft) *string { return &p.Skill },
	FieldOccupation:     func(p *ProfileDraft) *string { return &p.Occupation },
	FieldMigrationExp:   func(p *ProfileDraft) *string { return &p.MigrationExperience },
	FieldCurrentIncome:  func(p *ProfileDraft) *string { return &p.CurrentIncome },
	FieldExpectedIncome: func(p *ProfileDraft) *string { return &p.ExpectedIncome },
	FieldRelocation:     func(p *ProfileDraft) *string { return &p.Relocation },
	FieldState:          func(p *ProfileDraft) *string { return &p.State },
	FieldDistrict:       func(p *ProfileDraft) *string { return &p.District },
	FieldPoliceStation:  func(p *ProfileDraft) *string { return &p.PoliceStation },
	FieldPanchayat:      func(p *ProfileDraft) *string { return &p.Panchayat },
	FieldVillage:        func(p *ProfileDraft) *string { return &p.Village },
	FieldPin:            func(p *ProfileDraft) *string { return &p.Pin },
	FieldRefName:        func(p *ProfileDraft) *string { return &p.RefName },
	FieldRefPhone:       func(p *ProfileDraft) *string { return &p.RefPhone },
	FieldRefDistance:    func(p *ProfileDraft) *string { return &p.RefDistance },
}

// Get returns the scalar value of a field given by any known name.
func (p *ProfileDraft) Get(name string) string {
	backend, ok := BackendName(name)
	if !ok {
		return ""
	}
	if ref, ok := fieldRefs[backend]; ok {
		return *ref(p)
	}
	return ""
}

// Set stores value under a scalar field. Unknown names go to Extra; list and
// attachment names are ignored. It reports whether name was a scalar field.
func (p *ProfileDraft) Set(name, value string) bool {
	if backend, ok := BackendName(name); ok {
		ref, scalar := fieldRefs[backend]
		if scalar {
			*ref(p) = value
		}
		return scalar
	}
	if p.Extra == nil {
		p.Extra = make(map[string]interface{})
	}
	p.Extra[name] = value
	return false
}

func (p *ProfileDraft) List(name string) []string {
	backend, _ := BackendName(name)
	return p.Lists[backend]
}

// SetList stores a copy of values. A nil slice clears the list; an empty
// non-nil slice records an explicit "cleared" list.
func (p *ProfileDraft) SetList(name string, values []string) {
	backend, ok := BackendName(name)
	if !ok || !IsListField(backend) {
		return
	}
	if p.Lists == nil {
		p.Lists = make(map[string][]string)
	}
	if values == nil {
		delete(p.Lists, backend)
		return
	}
	p.Lists[backend] = append([]string{}, values...)
}

func (p *ProfileDraft) Attachment(name string) (Attachment, bool) {
	backend, _ := BackendName(name)
	a, ok := p.Attachments[backend]
	return a, ok
}

func (p *ProfileDraft) SetAttachment(name string, a Attachment) {
	backend, ok := BackendName(name)
	if !ok || !IsAttachmentField(backend) {
		return
	}
	if p.Attachments == nil {
		p.Attachments = make(map[string]Attachment)
	}
	p.Attachments[backend] = a
}

// Clone returns a deep copy.
func (p *ProfileDraft) Clone() *ProfileDraft {
	out := *p
	out.Lists = nil
	out.Attachments = nil
	out.Extra = nil
	if p.Lists != nil {
		out.Lists = make(map[string][]string, len(p.Lists))
		for k, v := range p.Lists {
			out.Lists[k] = append([]string{}, v...)
		}
	}
	if p.Attachments != nil {
		out.Attachments = make(map[string]Attachment, len(p.Attachments))
		for k, v := range p.Attachments {
			v.Data = append([]byte(nil), v.Data...)
			out.Attachments[k] = v
		}
	}
	if p.Extra != nil {
		out.Extra = make(map[string]interface{}, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}

// ToMap renders the draft under backend names: non-empty scalars, lists and
// Extra. Attachments are not included.
func (p *ProfileDraft) ToMap() map[string]interface{} {
	return p.render(func(backend string) string { return backend })
}

// ToUIMap is ToMap keyed by UI names, the shape kept in the local mirror.
func (p *ProfileDraft) ToUIMap() map[string]interface{} {
	return p.render(UIName)
}

func (p *ProfileDraft) render(key func(string) string) map[string]interface{} {
	out := make(map[string]interface{}, len(fieldRefs)+len(p.Lists)+len(p.Extra))
	for k, v := range p.Extra {
		out[k] = v
	}
	for backend, ref := range fieldRefs {
		if v := *ref(p); v != "" {
			out[key(backend)] = v
		}
	}
	for backend, list := range p.Lists {
		out[key(backend)] = append([]string{}, list...)
	}
	return out
}

// FilledFields returns the backend names of non-empty scalar fields, sorted.
func (p *ProfileDraft) FilledFields() []string {
	var out []string
	for backend, ref := range fieldRefs {
		if *ref(p) != "" {
			out = append(out, backend)
		}
	}
	sort.Strings(out)
	return out
}
