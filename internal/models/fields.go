// internal/models/fields.go
package models

import "strings"

// Backend (wire) field names.
const (
	// Personal
	FieldName     = "empName"
	FieldDOB      = "empDob"
	FieldGender   = "empGender"
	FieldWhatsapp = "empWhatsapp"
	FieldMarital  = "empMarital"
	FieldEmail    = "empEmail"

	// Education and career
	FieldEducation      = "empEdu"
	FieldTechEducation  = "empTechEdu"
	FieldPassport       = "empPassport"
	FieldSkill          = "empSkill"
	FieldOccupation     = "empOccuId"
	FieldMigrationExp   = "empInternationMigrationExp"
	FieldCurrentIncome  = "empDailyWage"
	FieldExpectedIncome = "empExpectedMonthlyIncome"
	FieldRelocation     = "empRelocationIntQue"

	// Address and reference
	FieldState         = "empState"
	FieldDistrict      = "empDistrict"
	FieldPoliceStation = "empPS"
	FieldPanchayat     = "empPanchayat"
	FieldVillage       = "empVillage"
	FieldPin           = "empPin"
	FieldRefName       = "empRefName"
	FieldRefPhone      = "empRefPhone"
	FieldRefDistance   = "empRefDistance"

	// Lists
	FieldLanguages     = "empLanguages"
	FieldPrefCountries = "empPrefCountries"

	// Attachments
	FieldPhoto  = "empPhoto"
	FieldResume = "empResume"
)

// ScalarFields lists the string-valued backend fields in wire order.
var ScalarFields = []string{
	FieldName, FieldDOB, FieldGender, FieldWhatsapp, FieldMarital, FieldEmail,
	FieldEducation, FieldTechEducation, FieldPassport, FieldSkill, FieldOccupation,
	FieldMigrationExp, FieldCurrentIncome, FieldExpectedIncome, FieldRelocation,
	FieldState, FieldDistrict, FieldPoliceStation, FieldPanchayat, FieldVillage,
	FieldPin, FieldRefName, FieldRefPhone, FieldRefDistance,
}

var ListFields = []string{FieldLanguages, FieldPrefCountries}

var AttachmentFields = []string{FieldPhoto, FieldResume}

// WireFields is every key the profile-completion endpoint receives, in order.
var WireFields = func() []string {
	out := make([]string, 0, len(ScalarFields)+len(ListFields)+len(AttachmentFields))
	out = append(out, ScalarFields...)
	out = append(out, ListFields...)
	return append(out, AttachmentFields...)
}()

// uiNames is the canonical UI-facing name of each backend field.
var uiNames = map[string]string{
	FieldName:           "name",
	FieldDOB:            "dob",
	FieldGender:         "gender",
	FieldWhatsapp:       "phone",
	FieldMarital:        "maritalStatus",
	FieldEmail:          "email",
	FieldEducation:      "education",
	FieldTechEducation:  "technicalEducation",
	FieldPassport:       "passport",
	FieldSkill:          "skill",
	FieldOccupation:     "occupation",
	FieldMigrationExp:   "migrationExperience",
	FieldCurrentIncome:  "currentIncome",
	FieldExpectedIncome: "expectedIncome",
	FieldRelocation:     "relocation",
	FieldState:          "state",
	FieldDistrict:       "city",
	FieldPoliceStation:  "policeStation",
	FieldPanchayat:      "panchayat",
	FieldVillage:        "village",
	FieldPin:            "pincode",
	FieldRefName:        "referenceName",
	FieldRefPhone:       "referencePhone",
	FieldRefDistance:    "referenceDistance",
	FieldLanguages:      "languages",
	FieldPrefCountries:  "preferredCountries",
	FieldPhoto:          "photo",
	FieldResume:         "resume",
}

// aliases are additional names seen in cached copies and older payloads.
var aliases = map[string]string{
	"fullname":               FieldName,
	"dateofbirth":            FieldDOB,
	"mobile":                 FieldWhatsapp,
	"whatsapp":               FieldWhatsapp,
	"contactnumber":          FieldWhatsapp,
	"marital":                FieldMarital,
	"highesteducation":       FieldEducation,
	"techeducation":          FieldTechEducation,
	"department":             FieldSkill,
	"skillid":                FieldSkill,
	"occupationid":           FieldOccupation,
	"internationalmigration": FieldMigrationExp,
	"monthlyincome":          FieldCurrentIncome,
	"dailywage":              FieldCurrentIncome,
	"expectedmonthlyincome":  FieldExpectedIncome,
	"relocationpreference":   FieldRelocation,
	"stateid":                FieldState,
	"district":               FieldDistrict,
	"districtid":             FieldDistrict,
	"ps":                     FieldPoliceStation,
	"pin":                    FieldPin,
	"postalcode":             FieldPin,
	"refname":                FieldRefName,
	"refphone":               FieldRefPhone,
	"refdistance":            FieldRefDistance,
	"countries":              FieldPrefCountries,
}

// nameIndex maps every lower-cased backend name, UI name and alias to its backend name.
var nameIndex = func() map[string]string {
	idx := make(map[string]string, len(uiNames)*2+len(aliases))
	for backend, ui := range uiNames {
		idx[strings.ToLower(backend)] = backend
		idx[strings.ToLower(ui)] = backend
	}
	for alias, backend := range aliases {
		idx[alias] = backend
	}
	return idx
}()

// BackendName resolves a UI name, alias or backend name (case-insensitive).
func BackendName(key string) (string, bool) {
	name, ok := nameIndex[strings.ToLower(strings.TrimSpace(key))]
	return name, ok
}

// Name ranks used when one document carries several names of the same field.
const (
	RankBackend = iota
	RankUI
	RankAlias
	RankUnknown
)

// NameRank orders the names of a field: backend name first, then the UI name,
// then aliases.
func NameRank(key string) int {
	k := strings.ToLower(strings.TrimSpace(key))
	backend, ok := nameIndex[k]
	switch {
	case !ok:
		return RankUnknown
	case strings.ToLower(backend) == k:
		return RankBackend
	case strings.ToLower(uiNames[backend]) == k:
		return RankUI
	default:
		return RankAlias
	}
}

// UIName returns the canonical UI name for a backend field, or the input unchanged.
func UIName(backend string) string {
	if ui, ok := uiNames[backend]; ok {
		return ui
	}
	return backend
}

func IsListField(name string) bool {
	return contains(ListFields, name)
}

func IsAttachmentField(name string) bool {
	return contains(AttachmentFields, name)
}

// IsNumericField reports fields sent as an absolute numeric value.
func IsNumericField(name string) bool {
	return name == FieldCurrentIncome || name == FieldExpectedIncome || name == FieldPin
}

// IsPhoneField reports fields sent with non-digits stripped.
func IsPhoneField(name string) bool {
	return name == FieldWhatsapp || name == FieldRefPhone
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
