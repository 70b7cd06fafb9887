package profile

import (
	"time"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/validation"
	"jobportal-workers/internal/models"
)

// State is a wizard state. The three editing steps are numbered 1 to 3.
type State int

const (
	StepPersonal State = iota + 1
	StepCareer
	StepAddress
	Submitting
	Done
	Cancelled
)

func (s State) String() string {
	switch s {
	case StepPersonal:
		return "step1_personal"
	case StepCareer:
		return "step2_career"
	case StepAddress:
		return "step3_address"
	case Submitting:
		return "submitting"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsStep reports whether s is one of the editing steps.
func (s State) IsStep() bool {
	return s >= StepPersonal && s <= StepAddress
}

// Steps lists the editing steps in order.
var Steps = []State{StepPersonal, StepCareer, StepAddress}

var mandatoryFields = map[State][]string{
	StepPersonal: {
		models.FieldName,
		models.FieldDOB,
		models.FieldGender,
		models.FieldWhatsapp,
		models.FieldMarital,
	},
	StepCareer: {
		models.FieldEducation,
		models.FieldTechEducation,
		models.FieldPassport,
		models.FieldSkill,
		models.FieldOccupation,
		models.FieldMigrationExp,
		models.FieldCurrentIncome,
		models.FieldExpectedIncome,
		models.FieldRelocation,
	},
	StepAddress: {
		models.FieldState,
		models.FieldDistrict,
		models.FieldPin,
		models.FieldRefName,
		models.FieldRefPhone,
		models.FieldRefDistance,
	},
}

// Field error messages shown inline.
const (
	MsgRequired      = "This field is required"
	MsgInvalidMobile = "Enter a valid 10-digit mobile number"
	MsgInvalidEmail  = "Enter a valid email address"
	MsgInvalidPin    = "Enter a valid 6-digit PIN code"
	MsgInvalidDOB    = "Enter a valid date of birth; you must be at least 18"
)

// MandatoryFields returns the backend names that must be filled on step.
func MandatoryFields(step State) []string {
	return append([]string{}, mandatoryFields[step]...)
}

// StepValidationResult is recomputed on every change. FieldErrors maps backend
// field name to an inline message.
type StepValidationResult struct {
	Valid       bool              `json:"isValid"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

// Err returns nil for a valid result, otherwise a FIELD_VALIDATION_FAILED error.
func (r StepValidationResult) Err(step State) error {
	if r.Valid {
		return nil
	}
	return errors.NewFieldValidationError(int(step), r.FieldErrors)
}

// ValidateStep checks the mandatory fields of step and the format of every
// filled field on it. now anchors the age check.
func ValidateStep(draft *models.ProfileDraft, step State, now time.Time) StepValidationResult {
	fieldErrors := make(map[string]string)

	for _, field := range mandatoryFields[step] {
		value := draft.Get(field)
		if validation.IsBlank(value) {
			fieldErrors[field] = MsgRequired
			continue
		}
		if msg := checkFormat(field, value, now); msg != "" {
			fieldErrors[field] = msg
		}
	}

	if step == StepPersonal {
		if msg := checkFormat(models.FieldEmail, draft.Email, now); msg != "" {
			fieldErrors[models.FieldEmail] = msg
		}
	}

	return StepValidationResult{Valid: len(fieldErrors) == 0, FieldErrors: fieldErrors}
}

// ValidateDraft validates all steps in order and returns the first failing
// step, or StepAddress with a valid result.
func ValidateDraft(draft *models.ProfileDraft, now time.Time) (State, StepValidationResult) {
	var result StepValidationResult
	for _, step := range Steps {
		result = ValidateStep(draft, step, now)
		if !result.Valid {
			return step, result
		}
	}
	return StepAddress, result
}

func checkFormat(field, value string, now time.Time) string {
	switch field {
	case models.FieldWhatsapp, models.FieldRefPhone:
		if !validation.IsValidMobileNumber(value) {
			return MsgInvalidMobile
		}
	case models.FieldEmail:
		if !validation.IsValidEmail(value) {
			return MsgInvalidEmail
		}
	case models.FieldPin:
		if !validation.IsValidPostalCode(value) {
			return MsgInvalidPin
		}
	case models.FieldDOB:
		if !validation.IsValidBirthDateAt(value, now) {
			return MsgInvalidDOB
		}
	}
	return ""
}
