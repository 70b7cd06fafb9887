package profile

import (
	"time"

	"jobportal-workers/internal/models"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// validDraft fills every mandatory field of all three steps.
func validDraft() *models.ProfileDraft {
	return &models.ProfileDraft{
		Name:          "Asha Devi",
		DOB:           "1990-05-01",
		Gender:        "female",
		Whatsapp:      "98765 43210",
		MaritalStatus: "single",
		Email:         "Asha@Example.com",

		Education:           "graduate",
		TechnicalEducation:  "iti",
		Passport:            "yes",
		Skill:               "12",
		Occupation:          "34",
		MigrationExperience: "no",
		CurrentIncome:       "10000-20000",
		ExpectedIncome:      "20000-30000",
		Relocation:          "yes",

		State:       "10",
		District:    "101",
		Pin:         "800001",
		RefName:     "Ravi Kumar",
		RefPhone:    "9123456780",
		RefDistance: "0-5km",
	}
}
