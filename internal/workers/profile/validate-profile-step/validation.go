package validateprofilestep

import "jobportal-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	minStep, maxStep := 1.0, 3.0
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"step", "profile"},
		Properties: map[string]validation.Property{
			"step": {
				Type:        "integer",
				Description: "Wizard step to validate",
				Minimum:     &minStep,
				Maximum:     &maxStep,
			},
			"profile": {
				Type:        "object",
				Description: "Profile fields keyed by backend, form or alias name",
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"isValid": {
				Type:        "boolean",
				Description: "Whether every mandatory field of the step is filled and well formed",
			},
			"fieldErrors": {
				Type:        "object",
				Description: "Inline message per failing field",
			},
			"currentStep": {
				Type:        "integer",
				Description: "Validated step",
			},
			"nextStep": {
				Type:        "integer",
				Description: "Step the user should see next",
			},
		},
		AdditionalProperties: false,
	}
}
