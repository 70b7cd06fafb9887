package submitprofile

import "jobportal-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"profile", "userId"},
		Properties: map[string]validation.Property{
			"profile": {
				Type:        "object",
				Description: "Completed profile keyed by backend, form or alias name",
			},
			"jobId": {
				Type:        "string",
				Description: "Job the profile is completed for, if any",
			},
			"userId": {
				Type:        "string",
				Description: "Job seeker whose profile is submitted",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
			"authToken": {
				Type:        "string",
				Description: "Bearer token of the job seeker; the stored token is used when absent",
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"profileSubmitted": {
				Type:        "boolean",
				Description: "Whether the server accepted the profile",
			},
			"profileMessage": {
				Type:        "string",
				Description: "Message shown to the user",
			},
			"profileFilledFields": {
				Type:        "integer",
				Description: "Number of non-empty scalar fields sent",
			},
		},
		AdditionalProperties: false,
	}
}
