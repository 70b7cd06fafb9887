package applyjob

import "jobportal-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"jobId", "userId"},
		Properties: map[string]validation.Property{
			"jobId": {
				Type:        "string",
				Description: "Identifier of the job to apply for",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
			"userId": {
				Type:        "string",
				Description: "Job seeker the application is made for",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
			"authToken": {
				Type:        "string",
				Description: "Bearer token of the job seeker; the stored token is used when absent",
			},
			"userEmail": {
				Type:        "string",
				Description: "Address for the application confirmation",
			},
			"reapply": {
				Type:        "boolean",
				Description: "Set on the attempt that follows profile completion",
			},
		},
		// Process instances carry unrelated variables.
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"applied": {
				Type:        "boolean",
				Description: "Whether the application was accepted",
			},
			"applyMessage": {
				Type:        "string",
				Description: "Message shown to the user",
			},
			"applyAttemptId": {
				Type:        "string",
				Description: "Identifier of the recorded attempt",
			},
			"applyOutcome": {
				Type:        "string",
				Description: "Outcome of the attempt",
				Enum:        []string{"applied", "profile_incomplete", "error"},
			},
		},
		AdditionalProperties: false,
	}
}
