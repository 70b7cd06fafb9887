// internal/models/application.go
package models

import "time"

// ApplyOutcome is the result of one job-apply attempt.
type ApplyOutcome string

const (
	OutcomeApplied           ApplyOutcome = "applied"
	OutcomeProfileIncomplete ApplyOutcome = "profile_incomplete"
	OutcomeError             ApplyOutcome = "error"
)

type JobApplicationAttempt struct {
	ID          string       `json:"id"`
	JobID       string       `json:"jobId"`
	Outcome     ApplyOutcome `json:"outcome"`
	Message     string       `json:"message,omitempty"`
	AttemptedAt time.Time    `json:"attemptedAt"`
}

// Option is one entry of a lookup list (states, districts, skills, ...).
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is the signed-in job seeker as cached by the session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Caller identifies the job seeker a process instance acts for. Token and
// Email are optional; when empty the values stored for UserID are used.
type Caller struct {
	UserID string `json:"userId"`
	Token  string `json:"authToken,omitempty"`
	Email  string `json:"userEmail,omitempty"`
}
