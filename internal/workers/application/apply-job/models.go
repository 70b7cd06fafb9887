package applyjob

import (
	"context"
	"time"

	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/models"
)

type Input struct {
	JobID     string `json:"jobId"`
	UserID    string `json:"userId"`
	AuthToken string `json:"authToken,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
	// Reapply marks the attempt made after the profile was completed. An
	// incomplete profile on that attempt is terminal.
	Reapply bool `json:"reapply,omitempty"`
}

type Output struct {
	Applied     bool      `json:"applied"`
	Message     string    `json:"applyMessage"`
	AttemptID   string    `json:"applyAttemptId"`
	Outcome     string    `json:"applyOutcome"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

func (i *Input) Caller() models.Caller {
	return models.Caller{UserID: i.UserID, Token: i.AuthToken, Email: i.UserEmail}
}

// Applier makes one apply call. *application.Orchestrator implements it.
type Applier interface {
	Attempt(ctx context.Context, jobID string) (*models.JobApplicationAttempt, error)
}

// ApplierFactory returns the Applier acting for caller. It is called once
// per job.
type ApplierFactory func(ctx context.Context, caller models.Caller) (Applier, error)

type ServiceDependencies struct {
	Logger   logger.Logger
	Appliers ApplierFactory
}
