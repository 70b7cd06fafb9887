package submitprofile

import (
	"context"
	"time"

	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/models"
	"jobportal-workers/internal/notify"
	"jobportal-workers/internal/profile"
)

type Input struct {
	Profile   map[string]interface{} `json:"profile"`
	JobID     string                 `json:"jobId,omitempty"`
	UserID    string                 `json:"userId"`
	AuthToken string                 `json:"authToken,omitempty"`
}

func (i *Input) Caller() models.Caller {
	return models.Caller{UserID: i.UserID, Token: i.AuthToken}
}

// SubmitterFactory returns the Submitter acting for caller. It is called once
// per job.
type SubmitterFactory func(ctx context.Context, caller models.Caller) (profile.Submitter, error)

type Output struct {
	Submitted    bool      `json:"profileSubmitted"`
	Message      string    `json:"profileMessage"`
	FilledFields int       `json:"profileFilledFields"`
	SubmittedAt  time.Time `json:"profileSubmittedAt"`
}

type ServiceDependencies struct {
	Logger     logger.Logger
	Submitters SubmitterFactory
	Notifier   notify.Notifier
	Now        func() time.Time
}
