package submitprofile

import (
	"context"
	"time"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/common/metrics"
	"jobportal-workers/internal/notify"
	"jobportal-workers/internal/profile"
)

type Service struct {
	submitters SubmitterFactory
	notifier   notify.Notifier
	config     *Config
	logger     logger.Logger
	now        func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(deps.Logger)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		submitters: deps.Submitters,
		notifier:   notifier,
		config:     config,
		logger:     deps.Logger,
		now:        now,
	}
}

// Execute revalidates every step and submits the profile once. The first
// failing step is reported as FIELD_VALIDATION_FAILED without calling the API.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	draft := profile.FromMap(input.Profile)

	step, result := profile.ValidateDraft(draft, s.now())
	if !result.Valid {
		metrics.WizardStepRejections.WithLabelValues(step.String()).Inc()
		s.toast(ctx, notify.SeverityWarning, errors.MsgFillRequiredFields)
		return nil, result.Err(step)
	}

	submitter, err := s.submitters(ctx, input.Caller())
	if err != nil {
		return nil, err
	}

	if err := submitter.Submit(ctx, draft); err != nil {
		metrics.ProfileSubmissions.WithLabelValues("failed").Inc()
		s.toast(ctx, notify.SeverityError, errors.UserMessage(err))
		return nil, err
	}

	metrics.ProfileSubmissions.WithLabelValues("succeeded").Inc()
	s.toast(ctx, notify.SeveritySuccess, profile.MsgProfileSaved)

	s.logger.Info("profile submitted from process", map[string]interface{}{
		"jobId":  input.JobID,
		"userId": input.UserID,
		"fields": len(draft.FilledFields()),
	})

	return &Output{
		Submitted:    true,
		Message:      profile.MsgProfileSaved,
		FilledFields: len(draft.FilledFields()),
		SubmittedAt:  s.now().UTC(),
	}, nil
}

func (s *Service) toast(ctx context.Context, severity notify.Severity, message string) {
	if err := s.notifier.Notify(ctx, severity, message); err != nil {
		s.logger.Warn("notification failed", map[string]interface{}{"error": err})
	}
}
