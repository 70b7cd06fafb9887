package validateprofilestep

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
	notifier notify.Notifier
	config   *Config
	logger   logger.Logger
	now      func() time.Time
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
		notifier: notifier,
		config:   config,
		logger:   deps.Logger,
		now:      now,
	}
}

// Execute validates one wizard step. An invalid step is a normal outcome:
// the job completes with the field errors and the user stays on the step.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	step := profile.State(input.Step)
	draft := profile.FromMap(input.Profile)
	result := profile.ValidateStep(draft, step, s.now())

	output := &Output{
		Valid:       result.Valid,
		FieldErrors: result.FieldErrors,
		Step:        input.Step,
		NextStep:    input.Step,
	}

	if !result.Valid {
		metrics.WizardStepRejections.WithLabelValues(step.String()).Inc()
		if err := s.notifier.Notify(ctx, notify.SeverityWarning, errors.MsgFillRequiredFields); err != nil {
			s.logger.Warn("notification failed", map[string]interface{}{"error": err})
		}
		return output, nil
	}

	if step < profile.StepAddress {
		output.NextStep = input.Step + 1
		metrics.WizardTransitions.WithLabelValues(step.String(), (step + 1).String()).Inc()
	}
	return output, nil
}
