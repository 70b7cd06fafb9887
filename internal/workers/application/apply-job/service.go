package applyjob

import (
	"context"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"
)

type Service struct {
	appliers ApplierFactory
	config   *Config
	logger   logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		appliers: deps.Appliers,
		config:   config,
		logger:   deps.Logger,
	}
}

// Execute applies once. An incomplete profile is returned as is so the
// process can route the user to the profile wizard, except on a reapply
// where it becomes a terminal server validation error.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	applier, err := s.appliers(ctx, input.Caller())
	if err != nil {
		return nil, err
	}

	attempt, err := applier.Attempt(ctx, input.JobID)
	if err != nil {
		if errors.IsProfileIncomplete(err) && input.Reapply {
			s.logger.Warn("profile still incomplete after completion", map[string]interface{}{
				"jobId":  input.JobID,
				"userId": input.UserID,
			})
			return nil, errors.NewServerValidationError(0, errors.UserMessage(err))
		}
		return nil, err
	}

	return &Output{
		Applied:     true,
		Message:     attempt.Message,
		AttemptID:   attempt.ID,
		Outcome:     string(attempt.Outcome),
		AttemptedAt: attempt.AttemptedAt,
	}, nil
}
