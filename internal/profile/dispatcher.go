package profile

import (
	"context"
	"time"

	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/models"
)

// ProfileCompleter posts a built payload to the profile-completion endpoint.
type ProfileCompleter interface {
	CompleteProfile(ctx context.Context, payload *models.SubmissionPayload) error
}

// ProfileMirror stores the local copy of a submitted profile.
type ProfileMirror interface {
	CacheProfile(ctx context.Context, draft *models.ProfileDraft) error
}

// Dispatcher builds and sends the submission payload. It implements Submitter.
type Dispatcher struct {
	api    ProfileCompleter
	mirror ProfileMirror
	logger logger.Logger
}

// NewDispatcher returns a Dispatcher. mirror may be nil.
func NewDispatcher(api ProfileCompleter, mirror ProfileMirror, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		api:    api,
		mirror: mirror,
		logger: logger.Named(log, "profile-dispatcher"),
	}
}

// Submit performs one profile-completion call for draft. Transient failures
// are retried by the transport; the error is returned unchanged otherwise.
func (d *Dispatcher) Submit(ctx context.Context, draft *models.ProfileDraft) error {
	payload, err := BuildPayload(draft)
	if err != nil {
		d.logger.Error("failed to build submission payload", map[string]interface{}{"error": err})
		return err
	}

	start := time.Now()
	if err := d.api.CompleteProfile(ctx, payload); err != nil {
		d.logger.Warn("profile submission failed", map[string]interface{}{
			"error":    err,
			"duration": time.Since(start).String(),
		})
		return err
	}

	d.logger.Info("profile submitted", map[string]interface{}{
		"fields":   len(draft.FilledFields()),
		"files":    len(payload.Files()),
		"duration": time.Since(start).String(),
	})

	if d.mirror != nil {
		if err := d.mirror.CacheProfile(ctx, draft); err != nil {
			d.logger.Warn("failed to update local profile copy", map[string]interface{}{"error": err})
		}
	}
	return nil
}
