// Package application runs job applications, including the detour through
// the profile wizard when the server reports an incomplete profile.
package application

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/common/metrics"
	"jobportal-workers/internal/models"
	"jobportal-workers/internal/notify"
	"jobportal-workers/internal/profile"
)

// JobAPI is the subset of the remote API the orchestrator calls.
type JobAPI interface {
	ApplyJob(ctx context.Context, jobID string) (string, error)
	FetchProfileForEdit(ctx context.Context) ([]byte, error)
	FetchDashboard(ctx context.Context) ([]byte, error)
}

// SessionView exposes the cached user and profile mirror.
type SessionView interface {
	User(ctx context.Context) (*models.User, bool)
	CachedProfile(ctx context.Context) []byte
}

// WizardLauncher presents w to the user and returns once the user finished
// or abandoned it. The outcome is read from w.State().
type WizardLauncher interface {
	Launch(ctx context.Context, w *profile.Wizard) error
}

// Mailer sends the application confirmation.
type Mailer interface {
	SendApplicationConfirmation(ctx context.Context, to, jobID string) error
}

type Options struct {
	API       JobAPI
	Session   SessionView
	Submitter profile.Submitter
	Launcher  WizardLauncher
	Notifier  notify.Notifier
	// Mailer is optional.
	Mailer Mailer
	Logger logger.Logger
	Now    func() time.Time
}

type Orchestrator struct {
	api       JobAPI
	session   SessionView
	submitter profile.Submitter
	launcher  WizardLauncher
	notifier  notify.Notifier
	mailer    Mailer
	logger    logger.Logger
	now       func() time.Time
}

func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.API == nil {
		return nil, stderrors.New("API is required")
	}
	log := logger.Named(opts.Logger, "job-application")

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(log)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Orchestrator{
		api:       opts.API,
		session:   opts.Session,
		submitter: opts.Submitter,
		launcher:  opts.Launcher,
		notifier:  notifier,
		mailer:    opts.Mailer,
		logger:    log,
		now:       now,
	}, nil
}

// Apply applies for jobID. When the server reports an incomplete profile the
// wizard is opened, seeded with the best known profile, and on completion the
// application is attempted exactly once more. The returned attempt is the
// last one made.
func (o *Orchestrator) Apply(ctx context.Context, jobID string) (*models.JobApplicationAttempt, error) {
	attempt, err := o.Attempt(ctx, jobID)
	if err == nil {
		return attempt, nil
	}
	if !errors.IsProfileIncomplete(err) {
		o.toast(ctx, notify.SeverityError, errors.UserMessage(err))
		return attempt, err
	}

	completed, werr := o.CompleteProfile(ctx)
	if werr != nil {
		o.toast(ctx, notify.SeverityError, errors.UserMessage(werr))
		return attempt, werr
	}
	if !completed {
		o.logger.Info("profile wizard abandoned", map[string]interface{}{"jobId": jobID})
		return attempt, err
	}

	retry, err := o.Attempt(ctx, jobID)
	if err != nil {
		// A second incomplete-profile answer is terminal.
		o.toast(ctx, notify.SeverityError, errors.UserMessage(err))
		return retry, err
	}
	return retry, nil
}

// Attempt makes a single apply call and records it. On success it sends the
// success toast and the confirmation email.
func (o *Orchestrator) Attempt(ctx context.Context, jobID string) (*models.JobApplicationAttempt, error) {
	msg, err := o.api.ApplyJob(ctx, jobID)

	attempt := &models.JobApplicationAttempt{
		ID:          uuid.NewString(),
		JobID:       jobID,
		AttemptedAt: o.now().UTC(),
	}
	switch {
	case err == nil:
		attempt.Outcome = models.OutcomeApplied
		attempt.Message = msg
	case errors.IsProfileIncomplete(err):
		attempt.Outcome = models.OutcomeProfileIncomplete
		attempt.Message = errors.UserMessage(err)
	default:
		attempt.Outcome = models.OutcomeError
		attempt.Message = errors.UserMessage(err)
	}
	metrics.JobApplyAttempts.WithLabelValues(string(attempt.Outcome)).Inc()

	o.logger.Info("job apply attempt", map[string]interface{}{
		"attemptId": attempt.ID,
		"jobId":     jobID,
		"outcome":   string(attempt.Outcome),
	})

	if err != nil {
		return attempt, err
	}
	o.onApplied(ctx, attempt)
	return attempt, nil
}

// CompleteProfile loads the best known profile, runs the wizard through the
// launcher and reports whether the profile was submitted.
func (o *Orchestrator) CompleteProfile(ctx context.Context) (bool, error) {
	if o.launcher == nil || o.submitter == nil {
		return false, stderrors.New("profile wizard is not configured")
	}

	w, err := profile.NewWizard(profile.Options{
		Draft:     o.LoadProfile(ctx),
		Submitter: o.submitter,
		Notifier:  o.notifier,
		Logger:    o.logger,
		Now:       o.now,
	})
	if err != nil {
		return false, err
	}

	if err := o.launcher.Launch(ctx, w); err != nil {
		return false, err
	}
	return w.State() == profile.Done, nil
}

// LoadProfile merges the edit, dashboard and cached profiles. Fetch failures
// leave the corresponding source empty.
func (o *Orchestrator) LoadProfile(ctx context.Context) *models.ProfileDraft {
	var src profile.Sources

	if body, err := o.api.FetchProfileForEdit(ctx); err != nil {
		o.logger.Warn("profile fetch failed", map[string]interface{}{"error": err})
	} else {
		src.Edit = body
	}
	if body, err := o.api.FetchDashboard(ctx); err != nil {
		o.logger.Warn("dashboard fetch failed", map[string]interface{}{"error": err})
	} else {
		src.Dashboard = body
	}
	if o.session != nil {
		src.Cached = o.session.CachedProfile(ctx)
	}
	return profile.Normalize(src)
}

func (o *Orchestrator) onApplied(ctx context.Context, attempt *models.JobApplicationAttempt) {
	o.toast(ctx, notify.SeveritySuccess, attempt.Message)

	if o.mailer == nil || o.session == nil {
		return
	}
	user, ok := o.session.User(ctx)
	if !ok || user.Email == "" {
		return
	}
	if err := o.mailer.SendApplicationConfirmation(ctx, user.Email, attempt.JobID); err != nil {
		o.logger.Warn("confirmation email not sent", map[string]interface{}{
			"jobId": attempt.JobID,
			"error": err,
		})
	}
}

func (o *Orchestrator) toast(ctx context.Context, severity notify.Severity, message string) {
	if err := o.notifier.Notify(ctx, severity, message); err != nil {
		o.logger.Warn("notification failed", map[string]interface{}{"error": err})
	}
}
