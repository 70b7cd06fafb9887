package profile

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/common/metrics"
	"jobportal-workers/internal/models"
	"jobportal-workers/internal/notify"
)

// MsgProfileSaved is the success toast after a completed submission.
const MsgProfileSaved = "Profile updated successfully"

// Sentinels for errors.Is. Returned errors carry the same code plus detail.
var (
	ErrStepIncomplete     = &errors.StandardError{Code: errors.ErrCodeFieldValidationFailed, Message: errors.MsgFillRequiredFields}
	ErrSubmissionInFlight = &errors.StandardError{Code: errors.ErrCodeSubmissionInFlight, Message: errors.MsgSubmissionInFlight}
	ErrInvalidTransition  = &errors.StandardError{Code: errors.ErrCodeInvalidTransition, Message: "Action not allowed at this step"}

	// ErrCancelled is returned by Submit when the wizard was cancelled while
	// the submission was in flight. The submission result is discarded.
	ErrCancelled = stderrors.New("profile wizard cancelled")
)

// Submitter sends a frozen draft. Dispatcher is the production implementation.
type Submitter interface {
	Submit(ctx context.Context, draft *models.ProfileDraft) error
}

type Options struct {
	// Draft seeds the wizard; it is copied. Nil starts empty.
	Draft     *models.ProfileDraft
	Submitter Submitter
	Notifier  notify.Notifier
	Logger    logger.Logger
	// Now anchors the age check. Defaults to time.Now.
	Now func() time.Time
}

// Wizard is the three-step profile-completion state machine. Each instance
// owns its draft exclusively. Methods are safe for concurrent use.
type Wizard struct {
	id        string
	submitter Submitter
	notifier  notify.Notifier
	logger    logger.Logger
	now       func() time.Time

	mu       sync.Mutex
	state    State
	draft    *models.ProfileDraft
	result   StepValidationResult
	inFlight bool
}

func NewWizard(opts Options) (*Wizard, error) {
	if opts.Submitter == nil {
		return nil, stderrors.New("submitter is required")
	}

	id := uuid.NewString()
	log := logger.Named(opts.Logger, "profile-wizard").WithFields(map[string]interface{}{"wizardId": id})

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(log)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	draft := &models.ProfileDraft{}
	if opts.Draft != nil {
		draft = opts.Draft.Clone()
	}

	w := &Wizard{
		id:        id,
		submitter: opts.Submitter,
		notifier:  notifier,
		logger:    log,
		now:       now,
		state:     StepPersonal,
		draft:     draft,
	}
	w.result = ValidateStep(draft, StepPersonal, now())
	return w, nil
}

func (w *Wizard) ID() string {
	return w.id
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() *models.ProfileDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

// Result returns the last validation result of the current step.
func (w *Wizard) Result() StepValidationResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyResult(w.result)
}

// ==========================
// Editing
// ==========================

// SetField stores value under a scalar field given by backend, UI or alias
// name, and revalidates the current step.
func (w *Wizard) SetField(name, value string) (StepValidationResult, error) {
	return w.edit("set_field", func(d *models.ProfileDraft) { d.Set(name, value) })
}

func (w *Wizard) SetList(name string, values []string) (StepValidationResult, error) {
	return w.edit("set_list", func(d *models.ProfileDraft) { d.SetList(name, values) })
}

func (w *Wizard) SetAttachment(name string, a models.Attachment) (StepValidationResult, error) {
	return w.edit("set_attachment", func(d *models.ProfileDraft) { d.SetAttachment(name, a) })
}

func (w *Wizard) edit(action string, apply func(*models.ProfileDraft)) (StepValidationResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.state.IsStep() {
		return StepValidationResult{}, errors.NewInvalidTransitionError(action, w.state.String())
	}
	apply(w.draft)
	w.result = ValidateStep(w.draft, w.state, w.now())
	return copyResult(w.result), nil
}

// ==========================
// Navigation
// ==========================

// Next validates the current step and advances to the following one. On
// failure the wizard stays put and one warning toast is sent.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	step := w.state
	if step != StepPersonal && step != StepCareer {
		w.mu.Unlock()
		return errors.NewInvalidTransitionError("next", step.String())
	}

	w.result = ValidateStep(w.draft, step, w.now())
	if !w.result.Valid {
		err := w.result.Err(step)
		w.mu.Unlock()
		w.reject(ctx, step)
		return err
	}

	w.moveTo(step + 1)
	w.mu.Unlock()
	return nil
}

// Back returns to the previous step without validation. Entered data is kept.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StepCareer && w.state != StepAddress {
		return errors.NewInvalidTransitionError("back", w.state.String())
	}
	w.moveTo(w.state - 1)
	w.result = ValidateStep(w.draft, w.state, w.now())
	return nil
}

// Cancel discards the draft. A submission already in flight is not aborted,
// but its result is ignored.
func (w *Wizard) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == Done || w.state == Cancelled {
		return errors.NewInvalidTransitionError("cancel", w.state.String())
	}
	w.moveTo(Cancelled)
	w.draft = &models.ProfileDraft{}
	w.result = StepValidationResult{}
	return nil
}

// ==========================
// Submission
// ==========================

// Submit validates step 3, freezes the draft and hands it to the submitter.
// Only one submission may be pending at a time.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return errors.NewSubmissionInFlightError()
	}
	if w.state != StepAddress {
		state := w.state
		w.mu.Unlock()
		return errors.NewInvalidTransitionError("submit", state.String())
	}

	w.result = ValidateStep(w.draft, StepAddress, w.now())
	if !w.result.Valid {
		err := w.result.Err(StepAddress)
		w.mu.Unlock()
		w.reject(ctx, StepAddress)
		return err
	}

	frozen := w.draft.Clone()
	w.inFlight = true
	w.moveTo(Submitting)
	w.mu.Unlock()

	err := w.submitter.Submit(ctx, frozen)

	w.mu.Lock()
	w.inFlight = false
	if w.state == Cancelled {
		w.mu.Unlock()
		w.logger.Info("submission finished after cancel; result ignored", map[string]interface{}{"failed": err != nil})
		return ErrCancelled
	}
	if err != nil {
		w.moveTo(StepAddress)
		w.mu.Unlock()
		metrics.ProfileSubmissions.WithLabelValues("failed").Inc()
		w.toast(ctx, notify.SeverityError, errors.UserMessage(err))
		return err
	}
	w.moveTo(Done)
	w.mu.Unlock()

	metrics.ProfileSubmissions.WithLabelValues("succeeded").Inc()
	w.toast(ctx, notify.SeveritySuccess, MsgProfileSaved)
	return nil
}

// moveTo must be called with mu held.
func (w *Wizard) moveTo(next State) {
	metrics.WizardTransitions.WithLabelValues(w.state.String(), next.String()).Inc()
	w.logger.Debug("wizard transition", map[string]interface{}{
		"from": w.state.String(),
		"to":   next.String(),
	})
	w.state = next
}

func (w *Wizard) reject(ctx context.Context, step State) {
	metrics.WizardStepRejections.WithLabelValues(step.String()).Inc()
	w.toast(ctx, notify.SeverityWarning, errors.MsgFillRequiredFields)
}

func (w *Wizard) toast(ctx context.Context, severity notify.Severity, message string) {
	if err := w.notifier.Notify(ctx, severity, message); err != nil {
		w.logger.Warn("notification failed", map[string]interface{}{"error": err})
	}
}

func copyResult(r StepValidationResult) StepValidationResult {
	out := StepValidationResult{Valid: r.Valid, FieldErrors: make(map[string]string, len(r.FieldErrors))}
	for k, v := range r.FieldErrors {
		out.FieldErrors[k] = v
	}
	return out
}
