package application

import (
	"strings"
	"time"

	"jobportal-workers/internal/api"
	"jobportal-workers/internal/common/config"
	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/models"
	"jobportal-workers/internal/notify"
	"jobportal-workers/internal/profile"
	"jobportal-workers/internal/session"
)

// Scope is the set of collaborators acting for one caller.
type Scope struct {
	Caller       models.Caller
	Session      *session.Session
	API          *api.Client
	Orchestrator *Orchestrator
	Dispatcher   *profile.Dispatcher
}

type ScopesOptions struct {
	Store     session.KeyValueStore
	Session   config.SessionConfig
	API       config.APIConfig
	LookupTTL time.Duration
	Notifier  notify.Notifier
	// Mailer is optional.
	Mailer Mailer
	Logger logger.Logger
	Now    func() time.Time
}

// Scopes builds a Scope per worker job. Only the key-value store and the
// lookup cache are shared between scopes.
type Scopes struct {
	base      *session.Session
	store     session.KeyValueStore
	apiConfig config.APIConfig
	lookupTTL time.Duration
	notifier  notify.Notifier
	mailer    Mailer
	logger    logger.Logger
	now       func() time.Time
}

func NewScopes(opts ScopesOptions) *Scopes {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Scopes{
		base:      session.New(opts.Store, opts.Session, log),
		store:     opts.Store,
		apiConfig: opts.API,
		lookupTTL: opts.LookupTTL,
		notifier:  opts.Notifier,
		mailer:    opts.Mailer,
		logger:    log,
		now:       opts.Now,
	}
}

// For returns a fresh Scope for caller. A caller without a user id is
// rejected as invalid job input.
func (s *Scopes) For(caller models.Caller) (*Scope, error) {
	caller.UserID = strings.TrimSpace(caller.UserID)
	if caller.UserID == "" {
		return nil, errors.NewInvalidJobInputError("userId is required")
	}

	log := s.logger.WithFields(map[string]interface{}{"userId": caller.UserID})
	sess := s.base.Scoped(caller)

	client := api.NewClient(api.Options{
		API:       s.apiConfig,
		Session:   sess,
		Lookups:   s.store,
		LookupTTL: s.lookupTTL,
		Logger:    log,
	})
	dispatcher := profile.NewDispatcher(client, sess, log)

	orch, err := NewOrchestrator(Options{
		API:       client,
		Session:   sess,
		Submitter: dispatcher,
		Notifier:  s.notifier,
		Mailer:    s.mailer,
		Logger:    log,
		Now:       s.now,
	})
	if err != nil {
		return nil, err
	}

	return &Scope{
		Caller:       caller,
		Session:      sess,
		API:          client,
		Orchestrator: orch,
		Dispatcher:   dispatcher,
	}, nil
}
