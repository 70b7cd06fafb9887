// Package session holds the signed-in user's token and cached data. A Session
// is built once and passed explicitly to the components that need it. Worker
// jobs use Scoped to get a Session of their own.
package session

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"jobportal-workers/internal/common/config"
	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/models"
)

// KeyValueStore is the persistence collaborator. A missing key is ("", false, nil).
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Session struct {
	store      KeyValueStore
	prefix     string
	profileTTL time.Duration
	logger     logger.Logger

	// Set on scoped sessions only.
	userID string
	token  string
	email  string
}

func New(store KeyValueStore, cfg config.SessionConfig, log logger.Logger) *Session {
	prefix := strings.TrimRight(cfg.KeyPrefix, ":")
	if prefix == "" {
		prefix = "jobportal:session"
	}
	return &Session{
		store:      store,
		prefix:     prefix,
		profileTTL: time.Duration(cfg.ProfileTTL) * time.Second,
		logger:     logger.Named(log, "session"),
	}
}

// Scoped returns a Session for one caller with its keys under the caller's
// user id, so a Clear leaves other users untouched. A token or email carried
// by the caller takes precedence over the stored one. A scoped Session belongs
// to a single job and must not be shared.
func (s *Session) Scoped(caller models.Caller) *Session {
	userID := strings.TrimSpace(caller.UserID)
	return &Session{
		store:      s.store,
		prefix:     s.prefix + ":user:" + userID,
		profileTTL: s.profileTTL,
		logger:     s.logger.WithFields(map[string]interface{}{"userId": userID}),
		userID:     userID,
		token:      strings.TrimSpace(caller.Token),
		email:      strings.TrimSpace(caller.Email),
	}
}

func (s *Session) tokenKey() string   { return s.prefix + ":token" }
func (s *Session) userKey() string    { return s.prefix + ":user" }
func (s *Session) profileKey() string { return s.prefix + ":profile" }

// Token returns the bearer token, or "" when none is stored or the store fails.
func (s *Session) Token(ctx context.Context) string {
	if s.token != "" {
		return s.token
	}
	token, ok, err := s.store.Get(ctx, s.tokenKey())
	if err != nil {
		s.logger.Warn("token read failed", map[string]interface{}{"error": err})
		return ""
	}
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, s.tokenKey(), token, 0); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

// User returns the cached user. Missing or malformed entries yield (nil, false)
// unless the caller supplied an email.
func (s *Session) User(ctx context.Context) (*models.User, bool) {
	u, ok := s.storedUser(ctx)
	if s.email == "" {
		return u, ok
	}
	if !ok {
		return &models.User{ID: s.userID, Email: s.email}, true
	}
	u.Email = s.email
	return u, true
}

func (s *Session) storedUser(ctx context.Context) (*models.User, bool) {
	raw, ok, err := s.store.Get(ctx, s.userKey())
	if err != nil || !ok {
		return nil, false
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		s.logger.Warn("discarding malformed cached user", map[string]interface{}{"error": err})
		return nil, false
	}
	return &u, true
}

func (s *Session) SetUser(ctx context.Context, u *models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.userKey(), string(data), 0); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

// CachedProfile returns the raw local profile mirror, or nil.
func (s *Session) CachedProfile(ctx context.Context) []byte {
	raw, ok, err := s.store.Get(ctx, s.profileKey())
	if err != nil {
		s.logger.Warn("profile mirror read failed", map[string]interface{}{"error": err})
		return nil
	}
	if !ok {
		return nil
	}
	return []byte(raw)
}

// CacheProfile writes the opportunistic mirror of draft under UI names.
func (s *Session) CacheProfile(ctx context.Context, draft *models.ProfileDraft) error {
	data, err := json.Marshal(draft.ToUIMap())
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.profileKey(), string(data), s.profileTTL); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

// Clear drops the token, the user and the profile mirror.
func (s *Session) Clear(ctx context.Context) error {
	s.token = ""
	if err := s.store.Del(ctx, s.tokenKey(), s.userKey(), s.profileKey()); err != nil {
		s.logger.Error("failed to clear session", map[string]interface{}{"error": err})
		return errors.NewCacheUnavailableError(err)
	}
	s.logger.Info("session cleared", nil)
	return nil
}
