// Package notify delivers user-facing messages (the "toast" surface) and
// application confirmation emails.
package notify

import (
	"context"
	"strings"
	"sync"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier surfaces a message to the user. Implementations must accept any
// message; callers never pass raw errors.
type Notifier interface {
	Notify(ctx context.Context, severity Severity, message string) error
}

// ensureMessage substitutes a generic message for a blank one.
func ensureMessage(message string) string {
	if m := strings.TrimSpace(message); m != "" {
		return m
	}
	return errors.MsgSomethingWentWrong
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named(log, "notify")}
}

func (n *LogNotifier) Notify(_ context.Context, severity Severity, message string) error {
	fields := map[string]interface{}{
		"severity": string(severity),
		"message":  ensureMessage(message),
	}
	switch severity {
	case SeverityError:
		n.logger.Error("user notification", fields)
	case SeverityWarning:
		n.logger.Warn("user notification", fields)
	default:
		n.logger.Info("user notification", fields)
	}
	return nil
}

// Multi fans a notification out to every notifier and returns the first error.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, severity Severity, message string) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, severity, message); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Recorder keeps notifications in memory. Used by tests and dry runs.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

type Message struct {
	Severity Severity
	Text     string
}

func (r *Recorder) Notify(_ context.Context, severity Severity, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Severity: severity, Text: ensureMessage(message)})
	return nil
}

// Count returns how many messages of severity were recorded.
func (r *Recorder) Count(severity Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.Messages {
		if m.Severity == severity {
			n++
		}
	}
	return n
}
