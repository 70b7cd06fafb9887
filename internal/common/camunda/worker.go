// internal/common/camunda/worker.go
package camunda

import (
	"fmt"
	"time"

	"jobportal-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every worker under internal/workers.
type JobHandler interface {
	GetTaskType() string
	IsEnabled() bool
	Register() error
	Close()
}

// OpenJobWorker starts polling taskType with handler.
func OpenJobWorker(
	client zbc.Client,
	taskType string,
	maxJobsActive int,
	timeout time.Duration,
	handler worker.JobHandler,
) worker.JobWorker {
	return client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(maxJobsActive).
		Timeout(timeout).
		Name(fmt.Sprintf("%s-worker", taskType)).
		Open()
}

// WorkerSet owns the registered handlers of a process.
type WorkerSet struct {
	handlers []JobHandler
	logger   logger.Logger
}

func NewWorkerSet(log logger.Logger) *WorkerSet {
	return &WorkerSet{logger: logger.Named(log, "workers")}
}

// Register registers each handler in order. If one fails, the handlers
// registered so far are closed and the error is returned.
func (s *WorkerSet) Register(handlers ...JobHandler) error {
	for _, h := range handlers {
		if err := h.Register(); err != nil {
			s.Close()
			return fmt.Errorf("failed to register %s: %w", h.GetTaskType(), err)
		}
		s.handlers = append(s.handlers, h)
		s.logger.Info("worker registered", map[string]interface{}{
			"taskType": h.GetTaskType(),
			"enabled":  h.IsEnabled(),
		})
	}
	return nil
}

// TaskTypes lists the task types of enabled handlers.
func (s *WorkerSet) TaskTypes() []string {
	var out []string
	for _, h := range s.handlers {
		if h.IsEnabled() {
			out = append(out, h.GetTaskType())
		}
	}
	return out
}

// Close closes handlers in reverse registration order.
func (s *WorkerSet) Close() {
	for i := len(s.handlers) - 1; i >= 0; i-- {
		s.handlers[i].Close()
	}
	s.handlers = nil
}
