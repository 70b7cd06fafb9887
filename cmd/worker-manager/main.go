// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"jobportal-workers/internal/application"
	commonaws "jobportal-workers/internal/common/aws"
	"jobportal-workers/internal/common/cache"
	"jobportal-workers/internal/common/camunda"
	"jobportal-workers/internal/common/config"
	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/common/observability"
	"jobportal-workers/internal/models"
	"jobportal-workers/internal/notify"
	"jobportal-workers/internal/profile"

	aj "jobportal-workers/internal/workers/application/apply-job"
	sp "jobportal-workers/internal/workers/profile/submit-profile"
	vps "jobportal-workers/internal/workers/profile/validate-profile-step"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("worker-manager", log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Key-value store for the session mirror and lookup cache ---
	store := cache.NewRedis(cfg.Cache.Redis)
	err = retryWithBackoff(func() error {
		return store.Ping(ctx)
	}, 10, time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer store.Close()

	// --- Notification channels ---
	notifier, mailer := buildNotifiers(ctx, cfg, log, zapLog)

	// Each job is served by a Scope of its own.
	scopes := application.NewScopes(application.ScopesOptions{
		Store:     store,
		Session:   cfg.Session,
		API:       cfg.API,
		LookupTTL: time.Duration(cfg.Cache.LookupTTL) * time.Second,
		Notifier:  notifier,
		Mailer:    mailer,
		Logger:    log,
	})

	// --- Camunda client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.Connect(camunda.OptionsFromConfig(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Workers ---
	applyJob, err := aj.NewHandler(aj.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       camundaClient,
		Logger:        log,
		Observability: obs,
		Appliers: func(ctx context.Context, caller models.Caller) (aj.Applier, error) {
			scope, err := scopes.For(caller)
			if err != nil {
				return nil, err
			}
			return scope.Orchestrator, nil
		},
	})
	if err != nil {
		zapLog.Fatal("failed to create apply-job handler", zap.Error(err))
	}

	validateStep, err := vps.NewHandler(vps.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       camundaClient,
		Logger:        log,
		Notifier:      notifier,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create validate-profile-step handler", zap.Error(err))
	}

	submitProfile, err := sp.NewHandler(sp.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       camundaClient,
		Logger:        log,
		Notifier:      notifier,
		Observability: obs,
		Submitters: func(ctx context.Context, caller models.Caller) (profile.Submitter, error) {
			scope, err := scopes.For(caller)
			if err != nil {
				return nil, err
			}
			return scope.Dispatcher, nil
		},
	})
	if err != nil {
		zapLog.Fatal("failed to create submit-profile handler", zap.Error(err))
	}

	workers := camunda.NewWorkerSet(log)
	if err := workers.Register(applyJob, validateStep, submitProfile); err != nil {
		zapLog.Fatal("worker registration failed", zap.Error(err))
	}
	zapLog.Info("Workers registered", zap.Strings("taskTypes", workers.TaskTypes()))

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           healthMux(camundaClient, store),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// buildNotifiers always logs toasts. SNS fan-out and SES mail are added when
// enabled; a failed AWS setup falls back to logging only.
func buildNotifiers(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) (notify.Notifier, application.Mailer) {
	logNotifier := notify.NewLogNotifier(log)

	n := cfg.Notifications
	if !n.SNS.Enabled && !n.SES.Enabled {
		return logNotifier, nil
	}

	clients, err := commonaws.NewClients(ctx, n.Region)
	if err != nil {
		zapLog.Warn("AWS notifications disabled", zap.Error(err))
		return logNotifier, nil
	}

	var notifier notify.Notifier = logNotifier
	if n.SNS.Enabled {
		notifier = notify.Multi{logNotifier, notify.NewSNSNotifier(clients.SNS, n.SNS.TopicARN, log)}
	}

	var mailer application.Mailer
	if n.SES.Enabled {
		mailer = notify.NewSESMailer(clients.SES, n.SES.FromEmail, log)
	}
	return notifier, mailer
}

func healthMux(camundaClient *camunda.Client, store *cache.RedisStore) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"camunda": "ok", "redis": "ok"}
		status := http.StatusOK
		if err := camundaClient.HealthCheck(ctx); err != nil {
			checks["camunda"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := store.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		label := "ready"
		if status != http.StatusOK {
			label = "not_ready"
		}
		writeStatus(w, status, label, checks)
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if checks != nil {
		body["checks"] = checks
	}
	_ = json.NewEncoder(w).Encode(body)
}
