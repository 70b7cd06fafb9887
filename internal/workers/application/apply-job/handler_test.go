package applyjob

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"jobportal-workers/internal/common/config"
	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Applier
// ==========================

type MockApplier struct {
	mock.Mock
}

func (m *MockApplier) Attempt(ctx context.Context, jobID string) (*models.JobApplicationAttempt, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobApplicationAttempt), args.Error(1)
}

// singleApplier serves every caller with the same Applier.
func singleApplier(a Applier) ApplierFactory {
	return func(ctx context.Context, caller models.Caller) (Applier, error) {
		return a, nil
	}
}

// ==========================
// Mock Job Helper
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "job-application",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_ApplyJob",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

// ==========================
// Test Helpers
// ==========================

func createValidConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
	}
}

func newTestHandler(t *testing.T, applier Applier) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Logger:       logger.NewTestLogger(t),
		Appliers:     singleApplier(applier),
	})
	require.NoError(t, err)
	return h
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid configuration",
			opts: HandlerOptions{
				CustomConfig: createValidConfig(),
				Logger:       logger.NewStructured("info", "json"),
				Appliers:     singleApplier(&MockApplier{}),
			},
		},
		{
			name: "default logger",
			opts: HandlerOptions{
				CustomConfig: createValidConfig(),
				Appliers:     singleApplier(&MockApplier{}),
			},
		},
		{
			name: "invalid timeout",
			opts: HandlerOptions{
				CustomConfig: &Config{Enabled: true, MaxJobsActive: 5},
				Appliers:     singleApplier(&MockApplier{}),
			},
			wantErr: true,
			errMsg:  "timeout must be positive",
		},
		{
			name: "invalid max jobs",
			opts: HandlerOptions{
				CustomConfig: &Config{Enabled: true, Timeout: time.Second},
				Appliers:     singleApplier(&MockApplier{}),
			},
			wantErr: true,
			errMsg:  "max_jobs_active must be positive",
		},
		{
			name: "missing applier factory",
			opts: HandlerOptions{
				CustomConfig: createValidConfig(),
			},
			wantErr: true,
			errMsg:  "applier factory is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewHandler(tt.opts)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, handler)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, handler.service)
			assert.NotNil(t, handler.errorHandler)
		})
	}
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	tests := []struct {
		name      string
		variables map[string]interface{}
		want      *Input
		wantErr   bool
	}{
		{
			name:      "job and user",
			variables: map[string]interface{}{"jobId": "42", "userId": "u-1"},
			want:      &Input{JobID: "42", UserID: "u-1"},
		},
		{
			name:      "caller token and email",
			variables: map[string]interface{}{"jobId": "42", "userId": "u-1", "authToken": "tok", "userEmail": "asha@example.com"},
			want:      &Input{JobID: "42", UserID: "u-1", AuthToken: "tok", UserEmail: "asha@example.com"},
		},
		{
			name:      "reapply flag",
			variables: map[string]interface{}{"jobId": "42", "userId": "u-1", "reapply": true},
			want:      &Input{JobID: "42", UserID: "u-1", Reapply: true},
		},
		{
			name:      "unrelated process variables are ignored",
			variables: map[string]interface{}{"jobId": "42", "userId": "u-1", "applied": false},
			want:      &Input{JobID: "42", UserID: "u-1"},
		},
		{
			name:      "missing job id",
			variables: map[string]interface{}{"userId": "u-1", "reapply": true},
			wantErr:   true,
		},
		{
			name:      "missing user id",
			variables: map[string]interface{}{"jobId": "42", "authToken": "tok"},
			wantErr:   true,
		},
		{
			name:      "empty job id",
			variables: map[string]interface{}{"jobId": "", "userId": "u-1"},
			wantErr:   true,
		},
		{
			name:      "numeric job id",
			variables: map[string]interface{}{"jobId": 42, "userId": "u-1"},
			wantErr:   true,
		},
		{
			name:      "reapply of wrong type",
			variables: map[string]interface{}{"jobId": "42", "userId": "u-1", "reapply": "yes"},
			wantErr:   true,
		},
	}

	handler := newTestHandler(t, &MockApplier{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := handler.parseInput(createMockJob(1, tt.variables))

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidJobInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, input)
		})
	}
}

// ==========================
// Service Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	attemptedAt := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	t.Run("applied", func(t *testing.T) {
		applier := &MockApplier{}
		applier.On("Attempt", mock.Anything, "42").Return(&models.JobApplicationAttempt{
			ID:          "att-1",
			JobID:       "42",
			Outcome:     models.OutcomeApplied,
			Message:     "Applied successfully",
			AttemptedAt: attemptedAt,
		}, nil).Once()

		output, err := newTestHandler(t, applier).Execute(context.Background(), &Input{JobID: "42", UserID: "u-1"})

		require.NoError(t, err)
		assert.Equal(t, &Output{
			Applied:     true,
			Message:     "Applied successfully",
			AttemptID:   "att-1",
			Outcome:     "applied",
			AttemptedAt: attemptedAt,
		}, output)
		applier.AssertExpectations(t)
	})

	t.Run("profile incomplete is returned for the wizard", func(t *testing.T) {
		pie := &errors.ProfileIncompleteError{JobID: "42", Message: "Complete your profile"}
		applier := &MockApplier{}
		applier.On("Attempt", mock.Anything, "42").Return(&models.JobApplicationAttempt{Outcome: models.OutcomeProfileIncomplete}, pie).Once()

		output, err := newTestHandler(t, applier).Execute(context.Background(), &Input{JobID: "42", UserID: "u-1"})

		assert.Nil(t, output)
		assert.True(t, errors.IsProfileIncomplete(err))

		bpmnErr := errors.ConvertToBPMNError(errors.Normalize(err))
		assert.Equal(t, "PROFILE_INCOMPLETE", bpmnErr.Code)
		assert.Equal(t, 0, bpmnErr.Retries)
		assert.Equal(t, "Complete your profile", bpmnErr.ErrorVariables["userMessage"])
	})

	t.Run("profile incomplete on reapply is terminal", func(t *testing.T) {
		pie := &errors.ProfileIncompleteError{JobID: "42", Message: "Complete your profile"}
		applier := &MockApplier{}
		applier.On("Attempt", mock.Anything, "42").Return(nil, pie).Once()

		_, err := newTestHandler(t, applier).Execute(context.Background(), &Input{JobID: "42", UserID: "u-1", Reapply: true})

		require.Error(t, err)
		assert.False(t, errors.IsProfileIncomplete(err))
		assert.True(t, errors.HasCode(err, errors.ErrCodeServerValidationFailed))
		assert.Equal(t, "Complete your profile", errors.UserMessage(err))
	})

	t.Run("transport error passes through", func(t *testing.T) {
		netErr := errors.NewNetworkError("apply", stderrors.New("connection refused"))
		applier := &MockApplier{}
		applier.On("Attempt", mock.Anything, "42").Return(nil, netErr).Once()

		_, err := newTestHandler(t, applier).Execute(context.Background(), &Input{JobID: "42", UserID: "u-1"})

		assert.Same(t, netErr, err)
		assert.Equal(t, 2, errors.ConvertToBPMNError(errors.Normalize(err)).Retries)
	})
}

func TestHandler_JobsActForTheirOwnCaller(t *testing.T) {
	attempts := map[string]*MockApplier{"u-1": {}, "u-2": {}}
	attempts["u-1"].On("Attempt", mock.Anything, "42").Return(&models.JobApplicationAttempt{ID: "att-1", Outcome: models.OutcomeApplied}, nil).Once()
	attempts["u-2"].On("Attempt", mock.Anything, "43").Return(&models.JobApplicationAttempt{ID: "att-2", Outcome: models.OutcomeApplied}, nil).Once()

	var callers []models.Caller
	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Logger:       logger.NewTestLogger(t),
		Appliers: func(ctx context.Context, caller models.Caller) (Applier, error) {
			callers = append(callers, caller)
			return attempts[caller.UserID], nil
		},
	})
	require.NoError(t, err)

	jobs := []entities.Job{
		createMockJob(1, map[string]interface{}{"jobId": "42", "userId": "u-1", "authToken": "token-1", "userEmail": "asha@example.com"}),
		createMockJob(2, map[string]interface{}{"jobId": "43", "userId": "u-2", "authToken": "token-2"}),
	}
	var attemptIDs []string
	for _, job := range jobs {
		input, err := h.parseInput(job)
		require.NoError(t, err)
		output, err := h.Execute(context.Background(), input)
		require.NoError(t, err)
		attemptIDs = append(attemptIDs, output.AttemptID)
	}

	assert.Equal(t, []models.Caller{
		{UserID: "u-1", Token: "token-1", Email: "asha@example.com"},
		{UserID: "u-2", Token: "token-2"},
	}, callers)
	assert.Equal(t, []string{"att-1", "att-2"}, attemptIDs)
	attempts["u-1"].AssertExpectations(t)
	attempts["u-2"].AssertExpectations(t)
}

func TestHandler_ApplierFactoryError(t *testing.T) {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Logger:       logger.NewTestLogger(t),
		Appliers: func(ctx context.Context, caller models.Caller) (Applier, error) {
			return nil, errors.NewInvalidJobInputError("userId is required")
		},
	})
	require.NoError(t, err)

	output, err := h.Execute(context.Background(), &Input{JobID: "42"})

	assert.Nil(t, output)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidJobInput))
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_ExtractErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"profile incomplete", &errors.ProfileIncompleteError{JobID: "1"}, "PROFILE_INCOMPLETE"},
		{"standard error", errors.NewServerFaultError(502, "bad gateway"), "SERVER_FAULT"},
		{"wrapped standard error", stderrors.Join(stderrors.New("ctx"), errors.NewSessionExpiredError("")), "SESSION_EXPIRED"},
		{"plain error", stderrors.New("boom"), "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractErrorCode(tt.err))
		})
	}
}

// ==========================
// Configuration Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{"valid", createValidConfig(), ""},
		{"zero timeout", &Config{MaxJobsActive: 1}, "timeout must be positive"},
		{"negative max jobs", &Config{MaxJobsActive: -1, Timeout: time.Second}, "max_jobs_active must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.MaxJobsActive)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	t.Run("custom config wins", func(t *testing.T) {
		custom := &Config{Enabled: false, MaxJobsActive: 1, Timeout: time.Second}
		assert.Same(t, custom, createConfigFromAppConfig(&config.Config{}, custom))
	})

	t.Run("worker section applied", func(t *testing.T) {
		appConfig := &config.Config{Workers: map[string]config.WorkerConfig{
			"apply-job": {Enabled: false, MaxJobsActive: 8, Timeout: 15000},
		}}

		cfg := createConfigFromAppConfig(appConfig, nil)

		assert.False(t, cfg.Enabled)
		assert.Equal(t, 8, cfg.MaxJobsActive)
		assert.Equal(t, 15*time.Second, cfg.Timeout)
	})

	t.Run("missing section keeps defaults", func(t *testing.T) {
		cfg := createConfigFromAppConfig(&config.Config{}, nil)
		assert.Equal(t, DefaultConfig(), cfg)
	})
}

func TestHandler_Accessors(t *testing.T) {
	h := newTestHandler(t, &MockApplier{})

	assert.Equal(t, "job.apply", h.GetTaskType())
	assert.True(t, h.IsEnabled())
	assert.Equal(t, createValidConfig(), h.GetConfig())
	assert.Error(t, h.Register(), "registration needs a camunda client")

	h.config.Enabled = false
	assert.NoError(t, h.Register())
	h.Close()
}

func TestGetSchemas(t *testing.T) {
	in := GetInputSchema()
	assert.Equal(t, []string{"jobId", "userId"}, in.Required)
	assert.True(t, in.AdditionalProperties)

	out := GetOutputSchema()
	assert.Contains(t, out.Properties, "applied")
	assert.Equal(t, []string{"applied", "profile_incomplete", "error"}, out.Properties["applyOutcome"].Enum)
}
