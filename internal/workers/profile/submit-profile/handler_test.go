package submitprofile

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
	"jobportal-workers/internal/notify"
	"jobportal-workers/internal/profile"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

// ==========================
// Mocks
// ==========================

type MockSubmitter struct {
	SubmitFunc func(ctx context.Context, draft *models.ProfileDraft) error
	calls      []*models.ProfileDraft
}

func (m *MockSubmitter) Submit(ctx context.Context, draft *models.ProfileDraft) error {
	m.calls = append(m.calls, draft)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, draft)
	}
	return nil
}

type MockCompleter struct {
	payloads []*models.SubmissionPayload
}

func (m *MockCompleter) CompleteProfile(_ context.Context, payload *models.SubmissionPayload) error {
	m.payloads = append(m.payloads, payload)
	return nil
}

// ==========================
// Helpers
// ==========================

// singleSubmitter serves every caller with the same Submitter.
func singleSubmitter(sub profile.Submitter) SubmitterFactory {
	return func(ctx context.Context, caller models.Caller) (profile.Submitter, error) {
		return sub, nil
	}
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "job-application",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_SubmitProfile",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

func createValidConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
	}
}

// completeProfile fills every mandatory field, partly under UI names.
func completeProfile() map[string]interface{} {
	return map[string]interface{}{
		models.FieldName:     "Asha Devi",
		models.FieldDOB:      "1990-05-01",
		models.FieldGender:   "female",
		models.FieldWhatsapp: "98765 43210",
		models.FieldMarital:  "single",
		models.FieldEmail:    "Asha@Example.com",

		models.FieldEducation:      "graduate",
		models.FieldTechEducation:  "iti",
		models.FieldPassport:       "yes",
		models.FieldSkill:          "12",
		models.FieldOccupation:     "34",
		models.FieldMigrationExp:   "no",
		models.FieldCurrentIncome:  "-500",
		models.FieldExpectedIncome: "20000-30000",
		models.FieldRelocation:     "yes",
		models.FieldLanguages:      []interface{}{"Hindi", "English"},

		models.UIName(models.FieldState): "10",
		models.FieldDistrict:             "101",
		models.FieldPin:                  "800001",
		models.FieldRefName:              "Ravi Kumar",
		models.FieldRefPhone:             "9123456780",
		models.FieldRefDistance:          "0-5km",
	}
}

func newTestHandler(t *testing.T, submitter profile.Submitter, recorder *notify.Recorder) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Logger:       logger.NewTestLogger(t),
		Submitters:   singleSubmitter(submitter),
		Notifier:     recorder,
		Now:          func() time.Time { return fixedNow },
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
		wantErr string
	}{
		{"valid configuration", HandlerOptions{CustomConfig: createValidConfig(), Submitters: singleSubmitter(&MockSubmitter{})}, ""},
		{"missing submitter factory", HandlerOptions{CustomConfig: createValidConfig()}, "submitter factory is required"},
		{"invalid max jobs", HandlerOptions{CustomConfig: &Config{Timeout: time.Second}, Submitters: singleSubmitter(&MockSubmitter{})}, "max_jobs_active must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "profile.submit", h.GetTaskType())
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
		wantJobID string
		wantErr   bool
	}{
		{"profile only", map[string]interface{}{"profile": completeProfile(), "userId": "u-1"}, "", false},
		{"with job id", map[string]interface{}{"profile": completeProfile(), "userId": "u-1", "jobId": "42"}, "42", false},
		{"missing profile", map[string]interface{}{"jobId": "42", "userId": "u-1"}, "", true},
		{"missing user id", map[string]interface{}{"profile": completeProfile()}, "", true},
		{"null profile", map[string]interface{}{"profile": nil, "userId": "u-1"}, "", true},
		{"profile as list", map[string]interface{}{"profile": []string{"a"}, "userId": "u-1"}, "", true},
	}

	h := newTestHandler(t, &MockSubmitter{}, &notify.Recorder{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(createMockJob(3, tt.variables))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "INVALID_JOB_INPUT", extractErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantJobID, input.JobID)
			assert.Equal(t, "u-1", input.UserID)
			assert.NotEmpty(t, input.Profile)
		})
	}
}

// ==========================
// Service Tests
// ==========================

func TestHandler_Execute_Submits(t *testing.T) {
	submitter := &MockSubmitter{}
	recorder := &notify.Recorder{}

	output, err := newTestHandler(t, submitter, recorder).Execute(context.Background(), &Input{Profile: completeProfile(), JobID: "42", UserID: "u-1"})

	require.NoError(t, err)
	assert.True(t, output.Submitted)
	assert.Equal(t, profile.MsgProfileSaved, output.Message)
	assert.Equal(t, fixedNow, output.SubmittedAt)
	require.Len(t, submitter.calls, 1)
	assert.Equal(t, "10", submitter.calls[0].State)
	assert.Equal(t, []string{"Hindi", "English"}, submitter.calls[0].List(models.FieldLanguages))
	assert.Equal(t, 1, recorder.Count(notify.SeveritySuccess))
}

func TestHandler_Execute_InvalidStepNeverCallsAPI(t *testing.T) {
	submitter := &MockSubmitter{}
	recorder := &notify.Recorder{}
	vars := completeProfile()
	delete(vars, models.FieldCurrentIncome)

	output, err := newTestHandler(t, submitter, recorder).Execute(context.Background(), &Input{Profile: vars, UserID: "u-1"})

	assert.Nil(t, output)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, profile.ErrStepIncomplete))

	stdErr, ok := errors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, int(profile.StepCareer), stdErr.Metadata["step"])
	assert.Equal(t, profile.MsgRequired, stdErr.Metadata[models.FieldCurrentIncome])

	assert.Empty(t, submitter.calls)
	assert.Equal(t, 1, recorder.Count(notify.SeverityWarning))

	bpmnErr := errors.ConvertToBPMNError(errors.Normalize(err))
	assert.Equal(t, "FIELD_VALIDATION_FAILED", bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestHandler_Execute_SubmissionFailure(t *testing.T) {
	recorder := &notify.Recorder{}
	submitter := &MockSubmitter{SubmitFunc: func(context.Context, *models.ProfileDraft) error {
		return errors.NewServerValidationError(200, "PIN code is not serviceable")
	}}

	_, err := newTestHandler(t, submitter, recorder).Execute(context.Background(), &Input{Profile: completeProfile(), UserID: "u-1"})

	require.Error(t, err)
	assert.Equal(t, "SERVER_VALIDATION_FAILED", extractErrorCode(err))
	require.Len(t, recorder.Messages, 1)
	assert.Equal(t, notify.SeverityError, recorder.Messages[0].Severity)
	assert.Equal(t, "PIN code is not serviceable", recorder.Messages[0].Text)
}

func TestHandler_Execute_ThroughDispatcher(t *testing.T) {
	completer := &MockCompleter{}
	dispatcher := profile.NewDispatcher(completer, nil, logger.NewTestLogger(t))

	_, err := newTestHandler(t, dispatcher, &notify.Recorder{}).Execute(context.Background(), &Input{Profile: completeProfile(), UserID: "u-1"})

	require.NoError(t, err)
	require.Len(t, completer.payloads, 1)
	values := completer.payloads[0].AsMap()
	assert.Equal(t, "500", values[models.FieldCurrentIncome])
	assert.Equal(t, "9876543210", values[models.FieldWhatsapp])
	assert.Equal(t, "asha@example.com", values[models.FieldEmail])
	assert.Equal(t, `["Hindi","English"]`, values[models.FieldLanguages])
	assert.Equal(t, "[]", values[models.FieldPrefCountries])
	assert.Equal(t, "", values[models.FieldResume])
}

func TestHandler_SubmissionsActForTheirOwnCaller(t *testing.T) {
	submitters := map[string]*MockSubmitter{"u-1": {}, "u-2": {}}
	var callers []models.Caller

	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Logger:       logger.NewTestLogger(t),
		Notifier:     &notify.Recorder{},
		Now:          func() time.Time { return fixedNow },
		Submitters: func(ctx context.Context, caller models.Caller) (profile.Submitter, error) {
			callers = append(callers, caller)
			return submitters[caller.UserID], nil
		},
	})
	require.NoError(t, err)

	for i, vars := range []map[string]interface{}{
		{"profile": completeProfile(), "userId": "u-1", "authToken": "token-1"},
		{"profile": completeProfile(), "userId": "u-2", "authToken": "token-2"},
	} {
		input, err := h.parseInput(createMockJob(int64(i+1), vars))
		require.NoError(t, err)
		_, err = h.Execute(context.Background(), input)
		require.NoError(t, err)
	}

	assert.Equal(t, []models.Caller{{UserID: "u-1", Token: "token-1"}, {UserID: "u-2", Token: "token-2"}}, callers)
	assert.Len(t, submitters["u-1"].calls, 1)
	assert.Len(t, submitters["u-2"].calls, 1)
}

func TestHandler_InvalidProfileSkipsSubmitterFactory(t *testing.T) {
	vars := completeProfile()
	delete(vars, models.FieldName)

	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Logger:       logger.NewTestLogger(t),
		Notifier:     &notify.Recorder{},
		Now:          func() time.Time { return fixedNow },
		Submitters: func(ctx context.Context, caller models.Caller) (profile.Submitter, error) {
			t.Fatal("factory must not be called for an invalid profile")
			return nil, nil
		},
	})
	require.NoError(t, err)

	_, err = h.Execute(context.Background(), &Input{Profile: vars, UserID: "u-1"})

	assert.True(t, errors.HasCode(err, errors.ErrCodeFieldValidationFailed))
}

// ==========================
// Configuration Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, createValidConfig().Validate())
	assert.Error(t, (&Config{MaxJobsActive: 1}).Validate())
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appConfig := &config.Config{Workers: map[string]config.WorkerConfig{
		"submit-profile": {Enabled: false},
	}}

	cfg := createConfigFromAppConfig(appConfig, nil)

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.MaxJobsActive)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestHandler_DisabledSkipsRegistration(t *testing.T) {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{Enabled: false, MaxJobsActive: 1, Timeout: time.Second},
		Submitters:   singleSubmitter(&MockSubmitter{}),
		Logger:       logger.NewNoOpLogger(),
	})
	require.NoError(t, err)

	assert.False(t, h.IsEnabled())
	assert.NoError(t, h.Register())
	h.Close()
}
