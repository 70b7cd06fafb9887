package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage_PerClass(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, MsgSomethingWentWrong},
		{"plain error never leaks", stderrors.New("dial tcp: i/o timeout"), MsgSomethingWentWrong},
		{"network", NewNetworkError("GET /states", stderrors.New("connection refused")), MsgCheckConnection},
		{"timeout", NewTimeoutError("POST /apply", stderrors.New("deadline exceeded")), MsgCheckConnection},
		{"session expired", NewSessionExpiredError("401"), MsgSessionExpired},
		{"server validation verbatim", NewServerValidationError(422, "PIN code is not serviceable"), "PIN code is not serviceable"},
		{"server validation empty message", NewServerValidationError(422, "  "), MsgRequestRejected},
		{"server fault", NewServerFaultError(503, "upstream"), MsgServiceUnavailable},
		{"local validation", NewFieldValidationError(2, map[string]string{"empDailyWage": "required"}), MsgFillRequiredFields},
		{"profile incomplete with message", &ProfileIncompleteError{JobID: "42", Message: "Please fill all mandatory fields"}, "Please fill all mandatory fields"},
		{"profile incomplete without message", &ProfileIncompleteError{JobID: "42"}, MsgProfileIncomplete},
		{"wrapped standard error", fmt.Errorf("submit: %w", NewServerFaultError(500, "")), MsgServiceUnavailable},
		{"normalized profile incomplete", Normalize(&ProfileIncompleteError{JobID: "42", Message: "Add your skills"}), "Add your skills"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestIsProfileIncomplete(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", &ProfileIncompleteError{JobID: "7"})
	assert.True(t, IsProfileIncomplete(wrapped))
	assert.False(t, IsProfileIncomplete(NewServerValidationError(422, "mandatory fields missing")))
	assert.False(t, IsProfileIncomplete(nil))
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable network error keeps retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewNetworkError("op", stderrors.New("reset")))
		assert.Equal(t, string(ErrCodeNetworkUnavailable), bpmn.Code)
		assert.Equal(t, 2, bpmn.Retries)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, MsgCheckConnection, bpmn.ToErrorVariables()["userMessage"])
	})

	t.Run("server validation is not retried", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewServerValidationError(422, "bad pin"))
		assert.Equal(t, 0, bpmn.Retries)
		assert.False(t, bpmn.Retryable)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("profile incomplete becomes PROFILE_INCOMPLETE", func(t *testing.T) {
		stdErr := Normalize(&ProfileIncompleteError{JobID: "42", Message: "Please fill all mandatory fields"})
		require.NotNil(t, stdErr)
		assert.Equal(t, ErrCodeProfileIncomplete, stdErr.Code)
		assert.Equal(t, "42", stdErr.Metadata["jobId"])
	})

	t.Run("standard errors pass through", func(t *testing.T) {
		orig := NewSessionExpiredError("expired")
		assert.Same(t, orig, Normalize(fmt.Errorf("wrap: %w", orig)))
	})

	t.Run("unknown errors become INTERNAL_ERROR", func(t *testing.T) {
		assert.Equal(t, ErrCodeInternal, Normalize(stderrors.New("boom")).Code)
	})
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "NETWORK", GetErrorCategory(ErrCodeRequestTimeout))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeSessionExpired))
	assert.Equal(t, "SERVER_VALIDATION", GetErrorCategory(ErrCodeProfileIncomplete))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeFieldValidationFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidJobInput))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrorCode("SOMETHING_ELSE")))
}

func TestStandardError_IsMatchesCode(t *testing.T) {
	sentinel := &StandardError{Code: ErrCodeSubmissionInFlight}
	assert.True(t, stderrors.Is(fmt.Errorf("submit: %w", NewSubmissionInFlightError()), sentinel))
	assert.False(t, stderrors.Is(NewSessionExpiredError("x"), sentinel))
}
