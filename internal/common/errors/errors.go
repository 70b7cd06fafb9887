// Package errors provides the error taxonomy shared by the API client, the
// profile wizard, the application orchestrator and the Zeebe workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Local, pre-submission
	ErrCodeFieldValidationFailed ErrorCode = "FIELD_VALIDATION_FAILED"
	ErrCodeInvalidTransition     ErrorCode = "INVALID_STEP_TRANSITION"
	ErrCodeSubmissionInFlight    ErrorCode = "SUBMISSION_IN_FLIGHT"
	ErrCodePayloadSchemaFailed   ErrorCode = "PAYLOAD_SCHEMA_FAILED"
	ErrCodeInvalidJobInput       ErrorCode = "INVALID_JOB_INPUT"

	// Transport
	ErrCodeNetworkUnavailable ErrorCode = "NETWORK_UNAVAILABLE"
	ErrCodeRequestTimeout     ErrorCode = "REQUEST_TIMEOUT"

	// Server responses
	ErrCodeSessionExpired         ErrorCode = "SESSION_EXPIRED"
	ErrCodeServerValidationFailed ErrorCode = "SERVER_VALIDATION_FAILED"
	ErrCodeProfileIncomplete      ErrorCode = "PROFILE_INCOMPLETE"
	ErrCodeServerFault            ErrorCode = "SERVER_FAULT"
	ErrCodeUnexpectedResponse     ErrorCode = "UNEXPECTED_RESPONSE"

	// Collaborators
	ErrCodeCacheUnavailable       ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// User-facing messages per error class.
const (
	MsgFillRequiredFields = "Please fill all required fields"
	MsgCheckConnection    = "Unable to reach the server. Please check your connection and try again."
	MsgSessionExpired     = "Your session has expired. Please log in again."
	MsgServiceUnavailable = "Service is temporarily unavailable. Please try again later."
	MsgRequestRejected    = "The server rejected the request. Please review your details and try again."
	MsgProfileIncomplete  = "Please complete your profile to apply for this job."
	MsgSomethingWentWrong = "Something went wrong. Please try again."
	MsgSubmissionInFlight = "Your previous submission is still being processed."
)

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches any StandardError with the same code, so code-only values can
// be used as sentinels with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// ProfileIncompleteError is returned by the job-apply call when the server
// reports that mandatory profile fields are missing. It is decoded once, at the
// API boundary.
type ProfileIncompleteError struct {
	JobID   string
	Message string
}

func (e *ProfileIncompleteError) Error() string {
	return fmt.Sprintf("profile incomplete for job %s: %s", e.JobID, e.Message)
}

// IsProfileIncomplete reports whether err carries a ProfileIncompleteError.
func IsProfileIncomplete(err error) bool {
	var pie *ProfileIncompleteError
	return stderrors.As(err, &pie)
}

// AsStandard unwraps err to a *StandardError when possible.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err is a StandardError carrying code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewFieldValidationError creates a non-retryable local validation error.
// fieldErrors maps field name to message and is kept in Metadata.
func NewFieldValidationError(step int, fieldErrors map[string]string) *StandardError {
	e := newError(ErrCodeFieldValidationFailed, MsgFillRequiredFields,
		fmt.Sprintf("step %d: %d field error(s)", step, len(fieldErrors)), false)
	meta := make(map[string]interface{}, len(fieldErrors)+1)
	meta["step"] = step
	for k, v := range fieldErrors {
		meta[k] = v
	}
	e.Metadata = meta
	return e
}

// NewInvalidTransitionError is returned when a wizard action is not allowed in its state.
func NewInvalidTransitionError(action, state string) *StandardError {
	return newError(ErrCodeInvalidTransition, "Action not allowed at this step",
		fmt.Sprintf("action: %s, state: %s", action, state), false)
}

// NewSubmissionInFlightError guards against duplicate concurrent submissions.
func NewSubmissionInFlightError() *StandardError {
	return newError(ErrCodeSubmissionInFlight, MsgSubmissionInFlight, "", false)
}

// NewPayloadSchemaError reports a payload that does not satisfy the wire schema.
func NewPayloadSchemaError(details string) *StandardError {
	return newError(ErrCodePayloadSchemaFailed, "Submission payload is malformed", details, false)
}

// NewInvalidJobInputError reports job variables that do not match a worker's input schema.
func NewInvalidJobInputError(details string) *StandardError {
	return newError(ErrCodeInvalidJobInput, "Input validation failed", details, false)
}

// NewNetworkError creates a retryable transport error.
func NewNetworkError(operation string, err error) *StandardError {
	return newError(ErrCodeNetworkUnavailable, "Server unreachable",
		fmt.Sprintf("operation: %s, error: %v", operation, err), true)
}

// NewTimeoutError creates a retryable timeout error.
func NewTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeRequestTimeout, "Request timed out",
		fmt.Sprintf("operation: %s, error: %v", operation, err), true)
}

// NewSessionExpiredError creates a non-retryable 401 error.
func NewSessionExpiredError(details string) *StandardError {
	e := newError(ErrCodeSessionExpired, "Session expired", details, false)
	e.StatusCode = 401
	return e
}

// NewServerValidationError keeps the server message verbatim.
func NewServerValidationError(status int, serverMessage string) *StandardError {
	e := newError(ErrCodeServerValidationFailed, serverMessage, "", false)
	e.StatusCode = status
	return e
}

// NewServerFaultError creates a 5xx error.
func NewServerFaultError(status int, details string) *StandardError {
	e := newError(ErrCodeServerFault, "Server error", details, true)
	e.StatusCode = status
	return e
}

// NewUnexpectedResponseError covers bodies that could not be decoded or unknown statuses.
func NewUnexpectedResponseError(status int, details string) *StandardError {
	e := newError(ErrCodeUnexpectedResponse, "Unexpected server response", details, false)
	e.StatusCode = status
	return e
}

// NewCacheUnavailableError wraps key-value store failures.
func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache unavailable", err.Error(), true)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %v", channel, err), true)
}

// ==========================
// 4. User-facing messages
// ==========================

// UserMessage converts any error to a non-empty, human-readable string.
// Raw error text is never returned except for server validation messages,
// which are shown verbatim.
func UserMessage(err error) string {
	if err == nil {
		return MsgSomethingWentWrong
	}

	var pie *ProfileIncompleteError
	if stderrors.As(err, &pie) {
		if msg := strings.TrimSpace(pie.Message); msg != "" {
			return msg
		}
		return MsgProfileIncomplete
	}

	stdErr, ok := AsStandard(err)
	if !ok {
		return MsgSomethingWentWrong
	}

	switch stdErr.Code {
	case ErrCodeFieldValidationFailed:
		return MsgFillRequiredFields
	case ErrCodeNetworkUnavailable, ErrCodeRequestTimeout:
		return MsgCheckConnection
	case ErrCodeSessionExpired:
		return MsgSessionExpired
	case ErrCodeServerValidationFailed:
		if msg := strings.TrimSpace(stdErr.Message); msg != "" {
			return msg
		}
		return MsgRequestRejected
	case ErrCodeProfileIncomplete:
		if msg := strings.TrimSpace(stdErr.Message); msg != "" {
			return msg
		}
		return MsgProfileIncomplete
	case ErrCodeServerFault:
		return MsgServiceUnavailable
	case ErrCodeSubmissionInFlight:
		return MsgSubmissionInFlight
	default:
		return MsgSomethingWentWrong
	}
}

// ==========================
// 5. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended job retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeServerFault,
		ErrCodeCacheUnavailable,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeNetworkUnavailable,
		ErrCodeRequestTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// Codes are passed through unchanged.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"userMessage":       UserMessage(stdErr),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// Normalize turns any error into a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr
	}
	var pie *ProfileIncompleteError
	if stderrors.As(err, &pie) {
		e := newError(ErrCodeProfileIncomplete, UserMessage(pie), "jobId: "+pie.JobID, false)
		e.Metadata = map[string]interface{}{"jobId": pie.JobID}
		return e
	}
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeFieldValidationFailed, ErrCodeInvalidTransition, ErrCodePayloadSchemaFailed, ErrCodeSubmissionInFlight, ErrCodeInvalidJobInput:
		return "VALIDATION"
	case ErrCodeNetworkUnavailable, ErrCodeRequestTimeout:
		return "NETWORK"
	case ErrCodeSessionExpired:
		return "AUTH"
	case ErrCodeServerValidationFailed, ErrCodeProfileIncomplete:
		return "SERVER_VALIDATION"
	case ErrCodeServerFault, ErrCodeUnexpectedResponse:
		return "SERVER"
	case ErrCodeCacheUnavailable, ErrCodeNotificationSendFailed:
		return "COLLABORATOR"
	default:
		return "OTHER"
	}
}
