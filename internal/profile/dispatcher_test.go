package profile

import (
	"context"
	"testing"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ==========================
// Mock Implementations
// ==========================

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) CompleteProfile(ctx context.Context, payload *models.SubmissionPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockMirror struct {
	CacheProfileFunc func(ctx context.Context, draft *models.ProfileDraft) error
	calls            int
}

func (m *MockMirror) CacheProfile(ctx context.Context, draft *models.ProfileDraft) error {
	m.calls++
	if m.CacheProfileFunc != nil {
		return m.CacheProfileFunc(ctx, draft)
	}
	return nil
}

// ==========================
// Tests
// ==========================

func TestDispatcher_Submit_Success(t *testing.T) {
	api := new(MockCompleter)
	api.On("CompleteProfile", mock.Anything, mock.MatchedBy(func(p *models.SubmissionPayload) bool {
		name, _ := p.Value(models.FieldName)
		wage, _ := p.Value(models.FieldCurrentIncome)
		return name == "Asha Devi" && wage == "500"
	})).Return(nil).Once()
	mirror := &MockMirror{}

	draft := validDraft()
	draft.CurrentIncome = "-500"

	d := NewDispatcher(api, mirror, logger.NewTestLogger(t))
	err := d.Submit(context.Background(), draft)

	assert.NoError(t, err)
	assert.Equal(t, 1, mirror.calls)
	api.AssertExpectations(t)
}

func TestDispatcher_Submit_ErrorPassesThrough(t *testing.T) {
	api := new(MockCompleter)
	serverErr := errors.NewServerValidationError(422, "PIN code is not serviceable")
	api.On("CompleteProfile", mock.Anything, mock.Anything).Return(serverErr).Once()
	mirror := &MockMirror{}

	d := NewDispatcher(api, mirror, logger.NewTestLogger(t))
	err := d.Submit(context.Background(), validDraft())

	assert.Same(t, serverErr, err)
	assert.Equal(t, 0, mirror.calls)
	api.AssertExpectations(t)
}

func TestDispatcher_Submit_MirrorFailureIsNotFatal(t *testing.T) {
	api := new(MockCompleter)
	api.On("CompleteProfile", mock.Anything, mock.Anything).Return(nil)
	mirror := &MockMirror{CacheProfileFunc: func(context.Context, *models.ProfileDraft) error {
		return errors.NewCacheUnavailableError(assert.AnError)
	}}

	d := NewDispatcher(api, mirror, logger.NewTestLogger(t))
	assert.NoError(t, d.Submit(context.Background(), validDraft()))
}

func TestDispatcher_Submit_NilMirror(t *testing.T) {
	api := new(MockCompleter)
	api.On("CompleteProfile", mock.Anything, mock.Anything).Return(nil)

	d := NewDispatcher(api, nil, nil)
	assert.NoError(t, d.Submit(context.Background(), validDraft()))
}
