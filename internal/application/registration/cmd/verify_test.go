package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/tests/integration/builders"
	"gitlab.com/staffsync/staffsync-backend/tests/integration/fixtures"
	"gitlab.com/staffsync/staffsync-backend/tests/mocks"
)

type VerifyCodeTestSuite struct {
	Handler  *VerifyCodeHandler
	MockRepo *mocks.VerificationRepo
}

func NewVerifyCodeTestSuite(t *testing.T) *VerifyCodeTestSuite {
	t.Helper()

	mockRepo := mocks.NewVerificationRepo()
	handler := NewVerifyCodeHandler(VerifyCodeHandlerArgs{
		AttemptRepo: mockRepo,
	})

	return &VerifyCodeTestSuite{
		Handler:  handler,
		MockRepo: mockRepo,
	}
}

func TestVerifyCodeHandler_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewVerifyCodeTestSuite(t)
	email := fixtures.ValidMemberEmail
	a := builders.NewAttemptBuilder().
		WithEmail(email).
		WithCode(fixtures.ValidCode).
		Build()
	s.MockRepo.SeedAttempt(t, a)

	err := s.Handler.Handle(t.Context(), VerifyCode{Email: email, Code: fixtures.ValidCode})
	require.NoError(t, err)

	s.MockRepo.
		AssertAttemptExistsByEmail(t, email).
		AssertStatus(t, verification.StatusVerified).
		AssertFailedAttempts(t, 0)

	e := mocks.RequireEventExists(t, s.MockRepo.EventRepo, &verification.EmailVerified{})
	require.NotNil(t, e)
	assert.Equal(t, a.ID(), e.AttemptID)
	assert.Equal(t, email, e.Email)
}

func TestVerifyCodeHandler_NoAttempt_MustReturnNoActiveAttempt(t *testing.T) {
	t.Parallel()

	s := NewVerifyCodeTestSuite(t)

	err := s.Handler.Handle(t.Context(), VerifyCode{Email: fixtures.ValidMemberEmail, Code: fixtures.ValidCode})
	require.Error(t, err)
	assert.True(t, errorx.IsCode(err, errorx.CodeNoActiveAttempt))
}

func TestVerifyCodeHandler_WrongCode_MustPersistFailedAttempt(t *testing.T) {
	t.Parallel()

	s := NewVerifyCodeTestSuite(t)
	email := fixtures.ValidMemberEmail
	a := builders.NewAttemptBuilder().
		WithEmail(email).
		WithCode(fixtures.ValidCode).
		Build()
	s.MockRepo.SeedAttempt(t, a)

	err := s.Handler.Handle(t.Context(), VerifyCode{Email: email, Code: fixtures.WrongCode})
	require.Error(t, err)
	assert.True(t, errorx.IsCode(err, errorx.CodeCodeMismatch))

	s.MockRepo.
		AssertAttemptExistsByEmail(t, email).
		AssertStatus(t, verification.StatusPending).
		AssertFailedAttempts(t, 1)
}

func TestVerifyCodeHandler_WrongCodeRepeatedly_MustLockAttempt(t *testing.T) {
	t.Parallel()

	s := NewVerifyCodeTestSuite(t)
	email := fixtures.ValidMemberEmail
	a := builders.NewAttemptBuilder().
		WithEmail(email).
		WithCode(fixtures.ValidCode).
		WithFailedAttempts(verification.MaxAttempts - 1).
		Build()
	s.MockRepo.SeedAttempt(t, a)

	err := s.Handler.Handle(t.Context(), VerifyCode{Email: email, Code: fixtures.WrongCode})
	require.Error(t, err)
	assert.True(t, errorx.IsCode(err, errorx.CodeAttemptsExceeded))

	s.MockRepo.
		AssertAttemptExistsByEmail(t, email).
		AssertFailedAttempts(t, verification.MaxAttempts)

	// Even the right code is refused once the attempt is locked.
	err = s.Handler.Handle(t.Context(), VerifyCode{Email: email, Code: fixtures.ValidCode})
	require.Error(t, err)
	assert.True(t, errorx.IsCode(err, errorx.CodeAttemptsExceeded))
}

func TestVerifyCodeHandler_ExpiredCode_MustReturnError(t *testing.T) {
	t.Parallel()

	s := NewVerifyCodeTestSuite(t)
	email := fixtures.ValidMemberEmail
	a := builders.NewAttemptBuilder().
		WithEmail(email).
		WithCode(fixtures.ValidCode).
		WithExpiredCode().
		Build()
	s.MockRepo.SeedAttempt(t, a)

	err := s.Handler.Handle(t.Context(), VerifyCode{Email: email, Code: fixtures.ValidCode})
	require.Error(t, err)
	assert.True(t, errorx.IsCode(err, errorx.CodeCodeExpired))

	s.MockRepo.
		AssertAttemptExistsByEmail(t, email).
		AssertStatus(t, verification.StatusPending)
}

func TestVerifyCodeHandler_AlreadyVerified_MustReturnError(t *testing.T) {
	t.Parallel()

	s := NewVerifyCodeTestSuite(t)
	email := fixtures.ValidMemberEmail
	a := builders.NewAttemptBuilder().
		WithEmail(email).
		WithCode(fixtures.ValidCode).
		Verified().
		Build()
	s.MockRepo.SeedAttempt(t, a)

	err := s.Handler.Handle(t.Context(), VerifyCode{Email: email, Code: fixtures.ValidCode})
	require.Error(t, err)
	assert.True(t, errorx.IsCode(err, errorx.CodeAlreadyConsumed))

	s.MockRepo.
		AssertAttemptExistsByEmail(t, email).
		AssertStatus(t, verification.StatusVerified)
}

func TestVerifyCodeHandler_ConsumedAttempt_MustReturnError(t *testing.T) {
	t.Parallel()

	s := NewVerifyCodeTestSuite(t)
	email := fixtures.ValidMemberEmail
	a := builders.NewAttemptBuilder().
		WithEmail(email).
		WithCode(fixtures.ValidCode).
		Consumed().
		Build()
	s.MockRepo.SeedAttempt(t, a)

	err := s.Handler.Handle(t.Context(), VerifyCode{Email: email, Code: fixtures.ValidCode})
	require.Error(t, err)
	assert.True(t, errorx.IsCode(err, errorx.CodeAlreadyConsumed))
}
