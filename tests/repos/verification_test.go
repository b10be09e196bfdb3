package repos

import (
	"context"
	"time"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/tests/integration/builders"
	"gitlab.com/staffsync/staffsync-backend/tests/integration/fixtures"
)

func (s *RepoSuite) TestVerification_SaveAndGetAttempt() {
	ctx := context.Background()

	attempt, err := verification.NewAttempt(fixtures.ValidMemberEmail)
	s.Require().NoError(err)

	s.Require().NoError(s.attempts.SaveAttempt(ctx, attempt))

	got, err := s.attempts.GetAttemptByEmail(ctx, fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.Equal(attempt.ID(), got.ID())
	s.Equal(fixtures.ValidMemberEmail, got.Email())
	s.True(got.IsStatus(verification.StatusPending))
	s.EqualValues(0, got.FailedAttempts())
	s.WithinDuration(time.Now().Add(verification.CodeTTL), got.CodeExpiresAt(), 5*time.Second)
}

func (s *RepoSuite) TestVerification_GetAttemptByEmail_NotFound() {
	_, err := s.attempts.GetAttemptByEmail(context.Background(), fixtures.ValidMemberEmail)
	s.Require().Error(err)
	s.True(errorx.IsNotFound(err))
}

func (s *RepoSuite) TestVerification_SaveAttempt_SupersedesPrevious() {
	ctx := context.Background()

	first, err := verification.NewAttempt(fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	firstCode := first.PlainCode()
	s.Require().NoError(s.attempts.SaveAttempt(ctx, first))

	second, err := verification.NewAttempt(fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.Require().NoError(s.attempts.SaveAttempt(ctx, second))

	got, err := s.attempts.GetAttemptByEmail(ctx, fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.Equal(second.ID(), got.ID())

	// the superseded code stops working, the replacement code works
	err = s.attempts.UpdateAttemptByEmail(ctx, fixtures.ValidMemberEmail,
		func(ctx context.Context, a *verification.Attempt) error {
			return a.VerifyCode(firstCode)
		})
	s.Require().Error(err)
	s.True(errorx.IsCode(err, errorx.CodeCodeMismatch))

	err = s.attempts.UpdateAttemptByEmail(ctx, fixtures.ValidMemberEmail,
		func(ctx context.Context, a *verification.Attempt) error {
			return a.VerifyCode(second.PlainCode())
		})
	s.Require().NoError(err)
}

func (s *RepoSuite) TestVerification_UpdateAttempt_VerifyPersists() {
	ctx := context.Background()

	attempt, err := verification.NewAttempt(fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.Require().NoError(s.attempts.SaveAttempt(ctx, attempt))

	err = s.attempts.UpdateAttemptByEmail(ctx, fixtures.ValidMemberEmail,
		func(ctx context.Context, a *verification.Attempt) error {
			return a.VerifyCode(attempt.PlainCode())
		})
	s.Require().NoError(err)

	got, err := s.attempts.GetAttemptByEmail(ctx, fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.True(got.IsStatus(verification.StatusVerified))
}

func (s *RepoSuite) TestVerification_UpdateAttempt_MismatchCounterPersists() {
	ctx := context.Background()

	attempt, err := verification.NewAttempt(fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.Require().NoError(s.attempts.SaveAttempt(ctx, attempt))

	err = s.attempts.UpdateAttemptByEmail(ctx, fixtures.ValidMemberEmail,
		func(ctx context.Context, a *verification.Attempt) error {
			return a.VerifyCode(fixtures.WrongCode)
		})
	s.Require().Error(err)
	s.True(errorx.IsCode(err, errorx.CodeCodeMismatch))

	// the counter bump survives even though the update returned an error
	got, err := s.attempts.GetAttemptByEmail(ctx, fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.True(got.IsStatus(verification.StatusPending))
	s.EqualValues(1, got.FailedAttempts())
}

func (s *RepoSuite) TestVerification_UpdateAttempt_NotFound() {
	err := s.attempts.UpdateAttemptByEmail(context.Background(), fixtures.ValidMemberEmail,
		func(ctx context.Context, a *verification.Attempt) error {
			return nil
		})
	s.Require().Error(err)
	s.True(errorx.IsNotFound(err))
}

func (s *RepoSuite) TestVerification_DeleteAttempt() {
	ctx := context.Background()

	attempt, err := verification.NewAttempt(fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.Require().NoError(s.attempts.SaveAttempt(ctx, attempt))

	s.Require().NoError(s.attempts.DeleteAttempt(ctx, attempt.ID()))

	_, err = s.attempts.GetAttemptByEmail(ctx, fixtures.ValidMemberEmail)
	s.Require().Error(err)
	s.True(errorx.IsNotFound(err))
}

func (s *RepoSuite) TestVerification_DeleteExpiredAttempts() {
	ctx := context.Background()

	consumed := builders.NewAttemptBuilder().
		WithEmail(fixtures.ValidMemberEmail).
		Consumed().
		Build()
	stale := builders.NewAttemptBuilder().
		WithEmail(fixtures.ValidMember2Email).
		WithExpiredCode().
		Build()
	fresh := builders.NewAttemptBuilder().
		WithEmail(fixtures.ValidMember3Email).
		Build()

	s.Require().NoError(s.attempts.SaveAttempt(ctx, consumed))
	s.Require().NoError(s.attempts.SaveAttempt(ctx, stale))
	s.Require().NoError(s.attempts.SaveAttempt(ctx, fresh))

	deleted, err := s.attempts.DeleteExpiredAttempts(ctx, 30*time.Minute)
	s.Require().NoError(err)
	s.EqualValues(2, deleted)

	_, err = s.attempts.GetAttemptByEmail(ctx, fixtures.ValidMember3Email)
	s.Require().NoError(err)
}
