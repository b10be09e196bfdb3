package repos

import (
	"context"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/role"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/tests/integration/builders"
	"gitlab.com/staffsync/staffsync-backend/tests/integration/fixtures"
)

func (s *RepoSuite) registerFn(code string) func(ctx context.Context, a *verification.Attempt) (*member.Member, error) {
	return func(ctx context.Context, a *verification.Attempt) (*member.Member, error) {
		if err := a.CheckCode(code); err != nil {
			return nil, err
		}
		if err := a.Consume(); err != nil {
			return nil, err
		}
		return member.NewMember(member.NewMemberArgs{
			Email:    a.Email(),
			Name:     fixtures.ValidName,
			Password: fixtures.ValidPassword,
		})
	}
}

func (s *RepoSuite) TestMember_RegisterMember() {
	ctx := context.Background()

	attempt := builders.NewAttemptBuilder().
		WithEmail(fixtures.ValidMemberEmail).
		WithCode(fixtures.ValidCode).
		Verified().
		Build()
	s.Require().NoError(s.attempts.SaveAttempt(ctx, attempt))

	err := s.members.RegisterMember(ctx, fixtures.ValidMemberEmail, s.registerFn(fixtures.ValidCode))
	s.Require().NoError(err)

	got, err := s.members.GetMemberByEmail(ctx, fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.Equal(fixtures.ValidName, got.Name())
	s.Equal(role.Employee, got.Role())
	s.NoError(got.ComparePassword(fixtures.ValidPassword))

	consumed, err := s.attempts.GetAttemptByEmail(ctx, fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.True(consumed.IsStatus(verification.StatusConsumed))
}

func (s *RepoSuite) TestMember_RegisterMember_NoAttempt() {
	err := s.members.RegisterMember(context.Background(), fixtures.ValidMemberEmail,
		s.registerFn(fixtures.ValidCode))
	s.Require().Error(err)
	s.True(errorx.IsNotFound(err))
}

func (s *RepoSuite) TestMember_RegisterMember_DuplicateEmailRollsBack() {
	ctx := context.Background()

	existing := builders.NewMemberBuilder().
		WithEmail(fixtures.ValidMemberEmail).
		Build()
	s.Require().NoError(s.members.SaveMember(ctx, existing))

	attempt := builders.NewAttemptBuilder().
		WithEmail(fixtures.ValidMemberEmail).
		WithCode(fixtures.ValidCode).
		Verified().
		Build()
	s.Require().NoError(s.attempts.SaveAttempt(ctx, attempt))

	err := s.members.RegisterMember(ctx, fixtures.ValidMemberEmail, s.registerFn(fixtures.ValidCode))
	s.Require().Error(err)
	s.True(errorx.IsCode(err, errorx.CodeDuplicateEntry))

	// the insert failed inside the transaction, so the consume rolled back
	got, err := s.attempts.GetAttemptByEmail(ctx, fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.True(got.IsStatus(verification.StatusVerified))
}

func (s *RepoSuite) TestMember_RegisterMember_FnErrorRollsBack() {
	ctx := context.Background()

	attempt := builders.NewAttemptBuilder().
		WithEmail(fixtures.ValidMemberEmail).
		WithCode(fixtures.ValidCode).
		Verified().
		Build()
	s.Require().NoError(s.attempts.SaveAttempt(ctx, attempt))

	err := s.members.RegisterMember(ctx, fixtures.ValidMemberEmail,
		func(ctx context.Context, a *verification.Attempt) (*member.Member, error) {
			if err := a.Consume(); err != nil {
				return nil, err
			}
			return member.NewMember(member.NewMemberArgs{
				Email:    a.Email(),
				Name:     fixtures.InvalidLongName,
				Password: fixtures.ValidPassword,
			})
		})
	s.Require().Error(err)

	got, err := s.attempts.GetAttemptByEmail(ctx, fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.True(got.IsStatus(verification.StatusVerified))

	s.assertNoMember(fixtures.ValidMemberEmail)
}

func (s *RepoSuite) TestMember_SaveMember_AndGetByID() {
	ctx := context.Background()

	m := builders.NewMemberBuilder().
		WithEmail(fixtures.ValidMemberEmail).
		WithName(fixtures.ValidName).
		Build()
	s.Require().NoError(s.members.SaveMember(ctx, m))

	got, err := s.members.GetMemberByID(ctx, m.ID())
	s.Require().NoError(err)
	s.Equal(fixtures.ValidMemberEmail, got.Email())
	s.Equal(fixtures.ValidName, got.Name())
}

func (s *RepoSuite) TestMember_SaveMember_DuplicateEmail() {
	ctx := context.Background()

	first := builders.NewMemberBuilder().WithEmail(fixtures.ValidMemberEmail).Build()
	s.Require().NoError(s.members.SaveMember(ctx, first))

	second := builders.NewMemberBuilder().WithEmail(fixtures.ValidMemberEmail).Build()
	err := s.members.SaveMember(ctx, second)
	s.Require().Error(err)
	s.True(errorx.IsCode(err, errorx.CodeDuplicateEntry))
}

func (s *RepoSuite) TestMember_IsMemberExists() {
	ctx := context.Background()

	exists, err := s.members.IsMemberExists(ctx, fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.False(exists)

	m := builders.NewMemberBuilder().WithEmail(fixtures.ValidMemberEmail).Build()
	s.Require().NoError(s.members.SaveMember(ctx, m))

	exists, err = s.members.IsMemberExists(ctx, fixtures.ValidMemberEmail)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RepoSuite) TestMember_IsAnyAdminExists() {
	ctx := context.Background()

	employee := builders.NewMemberBuilder().WithEmail(fixtures.ValidMemberEmail).Build()
	s.Require().NoError(s.members.SaveMember(ctx, employee))

	exists, err := s.members.IsAnyAdminExists(ctx)
	s.Require().NoError(err)
	s.False(exists)

	admin := builders.NewMemberBuilder().WithEmail(fixtures.ValidAdminEmail).AsAdmin().Build()
	s.Require().NoError(s.members.SaveMember(ctx, admin))

	exists, err = s.members.IsAnyAdminExists(ctx)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RepoSuite) assertNoMember(email string) {
	_, err := s.members.GetMemberByEmail(context.Background(), email)
	s.Require().Error(err)
	s.True(errorx.IsNotFound(err))
}
