package repos

import (
	"context"
	"time"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/session"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/tests/integration/builders"
	"gitlab.com/staffsync/staffsync-backend/tests/integration/fixtures"
)

// refresh_tokens carries a foreign key to members, so every session test
// hangs its sessions off a freshly saved member.
func (s *RepoSuite) seedSessionMember() *member.Member {
	m := builders.NewMemberBuilder().WithEmail(fixtures.ValidMemberEmail).Build()
	s.Require().NoError(s.members.SaveMember(context.Background(), m))
	return m
}

func (s *RepoSuite) TestSession_SaveAndGet() {
	ctx := context.Background()
	m := s.seedSessionMember()

	sess := session.NewSession(m.ID(), 0)
	s.Require().NotEmpty(sess.Token())
	s.Require().NoError(s.sessions.SaveSession(ctx, sess))

	got, err := s.sessions.GetSessionByToken(ctx, sess.Token())
	s.Require().NoError(err)
	s.Equal(m.ID(), got.MemberID())
	s.False(got.IsRevoked())
	s.WithinDuration(time.Now().Add(session.DefaultTTL), got.ExpiresAt(), 5*time.Second)
}

func (s *RepoSuite) TestSession_GetByToken_NotFound() {
	_, err := s.sessions.GetSessionByToken(context.Background(), builders.NewSessionBuilder().Build().Token())
	s.Require().Error(err)
	s.True(errorx.IsNotFound(err))
}

func (s *RepoSuite) TestSession_RotateSessionByToken() {
	ctx := context.Background()
	m := s.seedSessionMember()

	sess := session.NewSession(m.ID(), 0)
	s.Require().NoError(s.sessions.SaveSession(ctx, sess))

	var nextToken string
	err := s.sessions.RotateSessionByToken(ctx, sess.Token(),
		func(ctx context.Context, old *session.Session) (*session.Session, error) {
			if err := old.Validate(); err != nil {
				return nil, err
			}
			old.Revoke()
			next := session.NewSession(old.MemberID(), 0)
			nextToken = next.Token()
			return next, nil
		})
	s.Require().NoError(err)
	s.Require().NotEqual(sess.Token(), nextToken)

	old, err := s.sessions.GetSessionByToken(ctx, sess.Token())
	s.Require().NoError(err)
	s.True(old.IsRevoked())

	next, err := s.sessions.GetSessionByToken(ctx, nextToken)
	s.Require().NoError(err)
	s.False(next.IsRevoked())
	s.Equal(m.ID(), next.MemberID())

	// replaying the rotated token must fail, the session is already revoked
	err = s.sessions.RotateSessionByToken(ctx, sess.Token(),
		func(ctx context.Context, old *session.Session) (*session.Session, error) {
			if err := old.Validate(); err != nil {
				return nil, err
			}
			old.Revoke()
			return session.NewSession(old.MemberID(), 0), nil
		})
	s.Require().Error(err)
	s.True(errorx.IsCode(err, errorx.CodeTokenRevoked))
}

func (s *RepoSuite) TestSession_RotateSessionByToken_NotFound() {
	err := s.sessions.RotateSessionByToken(context.Background(), builders.NewSessionBuilder().Build().Token(),
		func(ctx context.Context, old *session.Session) (*session.Session, error) {
			return old, nil
		})
	s.Require().Error(err)
	s.True(errorx.IsNotFound(err))
}

func (s *RepoSuite) TestSession_DeleteExpiredSessions() {
	ctx := context.Background()
	m := s.seedSessionMember()

	active := builders.NewSessionBuilder().WithMemberID(m.ID()).Build()
	expired := builders.NewSessionBuilder().WithMemberID(m.ID()).Expired().Build()
	revoked := builders.NewSessionBuilder().WithMemberID(m.ID()).Revoked().Build()

	s.Require().NoError(s.sessions.SaveSession(ctx, active))
	s.Require().NoError(s.sessions.SaveSession(ctx, expired))
	s.Require().NoError(s.sessions.SaveSession(ctx, revoked))

	deleted, err := s.sessions.DeleteExpiredSessions(ctx, 30*time.Minute)
	s.Require().NoError(err)
	s.EqualValues(2, deleted)

	_, err = s.sessions.GetSessionByToken(ctx, active.Token())
	s.Require().NoError(err)
}
