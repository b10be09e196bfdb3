package session

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
)

const DefaultTTL = 14 * 24 * time.Hour

// Session is one refresh-token grant. The token itself is an opaque UUID;
// possession of it is the whole credential, so a session is revoked the
// moment it is rotated.
type Session struct {
	token     string
	memberID  member.ID
	expiresAt time.Time
	revoked   bool
	createdAt time.Time
}

func NewSession(memberID member.ID, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()

	return &Session{
		token:     uuid.NewString(),
		memberID:  memberID,
		expiresAt: now.Add(ttl),
		createdAt: now,
	}
}

type RehydrateArgs struct {
	Token     string
	MemberID  member.ID
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

func Rehydrate(args RehydrateArgs) *Session {
	return &Session{
		token:     args.Token,
		memberID:  args.MemberID,
		expiresAt: args.ExpiresAt,
		revoked:   args.Revoked,
		createdAt: args.CreatedAt,
	}
}

// Validate reports whether the session can still mint access tokens.
func (s *Session) Validate() error {
	if s.revoked {
		return errorx.NewTokenRevoked()
	}
	if time.Now().After(s.expiresAt) {
		return errorx.NewTokenExpired()
	}
	return nil
}

func (s *Session) Revoke() {
	s.revoked = true
}

func (s *Session) Token() string {
	if s == nil {
		return ""
	}

	return s.token
}

func (s *Session) MemberID() member.ID {
	if s == nil {
		return member.ID{}
	}

	return s.memberID
}

func (s *Session) ExpiresAt() time.Time {
	if s == nil {
		return time.Time{}
	}

	return s.expiresAt
}

func (s *Session) IsRevoked() bool {
	if s == nil {
		return false
	}

	return s.revoked
}

func (s *Session) CreatedAt() time.Time {
	if s == nil {
		return time.Time{}
	}

	return s.createdAt
}
