package builders

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/session"
)

type SessionBuilder struct {
	token     string
	memberID  member.ID
	expiresAt time.Time
	revoked   bool
	createdAt time.Time
}

func NewSessionBuilder() *SessionBuilder {
	now := time.Now()

	return &SessionBuilder{
		token:     uuid.NewString(),
		memberID:  member.NewID(),
		expiresAt: now.Add(session.DefaultTTL),
		createdAt: now,
	}
}

func (b *SessionBuilder) WithToken(token string) *SessionBuilder {
	b.token = token
	return b
}

func (b *SessionBuilder) WithMemberID(id member.ID) *SessionBuilder {
	b.memberID = id
	return b
}

func (b *SessionBuilder) Expired() *SessionBuilder {
	b.expiresAt = time.Now().Add(-1 * time.Hour)
	return b
}

func (b *SessionBuilder) Revoked() *SessionBuilder {
	b.revoked = true
	return b
}

func (b *SessionBuilder) Build() *session.Session {
	return session.Rehydrate(session.RehydrateArgs{
		Token:     b.token,
		MemberID:  b.memberID,
		ExpiresAt: b.expiresAt,
		Revoked:   b.revoked,
		CreatedAt: b.createdAt,
	})
}
