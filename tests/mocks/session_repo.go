package mocks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/session"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
)

type SessionRepo struct {
	dbbyToken map[string]*session.Session
	mu        sync.Mutex
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		dbbyToken: make(map[string]*session.Session),
		mu:        sync.Mutex{},
	}
}

func (r *SessionRepo) GetSessionByToken(ctx context.Context, token string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, exists := r.dbbyToken[token]; exists {
		return s, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *SessionRepo) SaveSession(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s == nil {
		return errors.New("session cannot be nil")
	}

	if _, exists := r.dbbyToken[s.Token()]; exists {
		return errorx.NewDuplicateEntry()
	}

	r.dbbyToken[s.Token()] = s

	return nil
}

// RotateSessionByToken keeps the revoked session around so a replayed token
// still resolves and fails on Validate, matching the real repository.
func (r *SessionRepo) RotateSessionByToken(
	ctx context.Context,
	token string,
	fn func(ctx context.Context, s *session.Session) (*session.Session, error),
) error {
	if fn == nil {
		return errors.New("rotate function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.dbbyToken[token]
	if !exists {
		return errorx.NewNotFound()
	}

	next, err := fn(ctx, s)
	if err != nil {
		return err
	}

	r.dbbyToken[s.Token()] = s
	if next != nil {
		r.dbbyToken[next.Token()] = next
	}

	return nil
}

func (r *SessionRepo) SeedSession(t *testing.T, s *session.Session) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyToken[s.Token()]; exists {
		t.Fatalf("session with token %s already exists", s.Token())
	}

	r.dbbyToken[s.Token()] = s
}

func (r *SessionRepo) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.dbbyToken)
}

func (r *SessionRepo) AssertSessionExists(t *testing.T, token string) *SessionRepo {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyToken[token]; !exists {
		t.Errorf("expected session with token %s to exist, but it does not", token)
	}

	return r
}

func (r *SessionRepo) AssertSessionRevoked(t *testing.T, token string) *SessionRepo {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.dbbyToken[token]
	if !exists {
		t.Errorf("expected session with token %s to exist, but it does not", token)
		return r
	}

	assert.True(t, s.IsRevoked(), "expected session with token %s to be revoked", token)
	return r
}

func (r *SessionRepo) AssertActiveSessionForMember(t *testing.T, id member.ID) *SessionRepo {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.dbbyToken {
		if s.MemberID() == id && !s.IsRevoked() {
			return r
		}
	}

	t.Errorf("expected an active session for member %s, but found none", id)
	return r
}
