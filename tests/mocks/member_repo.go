package mocks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/role"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
)

type MemberRepo struct {
	*EventRepo
	attempts  *VerificationRepo
	dbbyEmail map[string]*member.Member
	dbbyID    map[member.ID]*member.Member
	mu        sync.Mutex
}

// NewMemberRepo shares the attempt store with the verification mock, the way
// the real repository shares the verification_attempts table.
func NewMemberRepo(attempts *VerificationRepo) *MemberRepo {
	return &MemberRepo{
		EventRepo: NewEventRepo(),
		attempts:  attempts,
		dbbyEmail: make(map[string]*member.Member),
		dbbyID:    make(map[member.ID]*member.Member),
		mu:        sync.Mutex{},
	}
}

func (r *MemberRepo) GetMemberByEmail(ctx context.Context, email string) (*member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, exists := r.dbbyEmail[email]; exists {
		return m, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *MemberRepo) GetMemberByID(ctx context.Context, id member.ID) (*member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, exists := r.dbbyID[id]; exists {
		return m, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *MemberRepo) IsMemberExists(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.dbbyEmail[email]
	return exists, nil
}

func (r *MemberRepo) IsAnyAdminExists(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.dbbyEmail {
		if m.Role() == role.Admin {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemberRepo) SaveMember(ctx context.Context, m *member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m == nil {
		return errors.New("member cannot be nil")
	}

	return r.insertMember(m)
}

// RegisterMember replicates the transactional contract of the real repo:
// the attempt mutation survives a persistable fn error, the member row is
// only written when fn succeeds.
func (r *MemberRepo) RegisterMember(
	ctx context.Context,
	email string,
	fn func(ctx context.Context, a *verification.Attempt) (*member.Member, error),
) error {
	if fn == nil {
		return errors.New("register function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts.mu.Lock()
	defer r.attempts.mu.Unlock()

	a, exists := r.attempts.getAttemptLocked(email)
	if !exists {
		return errorx.NewNotFound()
	}

	m, fnerr := fn(ctx, a)
	if fnerr != nil && !errorx.IsPersistable(fnerr) {
		return fnerr
	}

	r.attempts.appendEvents(a.GetUncommittedEvents()...)

	if fnerr != nil {
		return fnerr
	}

	return r.insertMember(m)
}

func (r *MemberRepo) insertMember(m *member.Member) error {
	if _, exists := r.dbbyEmail[m.Email()]; exists {
		return errorx.NewDuplicateEntryWithField("member", "email")
	}

	if _, exists := r.dbbyID[m.ID()]; exists {
		return errorx.NewDuplicateEntryWithField("member", "id")
	}

	r.dbbyEmail[m.Email()] = m
	r.dbbyID[m.ID()] = m

	r.appendEvents(m.GetUncommittedEvents()...)

	return nil
}

func (r *MemberRepo) SeedMember(t *testing.T, m *member.Member) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.insertMember(m); err != nil {
		t.Fatalf("failed to seed member %s: %v", m.Email(), err)
	}
}

func (r *MemberRepo) AssertMemberExistsByEmail(t *testing.T, email string) *member.MemberAssertion {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.dbbyEmail[email]
	if !exists {
		t.Errorf("expected member with email %s to exist, but it does not", email)
		return nil
	}

	return member.NewMemberAssertion(m)
}

func (r *MemberRepo) AssertMemberNotExistsByEmail(t *testing.T, email string) *MemberRepo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyEmail[email]; exists {
		t.Errorf("expected member with email %s to not exist, but it does", email)
		return r
	}

	return r
}
