package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
)

type VerificationRepo struct {
	*EventRepo
	dbbyEmail map[string]*verification.Attempt
	dbbyID    map[verification.ID]*verification.Attempt
	mu        sync.Mutex
}

func NewVerificationRepo() *VerificationRepo {
	return &VerificationRepo{
		EventRepo: NewEventRepo(),
		dbbyEmail: make(map[string]*verification.Attempt),
		dbbyID:    make(map[verification.ID]*verification.Attempt),
		mu:        sync.Mutex{},
	}
}

func (r *VerificationRepo) GetAttemptByEmail(ctx context.Context, email string) (*verification.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, exists := r.dbbyEmail[email]; exists {
		return a, nil
	}
	return nil, errorx.NewNotFound()
}

// SaveAttempt upserts by email: a fresh attempt for an address that already
// has one supersedes the old row, the way the real repository does.
func (r *VerificationRepo) SaveAttempt(ctx context.Context, a *verification.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a == nil {
		return errors.New("attempt cannot be nil")
	}

	if old, exists := r.dbbyEmail[a.Email()]; exists {
		delete(r.dbbyID, old.ID())
	}

	r.dbbyEmail[a.Email()] = a
	r.dbbyID[a.ID()] = a

	r.appendEvents(a.GetUncommittedEvents()...)

	return nil
}

func (r *VerificationRepo) UpdateAttemptByEmail(
	ctx context.Context,
	email string,
	fn func(context.Context, *verification.Attempt) error,
) error {
	if fn == nil {
		return errors.New("update function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.dbbyEmail[email]
	if !exists {
		return errorx.NewNotFound()
	}

	fnerr := fn(ctx, a)
	if fnerr != nil && !errorx.IsPersistable(fnerr) {
		return fmt.Errorf("failed to apply update function: %w", fnerr)
	}

	r.dbbyEmail[email] = a
	r.dbbyID[a.ID()] = a

	r.appendEvents(a.GetUncommittedEvents()...)

	if fnerr != nil && errorx.IsPersistable(fnerr) {
		return fmt.Errorf("failed to apply update function: %w", fnerr)
	}
	return nil
}

func (r *VerificationRepo) DeleteAttempt(ctx context.Context, id verification.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.dbbyID[id]
	if !exists {
		return errorx.NewNotFound()
	}

	delete(r.dbbyID, id)
	delete(r.dbbyEmail, a.Email())

	return nil
}

func (r *VerificationRepo) SeedAttempt(t *testing.T, a *verification.Attempt) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyEmail[a.Email()]; exists {
		t.Fatalf("attempt with email %s already exists", a.Email())
	}

	if _, exists := r.dbbyID[a.ID()]; exists {
		t.Fatalf("attempt with ID %s already exists", a.ID())
	}

	r.dbbyEmail[a.Email()] = a
	r.dbbyID[a.ID()] = a

	r.appendEvents(a.GetUncommittedEvents()...)
}

func (r *VerificationRepo) AssertAttemptExistsByEmail(t *testing.T, email string) *verification.AttemptAssertion {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.dbbyEmail[email]
	if !exists {
		t.Errorf("expected attempt with email %s to exist, but it does not", email)
		return nil
	}

	return verification.NewAttemptAssertion(a)
}

func (r *VerificationRepo) AssertAttemptNotExistsByEmail(t *testing.T, email string) *VerificationRepo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyEmail[email]; exists {
		t.Errorf("expected attempt with email %s to not exist, but it does", email)
		return r
	}

	return r
}

// getAttemptLocked hands the live attempt to a sibling mock that needs to
// mutate it under this repo's lock.
func (r *VerificationRepo) getAttemptLocked(email string) (*verification.Attempt, bool) {
	a, exists := r.dbbyEmail[email]
	return a, exists
}
