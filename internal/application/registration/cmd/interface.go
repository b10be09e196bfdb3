package cmd

import (
	"context"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
)

type AttemptGetter interface {
	GetAttemptByEmail(ctx context.Context, email string) (*verification.Attempt, error)
}

type AttemptSaver interface {
	// SaveAttempt stores the attempt, replacing any previous attempt for
	// the same email.
	SaveAttempt(ctx context.Context, a *verification.Attempt) error
}

type AttemptDeleter interface {
	DeleteAttempt(ctx context.Context, id verification.ID) error
}

type AttemptUpdater interface {
	UpdateAttemptByEmail(ctx context.Context, email string, fn func(ctx context.Context, a *verification.Attempt) error) error
}

type MemberGetter interface {
	GetMemberByEmail(ctx context.Context, email string) (*member.Member, error)
	IsMemberExists(ctx context.Context, email string) (bool, error)
}

// Registrar persists a new member and consumes the matching verification
// attempt in a single transaction. fn receives the attempt locked for
// update and returns the member to insert.
type Registrar interface {
	RegisterMember(ctx context.Context, email string, fn func(ctx context.Context, a *verification.Attempt) (*member.Member, error)) error
}

type CodeSender interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}
