package builders

import (
	"time"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
)

type AttemptBuilder struct {
	id                verification.ID
	email             string
	code              string
	status            verification.Status
	failedAttempts    int8
	codeExpiresAt     time.Time
	verifiedExpiresAt time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

func NewAttemptBuilder() *AttemptBuilder {
	now := time.Now()

	return &AttemptBuilder{
		id:             verification.NewID(),
		email:          "test@example.com",
		code:           "123456",
		status:         verification.StatusPending,
		failedAttempts: 0,
		codeExpiresAt:  now.Add(verification.CodeTTL),
		createdAt:      now,
		updatedAt:      now,
	}
}

func (b *AttemptBuilder) WithID(id verification.ID) *AttemptBuilder {
	b.id = id
	return b
}

func (b *AttemptBuilder) WithEmail(email string) *AttemptBuilder {
	b.email = email
	return b
}

// WithCode sets the plaintext code; only its hash ends up on the attempt.
func (b *AttemptBuilder) WithCode(code string) *AttemptBuilder {
	b.code = code
	return b
}

func (b *AttemptBuilder) WithStatus(status verification.Status) *AttemptBuilder {
	b.status = status
	return b
}

func (b *AttemptBuilder) WithFailedAttempts(n int8) *AttemptBuilder {
	b.failedAttempts = n
	return b
}

func (b *AttemptBuilder) WithExpiredCode() *AttemptBuilder {
	b.codeExpiresAt = time.Now().Add(-1 * time.Hour)
	return b
}

func (b *AttemptBuilder) Verified() *AttemptBuilder {
	b.status = verification.StatusVerified
	b.verifiedExpiresAt = time.Now().Add(verification.VerifiedTTL)
	return b
}

func (b *AttemptBuilder) VerifiedButExpired() *AttemptBuilder {
	b.status = verification.StatusVerified
	b.verifiedExpiresAt = time.Now().Add(-1 * time.Hour)
	return b
}

func (b *AttemptBuilder) Consumed() *AttemptBuilder {
	b.status = verification.StatusConsumed
	return b
}

func (b *AttemptBuilder) Build() *verification.Attempt {
	return verification.Rehydrate(verification.RehydrateArgs{
		ID:                b.id,
		Email:             b.email,
		CodeHash:          verification.HashCode(b.code),
		Status:            b.status,
		FailedAttempts:    b.failedAttempts,
		CodeExpiresAt:     b.codeExpiresAt,
		VerifiedExpiresAt: b.verifiedExpiresAt,
		CreatedAt:         b.createdAt,
		UpdatedAt:         b.updatedAt,
	})
}

func (b *AttemptBuilder) BuildNew() (*verification.Attempt, error) {
	return verification.NewAttempt(b.email)
}
