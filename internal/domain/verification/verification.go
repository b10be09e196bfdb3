package verification

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
	"github.com/google/uuid"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/event"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/randcode"
)

const (
	CodeLength = 6

	CodeTTL     = 10 * time.Minute
	VerifiedTTL = 10 * time.Minute
	MaxAttempts = 5
)

type Status string

func (s Status) String() string {
	return string(s)
}

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusConsumed Status = "consumed"
)

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id).String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	uid, err := uuid.Parse(s)
	if err != nil {
		return err
	}

	*id = ID(uid)
	return nil
}

// Attempt is one email-verification lifecycle: a code is issued, checked
// against guesses, marked verified on a match, and consumed exactly once
// at registration. Only the sha256 of the code is ever persisted; the
// plaintext lives on the aggregate just long enough to hand to the mailer.
type Attempt struct {
	event.Recorder
	id                ID
	email             string
	codeHash          string
	plainCode         string
	status            Status
	failedAttempts    int8
	codeExpiresAt     time.Time
	verifiedExpiresAt time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

func NewAttempt(email string) (*Attempt, error) {
	err := validation.Validate(&email, validation.Required, is.Email)
	if err != nil {
		return nil, err
	}

	code, err := randcode.GenerateNumericCode(CodeLength)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	a := &Attempt{
		id:             NewID(),
		email:          email,
		codeHash:       HashCode(code),
		plainCode:      code,
		status:         StatusPending,
		failedAttempts: 0,
		codeExpiresAt:  now.Add(CodeTTL),
		createdAt:      now,
		updatedAt:      now,
	}

	a.AddEvent(&CodeIssued{
		Header:    event.NewEventHeader(),
		AttemptID: a.id,
		Email:     email,
	})

	return a, nil
}

type RehydrateArgs struct {
	ID                ID
	Email             string
	CodeHash          string
	Status            Status
	FailedAttempts    int8
	CodeExpiresAt     time.Time
	VerifiedExpiresAt time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func Rehydrate(args RehydrateArgs) *Attempt {
	return &Attempt{
		id:                args.ID,
		email:             args.Email,
		codeHash:          args.CodeHash,
		status:            args.Status,
		failedAttempts:    args.FailedAttempts,
		codeExpiresAt:     args.CodeExpiresAt,
		verifiedExpiresAt: args.VerifiedExpiresAt,
		createdAt:         args.CreatedAt,
		updatedAt:         args.UpdatedAt,
	}
}

// VerifyCode checks a submitted code against the issued one. A mismatch
// bumps the failed counter and must be persisted even though an error is
// returned, hence the Persistable wrapper.
func (a *Attempt) VerifyCode(code string) error {
	switch a.status {
	case StatusConsumed:
		return errorx.NewAlreadyConsumed()
	case StatusVerified:
		// the code is spent the moment it verifies; only register may recheck it
		return errorx.NewAlreadyConsumed()
	}

	if time.Now().After(a.codeExpiresAt) {
		return errorx.NewCodeExpired()
	}

	if a.failedAttempts >= MaxAttempts {
		return errorx.NewAttemptsExceeded()
	}

	if !a.matches(code) {
		a.failedAttempts++
		a.updatedAt = time.Now().UTC()
		if a.failedAttempts >= MaxAttempts {
			return errorx.NewPersistable(errorx.NewAttemptsExceeded())
		}
		return errorx.NewPersistable(errorx.NewCodeMismatch())
	}

	now := time.Now().UTC()
	a.status = StatusVerified
	a.verifiedExpiresAt = now.Add(VerifiedTTL)
	a.updatedAt = now
	a.AddEvent(&EmailVerified{
		Header:    event.NewEventHeader(),
		AttemptID: a.id,
		Email:     a.email,
	})

	return nil
}

// CheckCode re-validates the code at registration time without consuming
// the attempt. The attempt must already be verified and still inside the
// verified window.
func (a *Attempt) CheckCode(code string) error {
	switch a.status {
	case StatusConsumed:
		return errorx.NewAlreadyConsumed()
	case StatusPending:
		return errorx.NewNotVerified()
	}

	if time.Now().After(a.verifiedExpiresAt) {
		return errorx.NewCodeExpired()
	}

	if !a.matches(code) {
		return errorx.NewCodeMismatch()
	}

	return nil
}

// Consume marks the attempt used. A consumed attempt can never verify a
// second registration.
func (a *Attempt) Consume() error {
	switch a.status {
	case StatusConsumed:
		return errorx.NewAlreadyConsumed()
	case StatusPending:
		return errorx.NewNotVerified()
	}

	a.status = StatusConsumed
	a.updatedAt = time.Now().UTC()
	return nil
}

func (a *Attempt) matches(code string) bool {
	sum := sha256.Sum256([]byte(code))
	want, err := hex.DecodeString(a.codeHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(sum[:], want) == 1
}

func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func (a *Attempt) IsStatus(s Status) bool {
	if a == nil {
		return false
	}

	return a.status == s
}

func (a *Attempt) IsConsumed() bool {
	return a.IsStatus(StatusConsumed)
}

func (a *Attempt) ID() ID {
	if a == nil {
		return ID{}
	}

	return a.id
}

func (a *Attempt) Email() string {
	if a == nil {
		return ""
	}

	return a.email
}

func (a *Attempt) Status() Status {
	if a == nil {
		return ""
	}

	return a.status
}

func (a *Attempt) CodeHash() string {
	if a == nil {
		return ""
	}

	return a.codeHash
}

// PlainCode is only set on a freshly issued attempt, never after rehydration.
func (a *Attempt) PlainCode() string {
	if a == nil {
		return ""
	}

	return a.plainCode
}

func (a *Attempt) FailedAttempts() int8 {
	if a == nil {
		return 0
	}

	return a.failedAttempts
}

func (a *Attempt) CodeExpiresAt() time.Time {
	if a == nil {
		return time.Time{}
	}

	return a.codeExpiresAt
}

func (a *Attempt) VerifiedExpiresAt() time.Time {
	if a == nil {
		return time.Time{}
	}

	return a.verifiedExpiresAt
}

func (a *Attempt) CreatedAt() time.Time {
	if a == nil {
		return time.Time{}
	}

	return a.createdAt
}

func (a *Attempt) UpdatedAt() time.Time {
	if a == nil {
		return time.Time{}
	}

	return a.updatedAt
}
