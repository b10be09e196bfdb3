package member

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/event"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/role"
	"gitlab.com/staffsync/staffsync-backend/pkg/validationx"
)

const PasswordCostFactor = 12 // Future-proofing; default is 10 in 2025.08.18

const (
	MaxNameLen = 150
	MinNameLen = 1
)

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func ParseID(s string) (ID, error) {
	uid, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("failed to parse member id: %w", err)
	}
	return ID(uid), nil
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

// Member is a registered account. Registration always starts from a
// verified email attempt; the aggregate never sees a plaintext password
// after construction.
type Member struct {
	event.Recorder
	id        ID
	email     string
	name      string
	role      role.Role
	passHash  []byte
	createdAt time.Time
	updatedAt time.Time
}

type NewMemberArgs struct {
	Email    string
	Name     string
	Password string
}

func NewMember(args NewMemberArgs) (*Member, error) {
	err := validation.Errors{
		"email":    validation.Validate(args.Email, validationx.EmailRules...),
		"name":     validation.Validate(args.Name, validationx.NameRules...),
		"password": validation.Validate(args.Password, validationx.PasswordRules...),
	}.Filter()
	if err != nil {
		return nil, err
	}

	passHash, err := NewPasswordHash(args.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &Member{
		id:        NewID(),
		email:     args.Email,
		name:      args.Name,
		role:      role.Employee,
		passHash:  passHash,
		createdAt: now,
		updatedAt: now,
	}

	m.AddEvent(&MemberRegistered{
		Header:   event.NewEventHeader(),
		MemberID: m.id,
		Email:    m.email,
		Name:     m.name,
		Role:     m.role,
	})

	return m, nil
}

type CreateInitialAdminArgs struct {
	Email    string
	Name     string
	Password string
}

// CreateInitialAdmin builds the bootstrap admin account. It skips the
// verification flow; the operator vouches for the address via config.
func CreateInitialAdmin(args CreateInitialAdminArgs) (*Member, error) {
	err := validation.Errors{
		"email":    validation.Validate(args.Email, validationx.EmailRules...),
		"name":     validation.Validate(args.Name, validationx.NameRules...),
		"password": validation.Validate(args.Password, validationx.PasswordRules...),
	}.Filter()
	if err != nil {
		return nil, err
	}

	passHash, err := NewPasswordHash(args.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Member{
		id:        NewID(),
		email:     args.Email,
		name:      args.Name,
		role:      role.Admin,
		passHash:  passHash,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type RehydrateArgs struct {
	ID        ID
	Email     string
	Name      string
	Role      role.Role
	PassHash  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

func Rehydrate(args RehydrateArgs) *Member {
	return &Member{
		id:        args.ID,
		email:     args.Email,
		name:      args.Name,
		role:      args.Role,
		passHash:  args.PassHash,
		createdAt: args.CreatedAt,
		updatedAt: args.UpdatedAt,
	}
}

func (m *Member) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(m.passHash, []byte(password))
}

func (m *Member) ID() ID {
	if m == nil {
		return ID{}
	}

	return m.id
}

func (m *Member) Email() string {
	if m == nil {
		return ""
	}

	return m.email
}

func (m *Member) Name() string {
	if m == nil {
		return ""
	}

	return m.name
}

func (m *Member) Role() role.Role {
	if m == nil {
		return ""
	}

	return m.role
}

func (m *Member) PassHash() []byte {
	if m == nil {
		return nil
	}

	return m.passHash
}

func (m *Member) CreatedAt() time.Time {
	if m == nil {
		return time.Time{}
	}

	return m.createdAt
}

func (m *Member) UpdatedAt() time.Time {
	if m == nil {
		return time.Time{}
	}

	return m.updatedAt
}

func NewPasswordHash(password string) ([]byte, error) {
	passhash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCostFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password hash from password: %w", err)
	}
	return passhash, nil
}
