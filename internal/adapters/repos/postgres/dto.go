package postgres

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/session"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/role"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
)

type AttemptDTO struct {
	ID                uuid.UUID
	Email             string
	CodeHash          string
	Status            string
	FailedAttempts    int16
	CodeExpiresAt     time.Time
	VerifiedExpiresAt time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func DomainToAttemptDTO(a *verification.Attempt) AttemptDTO {
	return AttemptDTO{
		ID:                uuid.UUID(a.ID()),
		Email:             a.Email(),
		CodeHash:          a.CodeHash(),
		Status:            a.Status().String(),
		FailedAttempts:    int16(a.FailedAttempts()),
		CodeExpiresAt:     a.CodeExpiresAt(),
		VerifiedExpiresAt: a.VerifiedExpiresAt(),
		CreatedAt:         a.CreatedAt(),
		UpdatedAt:         a.UpdatedAt(),
	}
}

func AttemptToDomain(dto AttemptDTO) *verification.Attempt {
	return verification.Rehydrate(verification.RehydrateArgs{
		ID:                verification.ID(dto.ID),
		Email:             dto.Email,
		CodeHash:          dto.CodeHash,
		Status:            verification.Status(dto.Status),
		FailedAttempts:    int8(dto.FailedAttempts),
		CodeExpiresAt:     dto.CodeExpiresAt,
		VerifiedExpiresAt: dto.VerifiedExpiresAt,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
	})
}

type MemberDTO struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Role      string
	Passhash  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

func DomainToMemberDTO(m *member.Member) MemberDTO {
	return MemberDTO{
		ID:        uuid.UUID(m.ID()),
		Email:     m.Email(),
		Name:      m.Name(),
		Role:      m.Role().String(),
		Passhash:  m.PassHash(),
		CreatedAt: m.CreatedAt(),
		UpdatedAt: m.UpdatedAt(),
	}
}

func MemberToDomain(dto MemberDTO) *member.Member {
	return member.Rehydrate(member.RehydrateArgs{
		ID:        member.ID(dto.ID),
		Email:     dto.Email,
		Name:      dto.Name,
		Role:      role.Role(dto.Role),
		PassHash:  dto.Passhash,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	})
}

type SessionDTO struct {
	Token     string
	MemberID  uuid.UUID
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

func DomainToSessionDTO(s *session.Session) SessionDTO {
	return SessionDTO{
		Token:     s.Token(),
		MemberID:  uuid.UUID(s.MemberID()),
		ExpiresAt: s.ExpiresAt(),
		Revoked:   s.IsRevoked(),
		CreatedAt: s.CreatedAt(),
	}
}

func SessionToDomain(dto SessionDTO) *session.Session {
	return session.Rehydrate(session.RehydrateArgs{
		Token:     dto.Token,
		MemberID:  member.ID(dto.MemberID),
		ExpiresAt: dto.ExpiresAt,
		Revoked:   dto.Revoked,
		CreatedAt: dto.CreatedAt,
	})
}
