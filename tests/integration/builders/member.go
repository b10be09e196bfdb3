package builders

import (
	"time"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/role"
)

type MemberBuilder struct {
	id        member.ID
	email     string
	name      string
	role      role.Role
	password  string
	createdAt time.Time
	updatedAt time.Time
}

func NewMemberBuilder() *MemberBuilder {
	now := time.Now()

	return &MemberBuilder{
		id:        member.NewID(),
		email:     "test@example.com",
		name:      "Test Member",
		role:      role.Employee,
		password:  "Str0ng#Passw0rd",
		createdAt: now,
		updatedAt: now,
	}
}

func (b *MemberBuilder) WithID(id member.ID) *MemberBuilder {
	b.id = id
	return b
}

func (b *MemberBuilder) WithEmail(email string) *MemberBuilder {
	b.email = email
	return b
}

func (b *MemberBuilder) WithName(name string) *MemberBuilder {
	b.name = name
	return b
}

func (b *MemberBuilder) WithPassword(password string) *MemberBuilder {
	b.password = password
	return b
}

func (b *MemberBuilder) AsAdmin() *MemberBuilder {
	b.role = role.Admin
	return b
}

func (b *MemberBuilder) Build() *member.Member {
	passhash, err := member.NewPasswordHash(b.password)
	if err != nil {
		panic(err)
	}

	return member.Rehydrate(member.RehydrateArgs{
		ID:        b.id,
		Email:     b.email,
		Name:      b.name,
		Role:      b.role,
		PassHash:  passhash,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	})
}
