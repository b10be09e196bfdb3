package fixtures

import (
	"strings"

	"github.com/google/uuid"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
)

// Test emails
const (
	ValidMemberEmail  = "member@test.com"
	ValidMember2Email = "member2@test.com"
	ValidMember3Email = "member3@test.com"
	ValidAdminEmail   = "admin@test.com"
	InvalidEmail      = "notanemail"
)

const (
	ValidCode = "123456"
	WrongCode = "654321"

	ValidName     = "Test Member"
	ValidPassword = "Str0ng#Passw0rd"
	WrongPassword = "Wr0ng#Passw0rd"

	// Long enough for HS256 in tests; never use outside of them.
	AccessTokenSecretKey = "test-secret-key-for-signing-access-tokens"
)

var (
	ValidMemberID  = member.ID(uuid.MustParse("880e8400-e29b-41d4-a716-446655440000"))
	ValidMember2ID = member.ID(uuid.MustParse("880e8400-e29b-41d4-a716-446655440001"))
	ValidAdminID   = member.ID(uuid.MustParse("990e8400-e29b-41d4-a716-446655440000"))
)

var (
	InvalidLongName      = strings.Repeat("A", member.MaxNameLen+1)
	InvalidShortPassword = "Sh0rt#1"
	WeakPassword         = "alllowercasebutlong"
)
