package member

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/role"
)

type MemberAssertion struct {
	Member *Member
}

func NewMemberAssertion(m *Member) *MemberAssertion {
	return &MemberAssertion{Member: m}
}

func (ma *MemberAssertion) AssertEmail(t *testing.T, expected string) *MemberAssertion {
	t.Helper()
	assert.Equal(t, expected, ma.Member.email, "Expected member email to be %s, got %s", expected, ma.Member.email)
	return ma
}

func (ma *MemberAssertion) AssertName(t *testing.T, expected string) *MemberAssertion {
	t.Helper()
	assert.Equal(t, expected, ma.Member.name, "Expected member name to be %s, got %s", expected, ma.Member.name)
	return ma
}

func (ma *MemberAssertion) AssertRole(t *testing.T, expected role.Role) *MemberAssertion {
	t.Helper()
	assert.Equal(t, expected, ma.Member.role, "Expected member role to be %s, got %s", expected, ma.Member.role)
	return ma
}

func (ma *MemberAssertion) AssertPasswordMatches(t *testing.T, password string) *MemberAssertion {
	t.Helper()
	assert.NoError(t, ma.Member.ComparePassword(password), "Expected password to match stored hash")
	return ma
}

func (ma *MemberAssertion) AssertPasswordNotMatches(t *testing.T, password string) *MemberAssertion {
	t.Helper()
	assert.Error(t, ma.Member.ComparePassword(password), "Expected password to not match stored hash")
	return ma
}

func (ma *MemberAssertion) AssertEventsCount(t *testing.T, expected int) *MemberAssertion {
	t.Helper()
	events := ma.Member.GetUncommittedEvents()
	assert.Len(t, events, expected, "Expected %d uncommitted events, got %d", expected, len(events))
	return ma
}
