package verification

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type AttemptAssertion struct {
	Attempt *Attempt
}

func NewAttemptAssertion(a *Attempt) *AttemptAssertion {
	return &AttemptAssertion{Attempt: a}
}

func (aa *AttemptAssertion) AssertStatus(t *testing.T, expected Status) *AttemptAssertion {
	t.Helper()
	assert.Equal(t, expected, aa.Attempt.status, "Expected attempt status to be %s, got %s", expected, aa.Attempt.status)
	return aa
}

func (aa *AttemptAssertion) AssertEmail(t *testing.T, expected string) *AttemptAssertion {
	t.Helper()
	assert.Equal(t, expected, aa.Attempt.email, "Expected attempt email to be %s, got %s", expected, aa.Attempt.email)
	return aa
}

func (aa *AttemptAssertion) AssertCodeHashNotEmpty(t *testing.T) *AttemptAssertion {
	t.Helper()
	assert.NotEmpty(t, aa.Attempt.codeHash, "Expected attempt code hash to not be empty")
	return aa
}

func (aa *AttemptAssertion) AssertPlainCodeHashes(t *testing.T) *AttemptAssertion {
	t.Helper()
	assert.Equal(t, HashCode(aa.Attempt.plainCode), aa.Attempt.codeHash,
		"Expected stored hash to be the sha256 of the plaintext code")
	return aa
}

func (aa *AttemptAssertion) AssertFailedAttempts(t *testing.T, expected int8) *AttemptAssertion {
	t.Helper()
	assert.Equal(
		t,
		expected,
		aa.Attempt.failedAttempts,
		"Expected attempt failed attempts to be %d, got %d",
		expected,
		aa.Attempt.failedAttempts,
	)
	return aa
}

func (aa *AttemptAssertion) AssertCodeExpiresAt(t *testing.T, expected time.Time) *AttemptAssertion {
	t.Helper()
	assert.WithinDuration(
		t,
		expected,
		aa.Attempt.codeExpiresAt,
		1*time.Second,
		"Expected attempt code expires at to be within 1 second of %s, got %s",
		expected,
		aa.Attempt.codeExpiresAt,
	)
	return aa
}

func (aa *AttemptAssertion) AssertVerifiedExpiresAt(t *testing.T, expected time.Time) *AttemptAssertion {
	t.Helper()
	assert.WithinDuration(
		t,
		expected,
		aa.Attempt.verifiedExpiresAt,
		1*time.Second,
		"Expected attempt verified expires at to be within 1 second of %s, got %s",
		expected,
		aa.Attempt.verifiedExpiresAt,
	)
	return aa
}

func (aa *AttemptAssertion) AssertIsNotExpired(t *testing.T) *AttemptAssertion {
	t.Helper()
	assert.True(t, aa.Attempt.codeExpiresAt.After(time.Now()),
		"Expected attempt code to not be expired, but it is; code expires at %s, current time is %s",
		aa.Attempt.codeExpiresAt,
		time.Now(),
	)
	return aa
}

func (aa *AttemptAssertion) AssertEventsCount(t *testing.T, expected int) *AttemptAssertion {
	t.Helper()
	events := aa.Attempt.GetUncommittedEvents()
	assert.Len(t, events, expected, "Expected %d uncommitted events, got %d", expected, len(events))
	return aa
}

func (aa *AttemptAssertion) AssertNoEvents(t *testing.T) *AttemptAssertion {
	t.Helper()
	events := aa.Attempt.GetUncommittedEvents()
	assert.Empty(t, events, "Expected no uncommitted events, got %d", len(events))
	return aa
}

func (aa *AttemptAssertion) AssertEventExists(t *testing.T, eventType string) *AttemptAssertion {
	t.Helper()
	events := aa.Attempt.GetUncommittedEvents()
	for _, ev := range events {
		if fmt.Sprintf("%T", ev) == eventType {
			return aa
		}
	}
	t.Errorf("Expected event of type %s to exist, but it does not", eventType)
	return aa
}
