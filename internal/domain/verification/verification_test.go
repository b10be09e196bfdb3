package verification

import (
	"testing"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
)

func TestNewAttempt(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		expectError bool
	}{
		{
			name:  "valid email",
			email: "test@example.com",
		},
		{
			name:        "empty email",
			email:       "",
			expectError: true,
		},
		{
			name:        "invalid email format - no @",
			email:       "notanemail",
			expectError: true,
		},
		{
			name:        "invalid email format - no domain",
			email:       "user@",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAttempt(tt.email)

			if tt.expectError {
				require.Error(t, err)
				require.Nil(t, a)
			} else {
				require.NoError(t, err)
				require.NotNil(t, a)

				NewAttemptAssertion(a).
					AssertStatus(t, StatusPending).
					AssertEmail(t, tt.email).
					AssertCodeHashNotEmpty(t).
					AssertPlainCodeHashes(t).
					AssertFailedAttempts(t, 0).
					AssertCodeExpiresAt(t, time.Now().Add(CodeTTL)).
					AssertEventsCount(t, 1)

				assert.Len(t, a.PlainCode(), CodeLength)

				events := a.GetUncommittedEvents()
				require.Len(t, events, 1)
				issued, ok := events[0].(*CodeIssued)
				require.True(t, ok)
				assert.Equal(t, a.ID(), issued.AttemptID)
				assert.Equal(t, tt.email, issued.Email)
			}
		})
	}
}

func TestNewAttempt_EmptyEmailValidationError(t *testing.T) {
	_, err := NewAttempt("")
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrEmpty)
}

func TestAttempt_VerifyCode(t *testing.T) {
	t.Run("correct code verifies", func(t *testing.T) {
		a, err := NewAttempt("verify@example.com")
		require.NoError(t, err)

		err = a.VerifyCode(a.PlainCode())
		require.NoError(t, err)

		NewAttemptAssertion(a).
			AssertStatus(t, StatusVerified).
			AssertFailedAttempts(t, 0).
			AssertVerifiedExpiresAt(t, time.Now().Add(VerifiedTTL)).
			AssertEventExists(t, "*verification.EmailVerified")
	})

	t.Run("wrong code bumps counter and is persistable", func(t *testing.T) {
		a, err := NewAttempt("mismatch@example.com")
		require.NoError(t, err)

		wrong := wrongCode(a.PlainCode())
		err = a.VerifyCode(wrong)
		require.Error(t, err)
		assert.True(t, errorx.IsPersistable(err))
		assert.True(t, errorx.IsCode(err, errorx.CodeCodeMismatch))

		NewAttemptAssertion(a).
			AssertStatus(t, StatusPending).
			AssertFailedAttempts(t, 1)
	})

	t.Run("hitting the cap returns attempts exceeded", func(t *testing.T) {
		a, err := NewAttempt("capped@example.com")
		require.NoError(t, err)

		wrong := wrongCode(a.PlainCode())
		for i := 0; i < MaxAttempts-1; i++ {
			err = a.VerifyCode(wrong)
			require.Error(t, err)
			assert.True(t, errorx.IsCode(err, errorx.CodeCodeMismatch))
		}

		err = a.VerifyCode(wrong)
		require.Error(t, err)
		assert.True(t, errorx.IsPersistable(err))
		assert.True(t, errorx.IsCode(err, errorx.CodeAttemptsExceeded))

		// even the right code is rejected once the cap is reached
		err = a.VerifyCode(a.PlainCode())
		require.Error(t, err)
		assert.True(t, errorx.IsCode(err, errorx.CodeAttemptsExceeded))
	})

	t.Run("expired code is rejected", func(t *testing.T) {
		a, err := NewAttempt("expired@example.com")
		require.NoError(t, err)

		expired := Rehydrate(RehydrateArgs{
			ID:            a.ID(),
			Email:         a.Email(),
			CodeHash:      a.CodeHash(),
			Status:        StatusPending,
			CodeExpiresAt: time.Now().Add(-time.Minute),
			CreatedAt:     a.CreatedAt(),
			UpdatedAt:     a.UpdatedAt(),
		})

		err = expired.VerifyCode(a.PlainCode())
		require.Error(t, err)
		assert.True(t, errorx.IsCode(err, errorx.CodeCodeExpired))
		assert.False(t, errorx.IsPersistable(err))
	})

	t.Run("code verifies exactly once", func(t *testing.T) {
		a, err := NewAttempt("once@example.com")
		require.NoError(t, err)

		require.NoError(t, a.VerifyCode(a.PlainCode()))

		err = a.VerifyCode(a.PlainCode())
		require.Error(t, err, "second submission of the same correct code must fail")
		assert.True(t, errorx.IsCode(err, errorx.CodeAlreadyConsumed))
		NewAttemptAssertion(a).AssertStatus(t, StatusVerified)
	})

	t.Run("consumed attempt is rejected", func(t *testing.T) {
		a, err := NewAttempt("consumed@example.com")
		require.NoError(t, err)

		require.NoError(t, a.VerifyCode(a.PlainCode()))
		require.NoError(t, a.Consume())

		err = a.VerifyCode(a.PlainCode())
		require.Error(t, err)
		assert.True(t, errorx.IsCode(err, errorx.CodeAlreadyConsumed))
	})
}

func TestAttempt_CheckCode(t *testing.T) {
	t.Run("verified attempt with right code passes", func(t *testing.T) {
		a, err := NewAttempt("check@example.com")
		require.NoError(t, err)
		require.NoError(t, a.VerifyCode(a.PlainCode()))

		assert.NoError(t, a.CheckCode(a.PlainCode()))
	})

	t.Run("pending attempt is not verified", func(t *testing.T) {
		a, err := NewAttempt("pending@example.com")
		require.NoError(t, err)

		err = a.CheckCode(a.PlainCode())
		require.Error(t, err)
		assert.True(t, errorx.IsCode(err, errorx.CodeNotVerified))
	})

	t.Run("verified window elapsed", func(t *testing.T) {
		a, err := NewAttempt("window@example.com")
		require.NoError(t, err)

		stale := Rehydrate(RehydrateArgs{
			ID:                a.ID(),
			Email:             a.Email(),
			CodeHash:          a.CodeHash(),
			Status:            StatusVerified,
			CodeExpiresAt:     time.Now().Add(-time.Hour),
			VerifiedExpiresAt: time.Now().Add(-time.Minute),
		})

		err = stale.CheckCode(a.PlainCode())
		require.Error(t, err)
		assert.True(t, errorx.IsCode(err, errorx.CodeCodeExpired))
	})

	t.Run("wrong code mismatch", func(t *testing.T) {
		a, err := NewAttempt("checkwrong@example.com")
		require.NoError(t, err)
		require.NoError(t, a.VerifyCode(a.PlainCode()))

		err = a.CheckCode(wrongCode(a.PlainCode()))
		require.Error(t, err)
		assert.True(t, errorx.IsCode(err, errorx.CodeCodeMismatch))
	})
}

func TestAttempt_Consume(t *testing.T) {
	t.Run("verified attempt consumes once", func(t *testing.T) {
		a, err := NewAttempt("consume@example.com")
		require.NoError(t, err)
		require.NoError(t, a.VerifyCode(a.PlainCode()))

		require.NoError(t, a.Consume())
		NewAttemptAssertion(a).AssertStatus(t, StatusConsumed)

		err = a.Consume()
		require.Error(t, err)
		assert.True(t, errorx.IsCode(err, errorx.CodeAlreadyConsumed))
	})

	t.Run("pending attempt cannot be consumed", func(t *testing.T) {
		a, err := NewAttempt("consumepending@example.com")
		require.NoError(t, err)

		err = a.Consume()
		require.Error(t, err)
		assert.True(t, errorx.IsCode(err, errorx.CodeNotVerified))
	})
}

func TestRehydrate_NoPlainCode(t *testing.T) {
	a, err := NewAttempt("rehydrate@example.com")
	require.NoError(t, err)

	r := Rehydrate(RehydrateArgs{
		ID:            a.ID(),
		Email:         a.Email(),
		CodeHash:      a.CodeHash(),
		Status:        StatusPending,
		CodeExpiresAt: a.CodeExpiresAt(),
	})

	assert.Empty(t, r.PlainCode())
	assert.NoError(t, r.VerifyCode(a.PlainCode()), "rehydrated attempt should verify against the stored hash")
}

// wrongCode returns a 6-digit code guaranteed to differ from the given one.
func wrongCode(code string) string {
	if code == "000000" {
		return "000001"
	}
	return "000000"
}
