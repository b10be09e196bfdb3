package errorx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestI18nError_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *I18nError
		want int
	}{
		{"invalid credentials", NewInvalidCredentials(), http.StatusUnauthorized},
		{"code mismatch", NewCodeMismatch(), http.StatusUnprocessableEntity},
		{"attempts exceeded", NewAttemptsExceeded(), http.StatusTooManyRequests},
		{"already consumed", NewAlreadyConsumed(), http.StatusConflict},
		{"not verified", NewNotVerified(), http.StatusBadRequest},
		{"delivery failed", NewDeliveryFailed(), http.StatusBadGateway},
		{"no active attempt", NewNoActiveAttempt(), http.StatusBadRequest},
		{"code expired", NewCodeExpired(), http.StatusBadRequest},
		{"duplicate entry", NewDuplicateEntry(), http.StatusConflict},
		{"token expired", NewTokenExpired(), http.StatusUnauthorized},
		{"token invalid", NewTokenInvalid(), http.StatusUnauthorized},
		{"token revoked", NewTokenRevoked(), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatusCode())
		})
	}
}

func TestI18nError_WithCause(t *testing.T) {
	cause := errors.New("smtp dial timeout")
	err := NewDeliveryFailed().WithCause(cause)

	assert.ErrorContains(t, err, "mail_delivery_failed")
	assert.ErrorIs(t, err, cause)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewCodeMismatch(), CodeCodeMismatch))
	assert.False(t, IsCode(NewCodeMismatch(), CodeCodeExpired))
	assert.False(t, IsCode(nil, CodeCodeMismatch))

	wrapped := errors.Join(errors.New("outer"), NewAttemptsExceeded())
	assert.True(t, IsCode(wrapped, CodeAttemptsExceeded))
}

func TestPersistable(t *testing.T) {
	inner := NewCodeMismatch()
	p := NewPersistable(inner)

	assert.True(t, IsPersistable(p))
	assert.True(t, IsCode(p, CodeCodeMismatch), "wrapped code should survive the persistable marker")
	assert.False(t, IsPersistable(inner))
	assert.Nil(t, NewPersistable(nil))
}
