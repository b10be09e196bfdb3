package query

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/logging"
)

var tracer = otel.Tracer("staffsync/application/registration/query")

type AttemptGetter interface {
	GetAttemptByEmail(ctx context.Context, email string) (*verification.Attempt, error)
}

type CodeTime struct {
	Email string
}

type CodeTimeResult struct {
	Email     string
	Remaining time.Duration
	Expired   bool
}

// CodeTimeHandler reports how long the issued code for an email is still
// usable, so a client can show a countdown.
type CodeTimeHandler struct {
	tracer   trace.Tracer
	attempts AttemptGetter
}

func NewCodeTimeHandler(attempts AttemptGetter) *CodeTimeHandler {
	return &CodeTimeHandler{
		tracer:   tracer,
		attempts: attempts,
	}
}

func (h *CodeTimeHandler) Handle(ctx context.Context, q CodeTime) (CodeTimeResult, error) {
	ctx, span := h.tracer.Start(ctx, "CodeTimeHandler.Handle")
	defer span.End()

	span.SetAttributes(attribute.String("member.email", logging.RedactEmail(q.Email)))

	a, err := h.attempts.GetAttemptByEmail(ctx, q.Email)
	if err != nil {
		if errorx.IsNotFound(err) {
			err = errorx.NewNoActiveAttempt()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get verification attempt")
		return CodeTimeResult{}, err
	}

	remaining := time.Until(a.CodeExpiresAt())
	if remaining < 0 || !a.IsStatus(verification.StatusPending) {
		remaining = 0
	}

	return CodeTimeResult{
		Email:     a.Email(),
		Remaining: remaining,
		Expired:   remaining <= 0,
	}, nil
}
