package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/logging"
)

type VerifyCode struct {
	Email string
	Code  string
}

type VerifyCodeHandler struct {
	tracer      trace.Tracer
	logger      *slog.Logger
	attemptrepo AttemptUpdater
}

type VerifyCodeHandlerArgs struct {
	Tracer      trace.Tracer
	Logger      *slog.Logger
	AttemptRepo AttemptUpdater
}

func NewVerifyCodeHandler(args VerifyCodeHandlerArgs) *VerifyCodeHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &VerifyCodeHandler{
		tracer:      args.Tracer,
		logger:      args.Logger,
		attemptrepo: args.AttemptRepo,
	}
}

func (h *VerifyCodeHandler) Handle(ctx context.Context, cmd VerifyCode) error {
	ctx, span := h.tracer.Start(ctx, "VerifyCodeHandler.Handle")
	defer span.End()

	span.SetAttributes(attribute.String("member.email", logging.RedactEmail(cmd.Email)))

	h.logger.DebugContext(ctx, "verifying code")

	err := h.attemptrepo.UpdateAttemptByEmail(ctx, cmd.Email, func(ctx context.Context, a *verification.Attempt) error {
		err := a.VerifyCode(cmd.Code)
		if err != nil {
			trace.SpanFromContext(ctx).AddEvent("code verification failed")
			return fmt.Errorf("failed to verify code: %w", err)
		}
		return nil
	})
	if err != nil {
		if errorx.IsNotFound(err) {
			err = errorx.NewNoActiveAttempt()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to verify code")
		return err
	}

	return nil
}
