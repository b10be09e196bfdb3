package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/logging"
)

var (
	tracer = otel.Tracer("staffsync/application/registration/cmd")
	logger = otelslog.NewLogger("staffsync/application/registration/cmd")
)

type SendCode struct {
	Email string
}

type SendCodeHandler struct {
	tracer       trace.Tracer
	logger       *slog.Logger
	attemptrepo  SendCodeAttemptRepo
	membergetter MemberGetter
	sender       CodeSender
}

type SendCodeAttemptRepo interface {
	AttemptSaver
	AttemptDeleter
}

type SendCodeHandlerArgs struct {
	Tracer       trace.Tracer
	Logger       *slog.Logger
	AttemptRepo  SendCodeAttemptRepo
	MemberGetter MemberGetter
	Sender       CodeSender
}

func NewSendCodeHandler(args SendCodeHandlerArgs) *SendCodeHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &SendCodeHandler{
		tracer:       args.Tracer,
		logger:       args.Logger,
		attemptrepo:  args.AttemptRepo,
		membergetter: args.MemberGetter,
		sender:       args.Sender,
	}
}

func (h *SendCodeHandler) Handle(ctx context.Context, cmd SendCode) error {
	ctx, span := h.tracer.Start(ctx, "SendCodeHandler.Handle")
	defer span.End()

	span.SetAttributes(attribute.String("member.email", logging.RedactEmail(cmd.Email)))

	h.logger.DebugContext(ctx, "sending verification code")

	exists, err := h.membergetter.IsMemberExists(ctx, cmd.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to check member existence")
		return fmt.Errorf("failed to check member existence: %w", err)
	}
	if exists {
		err := errorx.NewDuplicateEntryWithField("member", "email")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Member already exists")
		return err
	}

	attempt, err := verification.NewAttempt(cmd.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create verification attempt")
		return fmt.Errorf("failed to create verification attempt: %w", err)
	}

	// Replaces any earlier attempt for the same email, so only the most
	// recently issued code is ever valid.
	err = h.attemptrepo.SaveAttempt(ctx, attempt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save verification attempt")
		return fmt.Errorf("failed to save verification attempt: %w", err)
	}
	span.AddEvent("Verification attempt saved",
		trace.WithAttributes(attribute.String("attempt.id", attempt.ID().String())),
	)

	err = h.sender.SendVerificationCode(ctx, cmd.Email, attempt.PlainCode())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to deliver verification code")

		// Undo the attempt so a retry is not blocked by a code the
		// member never received.
		if derr := h.attemptrepo.DeleteAttempt(ctx, attempt.ID()); derr != nil {
			h.logger.ErrorContext(ctx, "failed to delete undeliverable attempt",
				slog.String("attempt_id", attempt.ID().String()),
				slog.Any("error", derr),
			)
		}

		return errorx.NewDeliveryFailed().WithCause(err)
	}

	return nil
}
