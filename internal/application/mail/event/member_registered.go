package mailevent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/mails"
	"gitlab.com/staffsync/staffsync-backend/pkg/logging"
)

func (h *MailEventHandler) HandleMemberRegistered(ctx context.Context, e *member.MemberRegistered) error {
	if e == nil {
		return nil
	}

	l := h.logger.With(
		slog.String("event", "MemberRegistered"),
		slog.String("member.id", e.MemberID.String()),
		slog.String("member.email", logging.RedactEmail(e.Email)))

	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandleMemberRegistered",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("member.id", e.MemberID.String()),
			attribute.String("member.email", logging.RedactEmail(e.Email))),
	)
	defer span.End()

	err := validation.ValidateStruct(e, validation.Field(&e.Email, validation.Required, is.Email))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid member registration data")
		l.ErrorContext(ctx, "invalid member registration data", slog.Any("error", err))
		return err
	}

	payload := mails.Payload{
		To:      e.Email,
		Subject: "Welcome to StaffSync",
		Body: fmt.Sprintf(
			"Hello %s,\n\nWelcome to StaffSync! Your registration is successful.\n\nBest regards,\nStaffSync Team",
			e.Name,
		),
	}

	if err := h.mailsender.SendMail(ctx, payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send welcome email")
		l.ErrorContext(ctx, "failed to send welcome email", slog.Any("error", err))
		return err
	}

	return nil
}
