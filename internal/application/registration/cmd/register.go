package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/logging"
)

type Register struct {
	Email    string
	Code     string
	Name     string
	Password string
}

type RegisterHandler struct {
	tracer       trace.Tracer
	logger       *slog.Logger
	registrar    Registrar
	membergetter MemberGetter
}

type RegisterHandlerArgs struct {
	Tracer       trace.Tracer
	Logger       *slog.Logger
	Registrar    Registrar
	MemberGetter MemberGetter
}

func NewRegisterHandler(args RegisterHandlerArgs) *RegisterHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &RegisterHandler{
		tracer:       args.Tracer,
		logger:       args.Logger,
		registrar:    args.Registrar,
		membergetter: args.MemberGetter,
	}
}

func (h *RegisterHandler) Handle(ctx context.Context, cmd Register) error {
	ctx, span := h.tracer.Start(ctx, "RegisterHandler.Handle")
	defer span.End()

	span.SetAttributes(attribute.String("member.email", logging.RedactEmail(cmd.Email)))

	h.logger.DebugContext(ctx, "registering member")

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

	// The code check, the attempt consumption and the member insert all
	// happen in one transaction, so a consumed attempt can never be left
	// behind without its member.
	err = h.registrar.RegisterMember(ctx, cmd.Email, func(ctx context.Context, a *verification.Attempt) (*member.Member, error) {
		if err := a.CheckCode(cmd.Code); err != nil {
			trace.SpanFromContext(ctx).AddEvent("code check failed")
			return nil, err
		}
		if err := a.Consume(); err != nil {
			return nil, err
		}

		m, err := member.NewMember(member.NewMemberArgs{
			Email:    cmd.Email,
			Name:     cmd.Name,
			Password: cmd.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create member: %w", err)
		}
		return m, nil
	})
	if err != nil {
		if errorx.IsNotFound(err) {
			err = errorx.NewNoActiveAttempt()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to register member")
		return err
	}
	span.AddEvent("Member registered")

	return nil
}
