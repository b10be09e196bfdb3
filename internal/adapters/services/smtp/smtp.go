package smtp

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/gomail.v2"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/mails"
	"gitlab.com/staffsync/staffsync-backend/pkg/logging"
)

var (
	tracer = otel.Tracer("staffsync/adapters/services/smtp")
	logger = otelslog.NewLogger("staffsync/adapters/services/smtp")
)

type Sender struct {
	tracer trace.Tracer
	logger *slog.Logger
	dialer *gomail.Dialer
	from   string
}

type Args struct {
	Tracer trace.Tracer
	Logger *slog.Logger

	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSender(args Args) *Sender {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &Sender{
		tracer: args.Tracer,
		logger: args.Logger,
		dialer: gomail.NewDialer(args.Host, args.Port, args.Username, args.Password),
		from:   args.From,
	}
}

func (s *Sender) SendMail(ctx context.Context, payload mails.Payload) error {
	ctx, span := s.tracer.Start(ctx, "Sender.SendMail",
		trace.WithAttributes(
			attribute.String("mail.to", logging.RedactEmail(payload.To)),
			attribute.String("mail.subject", payload.Subject),
		),
	)
	defer span.End()

	if err := payload.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid mail payload")
		return fmt.Errorf("invalid mail payload: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", payload.To)
	m.SetHeader("Subject", payload.Subject)
	m.SetBody("text/plain", payload.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send mail")
		s.logger.ErrorContext(ctx, "failed to send mail", slog.Any("error", err))
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}

func (s *Sender) SendVerificationCode(ctx context.Context, email, code string) error {
	return s.SendMail(ctx, mails.Payload{
		To:      email,
		Subject: "Your StaffSync verification code",
		Body: fmt.Sprintf(
			"Your verification code is: %s\n\nIt expires in 10 minutes. If you did not request it, you can ignore this email.",
			code,
		),
	})
}
