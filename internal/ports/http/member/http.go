package memberhttp

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	registrationapp "gitlab.com/staffsync/staffsync-backend/internal/application/registration"
	"gitlab.com/staffsync/staffsync-backend/internal/application/registration/cmd"
	"gitlab.com/staffsync/staffsync-backend/internal/application/registration/query"
	"gitlab.com/staffsync/staffsync-backend/pkg/httpx"
	"gitlab.com/staffsync/staffsync-backend/pkg/logging"
	"gitlab.com/staffsync/staffsync-backend/pkg/otelx"
	"gitlab.com/staffsync/staffsync-backend/pkg/sanitizex"
	"gitlab.com/staffsync/staffsync-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("staffsync/internal/ports/http/member")
	logger = otelslog.NewLogger("staffsync/internal/ports/http/member")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	cmd        *registrationapp.Command
	query      *registrationapp.Query
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *registrationapp.App
	Errhandler *httpx.ErrorHandler
}

func NewHTTP(args Args) *HTTP {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &HTTP{
		tracer:     args.Tracer,
		logger:     args.Logger,
		cmd:        &args.App.CMD,
		query:      &args.App.Query,
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Route("/api/members", func(r chi.Router) {
		r.Post("/send-code", h.SendCode)
		r.Post("/verify-code", h.VerifyCode)
		r.Get("/code-time", h.CodeTime)
		r.Post("/register", h.Register)
	})
}

type SendCodeRequest struct {
	Email string
}

func (r *SendCodeRequest) Sanitized() {
	r.Email = sanitizex.CleanEmail(r.Email)
}

func (r *SendCodeRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *SendCodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
	)
}

func (h *HTTP) SendCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SendCode")
	defer span.End()

	req := SendCodeRequest{Email: r.URL.Query().Get("email")}
	req.Sanitized()
	req.SetSpanAttrs(span)
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request")
		return
	}

	if err := h.cmd.SendCode.Handle(ctx, cmd.SendCode{Email: req.Email}); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to send verification code")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"message": "verification code sent"})
}

type VerifyCodeRequest struct {
	Email string
	Code  string
}

func (r *VerifyCodeRequest) Sanitized() {
	r.Email = sanitizex.CleanEmail(r.Email)
	r.Code = sanitizex.CleanSingleLine(r.Code)
}

func (r *VerifyCodeRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *VerifyCodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
		validation.Field(&r.Code, validationx.CodeRules...),
	)
}

func (h *HTTP) VerifyCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "VerifyCode")
	defer span.End()

	req := VerifyCodeRequest{
		Email: r.URL.Query().Get("email"),
		Code:  r.URL.Query().Get("code"),
	}
	req.Sanitized()
	req.SetSpanAttrs(span)
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request")
		return
	}

	if err := h.cmd.VerifyCode.Handle(ctx, cmd.VerifyCode{Email: req.Email, Code: req.Code}); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to verify code")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"message": "email verified"})
}

func (h *HTTP) CodeTime(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CodeTime")
	defer span.End()

	req := SendCodeRequest{Email: r.URL.Query().Get("email")}
	req.Sanitized()
	req.SetSpanAttrs(span)
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request")
		return
	}

	res, err := h.query.CodeTime.Handle(ctx, query.CodeTime{Email: req.Email})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to get code time")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"email":         res.Email,
		"remainingTime": int64(res.Remaining.Seconds()),
		"isExpired":     res.Expired,
	})
}

type RegisterRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
	Name             string `json:"name"`
	Password         string `json:"password"`
}

func (r *RegisterRequest) Sanitized() {
	r.Email = sanitizex.CleanEmail(r.Email)
	r.VerificationCode = sanitizex.CleanSingleLine(r.VerificationCode)
	r.Name = sanitizex.CleanSingleLine(r.Name)
	r.Password = strings.TrimSpace(r.Password)
}

func (r *RegisterRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
		validation.Field(&r.VerificationCode, validationx.CodeRules...),
		validation.Field(&r.Name, validationx.NameRules...),
		validation.Field(&r.Password, validationx.PasswordRules...),
	)
}

func (h *HTTP) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Register")
	defer span.End()

	var req RegisterRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	c := cmd.Register{
		Email:    req.Email,
		Code:     req.VerificationCode,
		Name:     req.Name,
		Password: req.Password,
	}
	if err := h.cmd.Register.Handle(ctx, c); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to register member")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"message": "member registered"})
}
