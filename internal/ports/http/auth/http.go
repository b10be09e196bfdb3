package authhttp

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	authapp "gitlab.com/staffsync/staffsync-backend/internal/application/auth"
	"gitlab.com/staffsync/staffsync-backend/pkg/ctxs"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/httpx"
	"gitlab.com/staffsync/staffsync-backend/pkg/logging"
	"gitlab.com/staffsync/staffsync-backend/pkg/otelx"
	"gitlab.com/staffsync/staffsync-backend/pkg/sanitizex"
	"gitlab.com/staffsync/staffsync-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("staffsync/internal/ports/http/auth")
	logger = otelslog.NewLogger("staffsync/internal/ports/http/auth")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	app        *authapp.App
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *authapp.App
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
		app:        args.App,
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
	})
}

// RouteProtected registers routes that require the auth middleware; the
// caller wraps them.
func (h *HTTP) RouteProtected(r chi.Router) {
	r.Get("/api/auth/me", h.Me)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Sanitized() {
	r.Email = sanitizex.CleanEmail(r.Email)
	r.Password = strings.TrimSpace(r.Password)
}

func (r *LoginRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
		validation.Field(&r.Password, validation.Required),
	)
}

func (h *HTTP) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Login")
	defer span.End()

	var req LoginRequest
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

	res, err := h.app.LoginHandle(ctx, authapp.Login{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to login")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
		"email":        res.Member.Email(),
		"name":         res.Member.Name(),
		"role":         res.Member.Role().String(),
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *RefreshRequest) Sanitized() {
	r.RefreshToken = sanitizex.CleanSingleLine(r.RefreshToken)
}

func (r *RefreshRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{
		"refresh_token": logging.RedactKeepPrefix(r.RefreshToken, 8),
	})
}

func (r *RefreshRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (h *HTTP) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Refresh")
	defer span.End()

	var req RefreshRequest
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

	res, err := h.app.RefreshHandle(ctx, authapp.Refresh{RefreshToken: req.RefreshToken})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to refresh token")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

func (h *HTTP) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Me")
	defer span.End()

	caller, ok := ctxs.MemberFromCtx(ctx)
	if !ok {
		h.errhandler.HandleError(w, r, span, errorx.NewUnauthorized(), "missing identity in context")
		return
	}

	m, err := h.app.MeHandle(ctx, caller.ID)
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to get member profile")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"email": m.Email(),
		"name":  m.Name(),
		"role":  m.Role().String(),
	})
}
