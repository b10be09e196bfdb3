package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ARUMANDESU/validation"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	authapp "gitlab.com/staffsync/staffsync-backend/internal/application/auth"
	"gitlab.com/staffsync/staffsync-backend/pkg/ctxs"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/httpx"
)

var (
	tracer = otel.Tracer("staffsync/internal/ports/http/middlewares")
	logger = otelslog.NewLogger("staffsync/internal/ports/http/middlewares")
)

type Middleware struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	auth       *authapp.App
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	Auth       *authapp.App
	Errhandler *httpx.ErrorHandler
}

func NewMiddleware(args Args) *Middleware {
	m := &Middleware{
		tracer:     args.Tracer,
		logger:     args.Logger,
		auth:       args.Auth,
		errhandler: args.Errhandler,
	}

	if m.tracer == nil {
		m.tracer = tracer
	}
	if m.logger == nil {
		m.logger = logger
	}
	if m.auth == nil {
		panic("auth app is required for auth middleware")
	}
	if m.errhandler == nil {
		m.errhandler = httpx.NewErrorHandler()
	}
	return m
}

// Auth requires a valid bearer access token and puts the caller's identity
// into the request context.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := m.tracer.Start(r.Context(), "AuthMiddleware")
		defer span.End()

		header := r.Header.Get("Authorization")
		tokenstr, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			m.errhandler.HandleError(w, r, span, errorx.NewUnauthorized(), "missing bearer token")
			return
		}

		err := validation.Validate(tokenstr, validation.Required, validation.Length(1, 1000))
		if err != nil {
			m.errhandler.HandleError(w, r, span, errorx.NewTokenInvalid().WithCause(err), "invalid bearer token")
			return
		}

		identity, err := m.auth.ValidateAccess(ctx, tokenstr)
		if err != nil {
			m.errhandler.HandleError(w, r, span, err, "failed to validate access token")
			return
		}

		ctx = ctxs.WithMember(ctx, &ctxs.Member{
			ID:   identity.MemberID,
			Role: identity.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
