package http

import (
	"github.com/go-chi/chi/v5"

	authapp "gitlab.com/staffsync/staffsync-backend/internal/application/auth"
	"gitlab.com/staffsync/staffsync-backend/internal/application/registration"
	authhttp "gitlab.com/staffsync/staffsync-backend/internal/ports/http/auth"
	memberhttp "gitlab.com/staffsync/staffsync-backend/internal/ports/http/member"
	"gitlab.com/staffsync/staffsync-backend/internal/ports/http/middlewares"
	"gitlab.com/staffsync/staffsync-backend/pkg/httpx"
)

type Port struct {
	member     *memberhttp.HTTP
	auth       *authhttp.HTTP
	middleware *middlewares.Middleware
}

type Args struct {
	RegistrationApp *registration.App
	AuthApp         *authapp.App
	Errhandler      *httpx.ErrorHandler
}

func NewPort(args Args) *Port {
	errhandler := args.Errhandler
	if errhandler == nil {
		errhandler = httpx.NewErrorHandler()
	}

	return &Port{
		member: memberhttp.NewHTTP(memberhttp.Args{
			App:        args.RegistrationApp,
			Errhandler: errhandler,
		}),
		auth: authhttp.NewHTTP(authhttp.Args{
			App:        args.AuthApp,
			Errhandler: errhandler,
		}),
		middleware: middlewares.NewMiddleware(middlewares.Args{
			Auth:       args.AuthApp,
			Errhandler: errhandler,
		}),
	}
}

func (p *Port) Route(r chi.Router) chi.Router {
	if r == nil {
		r = chi.NewRouter()
	}

	r.Use(middlewares.OTel)
	r.Use(middlewares.Logger)

	p.member.Route(r)
	p.auth.Route(r)

	r.Group(func(r chi.Router) {
		r.Use(p.middleware.Auth)
		p.auth.RouteProtected(r)
	})

	return r
}

// Middleware exposes the auth middleware for routes mounted outside this
// port.
func (p *Port) Middleware() *middlewares.Middleware {
	return p.middleware
}
