package authapp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/session"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/role"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/logging"
)

const (
	TokenIssuer            = "staffsync_auth"
	MemberSubject          = "member"
	AccessTokenExpDuration = 30 * time.Minute
)

var (
	tracer = otel.Tracer("staffsync/application/auth")
	logger = otelslog.NewLogger("staffsync/application/auth")
)

type MemberGetter interface {
	GetMemberByEmail(ctx context.Context, email string) (*member.Member, error)
	GetMemberByID(ctx context.Context, id member.ID) (*member.Member, error)
}

type SessionRepo interface {
	SaveSession(ctx context.Context, s *session.Session) error
	// RotateSessionByToken locks the session for the given refresh token,
	// passes it to fn and persists both the mutated old session and the
	// replacement fn returns.
	RotateSessionByToken(ctx context.Context, token string, fn func(ctx context.Context, s *session.Session) (*session.Session, error)) error
}

type App struct {
	tracer       trace.Tracer
	logger       *slog.Logger
	membergetter MemberGetter
	sessionrepo  SessionRepo

	accessTokenExpDuration  time.Duration
	refreshTokenExpDuration time.Duration
	accessTokenSecretKey    []byte
	signingMethod           *jwt.SigningMethodHMAC
}

type Args struct {
	Tracer       trace.Tracer
	Logger       *slog.Logger
	MemberGetter MemberGetter
	SessionRepo  SessionRepo

	AccessTokenSecretKey    string
	AccessTokenExpDuration  *time.Duration
	RefreshTokenExpDuration *time.Duration
}

func NewApp(args Args) *App {
	app := &App{
		tracer:       tracer,
		logger:       logger,
		membergetter: args.MemberGetter,
		sessionrepo:  args.SessionRepo,

		accessTokenExpDuration:  AccessTokenExpDuration,
		refreshTokenExpDuration: session.DefaultTTL,
		accessTokenSecretKey:    []byte(args.AccessTokenSecretKey),
		signingMethod:           jwt.SigningMethodHS256,
	}

	if args.AccessTokenExpDuration != nil {
		app.accessTokenExpDuration = *args.AccessTokenExpDuration
	}
	if args.RefreshTokenExpDuration != nil {
		app.refreshTokenExpDuration = *args.RefreshTokenExpDuration
	}
	if args.Tracer != nil {
		app.tracer = args.Tracer
	}
	if args.Logger != nil {
		app.logger = args.Logger
	}

	return app
}

type Login struct {
	Email    string
	Password string
}

type LoginResponse struct {
	AccessToken     string
	RefreshToken    string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
	Member          *member.Member
}

// LoginHandle checks the member's credentials, mints an access token and
// opens a refresh session. Unknown email and wrong password return the
// same error so the response does not leak which one it was.
func (a *App) LoginHandle(ctx context.Context, cmd Login) (LoginResponse, error) {
	ctx, span := a.tracer.Start(
		ctx,
		"App.LoginHandle",
		trace.WithAttributes(
			attribute.String("signing_method", a.signingMethod.Alg()),
			attribute.String("access_token_exp_duration", a.accessTokenExpDuration.String()),
			attribute.String("refresh_token_exp_duration", a.refreshTokenExpDuration.String()),
		),
	)
	defer span.End()

	span.SetAttributes(attribute.String("member.email", logging.RedactEmail(cmd.Email)))

	m, err := a.membergetter.GetMemberByEmail(ctx, cmd.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get member")
		if errorx.IsNotFound(err) {
			return LoginResponse{}, errorx.NewInvalidCredentials().WithCause(err)
		}
		return LoginResponse{}, err
	}

	err = m.ComparePassword(cmd.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to compare password")
		return LoginResponse{}, errorx.NewInvalidCredentials().WithCause(err)
	}

	accessjwt, err := a.mintAccessToken(m)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to sign access token")
		return LoginResponse{}, err
	}

	sess := session.NewSession(m.ID(), a.refreshTokenExpDuration)
	err = a.sessionrepo.SaveSession(ctx, sess)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save session")
		return LoginResponse{}, err
	}

	return LoginResponse{
		AccessToken:     accessjwt,
		RefreshToken:    sess.Token(),
		AccessTokenExp:  a.accessTokenExpDuration,
		RefreshTokenExp: a.refreshTokenExpDuration,
		Member:          m,
	}, nil
}

type Refresh struct {
	RefreshToken string
}

// RefreshHandle rotates the refresh session: the presented token is
// revoked and a fresh one issued in the same transaction, so a replayed
// token fails with a revocation error.
func (a *App) RefreshHandle(ctx context.Context, cmd Refresh) (LoginResponse, error) {
	ctx, span := a.tracer.Start(
		ctx,
		"App.RefreshHandle",
		trace.WithAttributes(
			attribute.String("signing_method", a.signingMethod.Alg()),
			attribute.String("refresh_token", logging.RedactKeepPrefix(cmd.RefreshToken, 8)),
		),
	)
	defer span.End()

	var resp LoginResponse
	err := a.sessionrepo.RotateSessionByToken(ctx, cmd.RefreshToken, func(ctx context.Context, s *session.Session) (*session.Session, error) {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		s.Revoke()

		m, err := a.membergetter.GetMemberByID(ctx, s.MemberID())
		if err != nil {
			return nil, err
		}

		accessjwt, err := a.mintAccessToken(m)
		if err != nil {
			return nil, err
		}

		next := session.NewSession(m.ID(), a.refreshTokenExpDuration)
		resp = LoginResponse{
			AccessToken:     accessjwt,
			RefreshToken:    next.Token(),
			AccessTokenExp:  a.accessTokenExpDuration,
			RefreshTokenExp: a.refreshTokenExpDuration,
			Member:          m,
		}
		return next, nil
	})
	if err != nil {
		if errorx.IsNotFound(err) {
			err = errorx.NewTokenInvalid().WithCause(err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to rotate session")
		return LoginResponse{}, err
	}

	return resp, nil
}

// MeHandle loads the profile of an authenticated member.
func (a *App) MeHandle(ctx context.Context, id member.ID) (*member.Member, error) {
	ctx, span := a.tracer.Start(ctx, "App.MeHandle")
	defer span.End()

	m, err := a.membergetter.GetMemberByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get member")
		return nil, err
	}
	return m, nil
}

type Identity struct {
	MemberID member.ID
	Role     role.Role
}

// ValidateAccess parses and verifies an access token and returns the
// identity embedded in its claims.
func (a *App) ValidateAccess(ctx context.Context, tokenstr string) (Identity, error) {
	_, span := a.tracer.Start(ctx, "App.ValidateAccess")
	defer span.End()

	token, err := jwt.Parse(tokenstr, func(t *jwt.Token) (any, error) {
		return a.accessTokenSecretKey, nil
	}, jwt.WithValidMethods([]string{a.signingMethod.Alg()}))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse access token")
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, errorx.NewTokenExpired().WithCause(err)
		}
		return Identity{}, errorx.NewTokenInvalid().WithCause(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		span.SetStatus(codes.Error, "unexpected access token claims type")
		return Identity{}, errorx.NewTokenInvalid()
	}
	if claims["iss"] != TokenIssuer || claims["sub"] != MemberSubject {
		span.SetStatus(codes.Error, "invalid access token issuer or subject")
		return Identity{}, errorx.NewTokenInvalid()
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		span.SetStatus(codes.Error, "missing member id in access token claims")
		return Identity{}, errorx.NewTokenInvalid()
	}
	memberID, err := member.ParseID(uid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed member id in access token claims")
		return Identity{}, errorx.NewTokenInvalid().WithCause(err)
	}

	memberRole, ok := claims["user_role"].(string)
	if !ok || !role.IsValid(memberRole) {
		span.SetStatus(codes.Error, "invalid role in access token claims")
		return Identity{}, errorx.NewTokenInvalid()
	}

	return Identity{MemberID: memberID, Role: role.Role(memberRole)}, nil
}

func (a *App) mintAccessToken(m *member.Member) (string, error) {
	token := jwt.NewWithClaims(a.signingMethod, jwt.MapClaims{
		"iss":       TokenIssuer,
		"sub":       MemberSubject,
		"exp":       time.Now().Add(a.accessTokenExpDuration).Unix(),
		"iat":       time.Now().Unix(),
		"uid":       m.ID().String(),
		"user_role": m.Role().String(),
	})
	return token.SignedString(a.accessTokenSecretKey)
}
