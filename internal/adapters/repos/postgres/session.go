package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/session"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/otelx"
	"gitlab.com/staffsync/staffsync-backend/pkg/postgres"
)

type SessionRepo struct {
	tracer trace.Tracer
	logger *slog.Logger
	pool   *pgxpool.Pool
}

// NewSessionRepo creates a new instance of SessionRepo.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if pool is nil
func NewSessionRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *SessionRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &SessionRepo{
		tracer: t,
		logger: l,
		pool:   pool,
	}
}

func (r *SessionRepo) GetSessionByToken(ctx context.Context, token string) (*session.Session, error) {
	ctx, span := r.tracer.Start(ctx, "SessionRepo.GetSessionByToken")
	defer span.End()

	query := `
        SELECT token, member_id, expires_at, revoked, created_at
        FROM refresh_tokens
        WHERE token = $1;
    `

	var dto SessionDTO
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&dto.Token, &dto.MemberID, &dto.ExpiresAt, &dto.Revoked, &dto.CreatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get session by token")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, err
	}

	return SessionToDomain(dto), nil
}

func (r *SessionRepo) SaveSession(ctx context.Context, s *session.Session) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepo.SaveSession")
	defer span.End()

	query := `
        INSERT INTO refresh_tokens (token, member_id, expires_at, revoked, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	dto := DomainToSessionDTO(s)

	res, err := r.pool.Exec(ctx, query,
		dto.Token, dto.MemberID, dto.ExpiresAt, dto.Revoked, dto.CreatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to insert session")
		return err
	}
	if res.RowsAffected() == 0 {
		otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when inserting session")
		return fmt.Errorf("failed to insert session: %w", ErrNoRowsAffected)
	}
	return nil
}

// RotateSessionByToken locks the session row, applies fn and persists both
// the mutated session and the replacement fn returns. The revoke and the
// reissue land in the same transaction so a presented token can only be
// rotated once.
func (r *SessionRepo) RotateSessionByToken(
	ctx context.Context,
	token string,
	fn func(ctx context.Context, s *session.Session) (*session.Session, error),
) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepo.RotateSessionByToken")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "rotate function cannot be nil")
		return ErrNilFunc
	}

	selectquery := `
        SELECT token, member_id, expires_at, revoked, created_at
        FROM refresh_tokens
        WHERE token = $1
        FOR UPDATE;
    `
	updatequery := `
        UPDATE refresh_tokens
        SET revoked = $2
        WHERE token = $1;
    `
	insertquery := `
        INSERT INTO refresh_tokens (token, member_id, expires_at, revoked, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	return postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var dto SessionDTO
		err := tx.QueryRow(ctx, selectquery, token).Scan(
			&dto.Token, &dto.MemberID, &dto.ExpiresAt, &dto.Revoked, &dto.CreatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to get session for rotation")
			if errors.Is(err, pgx.ErrNoRows) {
				return errorx.NewNotFound().WithCause(err)
			}
			return err
		}

		sess := SessionToDomain(dto)

		next, fnerr := fn(ctx, sess)
		if fnerr != nil {
			otelx.RecordSpanError(span, fnerr, "failed to apply rotate function")
			return fnerr
		}

		res, err := tx.Exec(ctx, updatequery, sess.Token(), sess.IsRevoked())
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update session")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when updating session")
			return fmt.Errorf("failed to update session: %w", ErrNoRowsAffected)
		}

		nextdto := DomainToSessionDTO(next)
		res, err = tx.Exec(ctx, insertquery,
			nextdto.Token, nextdto.MemberID, nextdto.ExpiresAt, nextdto.Revoked, nextdto.CreatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert rotated session")
			return err
		}
		if res.RowsAffected() == 0 {
			return fmt.Errorf("failed to insert rotated session: %w", ErrNoRowsAffected)
		}
		return nil
	})
}

// DeleteExpiredSessions removes sessions past their expiry plus grace, and
// revoked ones regardless of age.
func (r *SessionRepo) DeleteExpiredSessions(ctx context.Context, grace time.Duration) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "SessionRepo.DeleteExpiredSessions")
	defer span.End()

	query := `
        DELETE FROM refresh_tokens
        WHERE revoked = TRUE OR expires_at < $1;
    `

	res, err := r.pool.Exec(ctx, query, time.Now().UTC().Add(-grace))
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to delete expired sessions")
		return 0, err
	}
	return res.RowsAffected(), nil
}
