package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/otelx"
	"gitlab.com/staffsync/staffsync-backend/pkg/postgres"
	"gitlab.com/staffsync/staffsync-backend/pkg/watermillx"
)

type VerificationRepo struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	pool    *pgxpool.Pool
	wlogger watermill.LoggerAdapter
}

// NewVerificationRepo creates a new instance of VerificationRepo.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if pool is nil
func NewVerificationRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *VerificationRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &VerificationRepo{
		tracer:  t,
		logger:  l,
		pool:    pool,
		wlogger: watermill.NewSlogLogger(l),
	}
}

func (r *VerificationRepo) GetAttemptByEmail(ctx context.Context, email string) (*verification.Attempt, error) {
	ctx, span := r.tracer.Start(ctx, "VerificationRepo.GetAttemptByEmail")
	defer span.End()

	query := `
        SELECT id, email, code_hash, status, failed_attempts, code_expires_at, verified_expires_at, created_at, updated_at
        FROM verification_attempts
        WHERE email = $1;
    `

	var dto AttemptDTO
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&dto.ID, &dto.Email, &dto.CodeHash, &dto.Status,
		&dto.FailedAttempts, &dto.CodeExpiresAt, &dto.VerifiedExpiresAt,
		&dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get attempt by email")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, err
	}

	return AttemptToDomain(dto), nil
}

// SaveAttempt inserts the attempt, replacing any existing attempt for the
// same email. A replaced attempt's code stops working immediately.
func (r *VerificationRepo) SaveAttempt(ctx context.Context, a *verification.Attempt) error {
	ctx, span := r.tracer.Start(ctx, "VerificationRepo.SaveAttempt")
	defer span.End()

	dto := DomainToAttemptDTO(a)

	query := `
        INSERT INTO verification_attempts (id, email, code_hash, status, failed_attempts, code_expires_at, verified_expires_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (email) DO UPDATE
        SET id = EXCLUDED.id, code_hash = EXCLUDED.code_hash, status = EXCLUDED.status,
            failed_attempts = EXCLUDED.failed_attempts, code_expires_at = EXCLUDED.code_expires_at,
            verified_expires_at = EXCLUDED.verified_expires_at, created_at = EXCLUDED.created_at,
            updated_at = EXCLUDED.updated_at;
    `

	return postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		res, err := tx.Exec(ctx, query,
			dto.ID, dto.Email, dto.CodeHash, dto.Status,
			dto.FailedAttempts, dto.CodeExpiresAt, dto.VerifiedExpiresAt,
			dto.CreatedAt, dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert attempt")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when inserting attempt")
			return fmt.Errorf("failed to insert attempt: %w", ErrNoRowsAffected)
		}

		if events := a.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}
		return nil
	})
}

func (r *VerificationRepo) UpdateAttemptByEmail(
	ctx context.Context,
	email string,
	fn func(ctx context.Context, a *verification.Attempt) error,
) error {
	ctx, span := r.tracer.Start(ctx, "VerificationRepo.UpdateAttemptByEmail")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "update function cannot be nil")
		return ErrNilFunc
	}

	selectquery := `
        SELECT id, email, code_hash, status, failed_attempts, code_expires_at, verified_expires_at, created_at, updated_at
        FROM verification_attempts
        WHERE email = $1
        FOR UPDATE;
    `
	updatequery := `
        UPDATE verification_attempts
        SET email = $2, code_hash = $3, status = $4,
            failed_attempts = $5, code_expires_at = $6, verified_expires_at = $7,
            updated_at = $8
        WHERE id = $1;
    `

	return postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var dto AttemptDTO
		err := tx.QueryRow(ctx, selectquery, email).Scan(
			&dto.ID, &dto.Email, &dto.CodeHash, &dto.Status,
			&dto.FailedAttempts, &dto.CodeExpiresAt, &dto.VerifiedExpiresAt,
			&dto.CreatedAt, &dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to get attempt for update")
			if errors.Is(err, pgx.ErrNoRows) {
				return errorx.NewNotFound().WithCause(err)
			}
			return err
		}

		attempt := AttemptToDomain(dto)

		fnerr := fn(ctx, attempt)
		if fnerr != nil && !errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "failed to apply update function")
			return fnerr
		}

		dto = DomainToAttemptDTO(attempt)

		res, err := tx.Exec(ctx, updatequery,
			dto.ID, dto.Email, dto.CodeHash, dto.Status,
			dto.FailedAttempts, dto.CodeExpiresAt, dto.VerifiedExpiresAt,
			dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update attempt")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when updating attempt")
			return fmt.Errorf("failed to update attempt: %w", ErrNoRowsAffected)
		}

		events := attempt.GetUncommittedEvents()
		if len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}

		if fnerr != nil && errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "update function returned an error but is allowed to continue")
			return fnerr
		}
		return nil
	})
}

func (r *VerificationRepo) DeleteAttempt(ctx context.Context, id verification.ID) error {
	ctx, span := r.tracer.Start(ctx, "VerificationRepo.DeleteAttempt")
	defer span.End()

	query := `DELETE FROM verification_attempts WHERE id = $1;`

	_, err := r.pool.Exec(ctx, query, uuid.UUID(id))
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to delete attempt")
		return err
	}
	return nil
}

// DeleteExpiredAttempts removes attempts whose code and verified windows
// both closed more than grace ago. Consumed attempts are swept too.
func (r *VerificationRepo) DeleteExpiredAttempts(ctx context.Context, grace time.Duration) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "VerificationRepo.DeleteExpiredAttempts")
	defer span.End()

	query := `
        DELETE FROM verification_attempts
        WHERE status = 'consumed'
           OR (code_expires_at < $1 AND verified_expires_at < $1);
    `

	res, err := r.pool.Exec(ctx, query, time.Now().UTC().Add(-grace))
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to delete expired attempts")
		return 0, err
	}
	return res.RowsAffected(), nil
}
