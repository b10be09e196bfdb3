package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/role"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/verification"
	"gitlab.com/staffsync/staffsync-backend/pkg/errorx"
	"gitlab.com/staffsync/staffsync-backend/pkg/otelx"
	"gitlab.com/staffsync/staffsync-backend/pkg/postgres"
	"gitlab.com/staffsync/staffsync-backend/pkg/watermillx"
)

const memberColumns = "id, email, name, role, passhash, created_at, updated_at"

type MemberRepo struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	pool    *pgxpool.Pool
	wlogger watermill.LoggerAdapter
}

// NewMemberRepo creates a new instance of MemberRepo.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if pool is nil
func NewMemberRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *MemberRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &MemberRepo{
		tracer:  t,
		logger:  l,
		pool:    pool,
		wlogger: watermill.NewSlogLogger(l),
	}
}

func (r *MemberRepo) GetMemberByEmail(ctx context.Context, email string) (*member.Member, error) {
	ctx, span := r.tracer.Start(ctx, "MemberRepo.GetMemberByEmail")
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM members WHERE email = $1;`, memberColumns)

	var dto MemberDTO
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&dto.ID, &dto.Email, &dto.Name, &dto.Role,
		&dto.Passhash, &dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get member by email")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, err
	}

	return MemberToDomain(dto), nil
}

func (r *MemberRepo) GetMemberByID(ctx context.Context, id member.ID) (*member.Member, error) {
	ctx, span := r.tracer.Start(ctx, "MemberRepo.GetMemberByID")
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM members WHERE id = $1;`, memberColumns)

	var dto MemberDTO
	err := r.pool.QueryRow(ctx, query, uuid.UUID(id)).Scan(
		&dto.ID, &dto.Email, &dto.Name, &dto.Role,
		&dto.Passhash, &dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get member by id")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, err
	}

	return MemberToDomain(dto), nil
}

func (r *MemberRepo) IsMemberExists(ctx context.Context, email string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "MemberRepo.IsMemberExists")
	defer span.End()

	query := `SELECT EXISTS (SELECT 1 FROM members WHERE email = $1);`

	var exists bool
	err := r.pool.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to check member existence")
		return false, err
	}
	return exists, nil
}

func (r *MemberRepo) IsAnyAdminExists(ctx context.Context) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "MemberRepo.IsAnyAdminExists")
	defer span.End()

	query := `SELECT EXISTS (SELECT 1 FROM members WHERE role = $1);`

	var exists bool
	err := r.pool.QueryRow(ctx, query, role.Admin.String()).Scan(&exists)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to check admin existence")
		return false, err
	}
	return exists, nil
}

func (r *MemberRepo) SaveMember(ctx context.Context, m *member.Member) error {
	ctx, span := r.tracer.Start(ctx, "MemberRepo.SaveMember")
	defer span.End()

	return postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.insertMember(ctx, tx, m); err != nil {
			otelx.RecordSpanError(span, err, "failed to insert member")
			return err
		}
		return nil
	})
}

// RegisterMember locks the verification attempt for email, applies fn and
// persists the mutated attempt together with the member fn returns, all in
// one transaction.
func (r *MemberRepo) RegisterMember(
	ctx context.Context,
	email string,
	fn func(ctx context.Context, a *verification.Attempt) (*member.Member, error),
) error {
	ctx, span := r.tracer.Start(ctx, "MemberRepo.RegisterMember")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "register function cannot be nil")
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
        SET status = $2, failed_attempts = $3, updated_at = $4
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
			otelx.RecordSpanError(span, err, "failed to get attempt for registration")
			if errors.Is(err, pgx.ErrNoRows) {
				return errorx.NewNotFound().WithCause(err)
			}
			return err
		}

		attempt := AttemptToDomain(dto)

		m, fnerr := fn(ctx, attempt)
		if fnerr != nil && !errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "failed to apply register function")
			return fnerr
		}

		dto = DomainToAttemptDTO(attempt)

		res, err := tx.Exec(ctx, updatequery, dto.ID, dto.Status, dto.FailedAttempts, dto.UpdatedAt)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update attempt")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when updating attempt")
			return fmt.Errorf("failed to update attempt: %w", ErrNoRowsAffected)
		}

		if events := attempt.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}

		if fnerr != nil {
			otelx.RecordSpanError(span, fnerr, "register function returned an error but is allowed to continue")
			return fnerr
		}

		if err := r.insertMember(ctx, tx, m); err != nil {
			otelx.RecordSpanError(span, err, "failed to insert member")
			return err
		}
		return nil
	})
}

func (r *MemberRepo) insertMember(ctx context.Context, tx pgx.Tx, m *member.Member) error {
	query := fmt.Sprintf(`
        INSERT INTO members (%s)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, memberColumns)

	dto := DomainToMemberDTO(m)

	res, err := tx.Exec(ctx, query,
		dto.ID, dto.Email, dto.Name, dto.Role,
		dto.Passhash, dto.CreatedAt, dto.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errorx.NewDuplicateEntryWithField("member", "email").WithCause(err)
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("failed to insert member: %w", ErrNoRowsAffected)
	}

	if events := m.GetUncommittedEvents(); len(events) > 0 {
		if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
			return err
		}
	}
	return nil
}
