package ctxs

import (
	"context"

	"github.com/jackc/pgx/v5"

	"gitlab.com/staffsync/staffsync-backend/internal/domain/member"
	"gitlab.com/staffsync/staffsync-backend/internal/domain/valueobject/role"
)

const (
	TxKey     = "pgxTxKey"
	MemberKey = "memberKey"
)

type Member struct {
	ID   member.ID
	Role role.Role
}

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, TxKey, tx)
}

func Tx(ctx context.Context) (pgx.Tx, bool) {
	val := ctx.Value(TxKey)
	if val == nil {
		return nil, false
	}

	tx, ok := val.(pgx.Tx)
	return tx, ok
}

func WithMember(ctx context.Context, member *Member) context.Context {
	return context.WithValue(ctx, MemberKey, member)
}

func MemberFromCtx(ctx context.Context) (*Member, bool) {
	val := ctx.Value(MemberKey)
	if val == nil {
		return nil, false
	}

	member, ok := val.(*Member)
	return member, ok
}
