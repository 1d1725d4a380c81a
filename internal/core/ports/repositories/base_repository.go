package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager exposes explicit transactions for writes that need more than one statement.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	// Rollback is a no-op on an already closed transaction.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
