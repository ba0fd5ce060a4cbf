package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ImportLockKey is the advisory lock held while the BÍN and unigram tables
// are being replaced.
const ImportLockKey int64 = 0x42494e

// TxManager runs functions in a transaction carried by the context, where
// QuerierFromCtx picks it up. Nested RunInTx calls are not supported: the
// inner call opens a second, independent transaction.
type TxManager struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewTxManager creates a new TxManager.
func NewTxManager(pool *pgxpool.Pool, logger *slog.Logger) *TxManager {
	return &TxManager{pool: pool, log: logger.With("adapter", "postgres")}
}

// RunInTx executes fn within a read-committed transaction. It commits when
// fn returns nil, rolls back and returns the error otherwise, and rolls back
// and re-panics if fn panics.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// RunExclusive is RunInTx holding the transaction-scoped advisory lock key
// from the first statement until commit or rollback. A second caller with
// the same key waits for the first transaction to end.
func (m *TxManager) RunExclusive(ctx context.Context, key int64, fn func(ctx context.Context) error) error {
	return m.run(ctx, &key, fn)
}

func (m *TxManager) run(ctx context.Context, lockKey *int64, fn func(ctx context.Context) error) (err error) {
	start := time.Now()
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", MapError(err, "transaction", "begin"))
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if lockKey != nil {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", *lockKey); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("acquire lock %d: %w", *lockKey, MapError(err, "lock", fmt.Sprint(*lockKey)))
		}
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		m.log.WarnContext(ctx, "transaction rolled back", slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	m.log.DebugContext(ctx, "transaction committed", slog.Duration("duration", time.Since(start)))
	return nil
}
