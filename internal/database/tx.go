package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/movies-api/internal/metrics"
)

// WithTx runs fn inside a transaction.  The transaction is committed when
// fn returns nil and rolled back when fn returns an error or panics; the
// panic keeps propagating after the rollback.  fn's error is returned as is.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	done := false
	defer func() {
		if done {
			return
		}
		metrics.TransactionsTotal.WithLabelValues("rollback").Inc()
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Warn("transaction rollback failed", "error", rbErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		// a failed commit already ends the transaction
		done = true
		metrics.TransactionsTotal.WithLabelValues("commit_failed").Inc()
		return fmt.Errorf("commit transaction: %w", err)
	}
	done = true
	metrics.TransactionsTotal.WithLabelValues("commit").Inc()
	return nil
}
