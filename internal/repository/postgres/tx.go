package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"rentdesk/internal/port"
)

type txKey struct{}

type transactor struct {
	db *sqlx.DB
}

// NewTransactor creates a Transactor whose transactions are picked up by every
// repository in this package through the context.
func NewTransactor(db *sqlx.DB) port.Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transactor.WithinTx begin: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				zap.S().Warnw("transactor.WithinTx: rollback failed", "error", rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("transactor.WithinTx commit: %w", cErr)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, tx))
}
