package main

import (
	"context"
	"database/sql"
	"time"

	"bestbosses/internal/nomination/service"
	dErrors "bestbosses/pkg/domain-errors"
	txcontext "bestbosses/pkg/platform/tx"
)

const defaultLifecycleTxTimeout = 5 * time.Second

// lifecycleTx is the postgres transaction boundary for lifecycle
// transitions. The transaction rides the context; every store resolves it
// there, which is what makes status change, access flag, boss row and
// outbox message one atomic unit.
type lifecycleTx struct {
	db      *sql.DB
	stores  service.Stores
	timeout time.Duration
}

func newLifecycleTx(db *sql.DB, stores service.Stores) *lifecycleTx {
	return &lifecycleTx{db: db, stores: stores}
}

func (t *lifecycleTx) RunInTx(ctx context.Context, fn func(ctx context.Context, s service.Stores) error) error {
	return runInTx(ctx, t.db, t.timeout, func(ctx context.Context) error {
		return fn(ctx, t.stores)
	})
}

// relayTx gives the outbox relay the same context-carried transaction, so
// its row locks hold from NextBatch through MarkPublished.
type relayTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newRelayTx(db *sql.DB) *relayTx {
	return &relayTx{db: db}
}

func (t *relayTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return runInTx(ctx, t.db, t.timeout, fn)
}

func runInTx(ctx context.Context, db *sql.DB, timeout time.Duration, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if timeout == 0 {
		timeout = defaultLifecycleTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}

	return tx.Commit()
}
