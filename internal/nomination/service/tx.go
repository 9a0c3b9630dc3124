package service

import (
	"context"
	"sync"
	"time"

	"bestbosses/internal/boss"
	"bestbosses/internal/nomination"
	"bestbosses/internal/notify"
	"bestbosses/internal/profile"
	dErrors "bestbosses/pkg/domain-errors"
)

// Stores bundles every persistence surface a lifecycle transition touches.
// Approval writes three of them plus the outbox in one atomic unit.
type Stores struct {
	Nominations nomination.Store
	Profiles    profile.Store
	Bosses      boss.Store
	Outbox      notify.Outbox
}

// Tx provides the transactional boundary for lifecycle mutations.
// Implementations may wrap a database transaction or, in-memory, a coarse
// lock. fn must issue every store call with the context it receives, which
// is what carries the transaction to the stores.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// defaultTxTimeout is the maximum duration for a lifecycle transaction.
const defaultTxTimeout = 5 * time.Second

// memoryTx serializes lifecycle transitions behind a single mutex. The
// in-memory stores are individually safe; the lock is what makes a
// multi-store transition observable as one unit.
type memoryTx struct {
	mu      sync.Mutex
	stores  Stores
	timeout time.Duration
}

// NewMemoryTx wraps in-memory stores in a mutex-based transaction boundary.
func NewMemoryTx(stores Stores) Tx {
	return &memoryTx{stores: stores, timeout: defaultTxTimeout}
}

func (t *memoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx, t.stores)
}
