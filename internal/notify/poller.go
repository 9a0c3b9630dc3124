package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	pollInterval  = time.Second
	pollBatchSize = 100
)

// OutboxSource is the draining side of a persistent outbox.
type OutboxSource interface {
	NextBatch(ctx context.Context, limit int) ([]Message, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, now time.Time) error
}

// TxRunner executes fn inside a database transaction carried on the context,
// so a drained batch is marked published atomically with its row locks.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Poller drains a persistent outbox straight onto the delivery channel. It
// is the broker-less counterpart of the kafka relay, for deployments that
// run the outbox and the worker in one process.
type Poller struct {
	source OutboxSource
	tx     TxRunner
	out    chan<- Message
	logger *slog.Logger
}

func NewPoller(source OutboxSource, tx TxRunner, out chan<- Message, logger *slog.Logger) *Poller {
	return &Poller{source: source, tx: tx, out: out, logger: logger}
}

func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.drainOnce(ctx); err != nil {
				p.logger.Error("outbox poll pass failed", "error", err)
			}
		}
	}
}

func (p *Poller) drainOnce(ctx context.Context) error {
	return p.tx.RunInTx(ctx, func(ctx context.Context) error {
		batch, err := p.source.NextBatch(ctx, pollBatchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		handed := make([]uuid.UUID, 0, len(batch))
		for _, msg := range batch {
			select {
			case p.out <- msg:
				handed = append(handed, msg.ID)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return p.source.MarkPublished(ctx, handed, time.Now().UTC())
	})
}
