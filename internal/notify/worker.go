package notify

import (
	"context"
	"log/slog"

	"bestbosses/internal/notify/metrics"
)

// Worker consumes queued messages from a channel and hands them to the
// dispatcher. Delivery is best-effort: a failed send is logged and counted,
// then the worker moves on. Nothing upstream ever waits on a delivery.
type Worker struct {
	dispatcher Dispatcher
	inbox      <-chan Message
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewWorker(dispatcher Dispatcher, inbox <-chan Message, logger *slog.Logger, m *metrics.Metrics) *Worker {
	return &Worker{dispatcher: dispatcher, inbox: inbox, logger: logger, metrics: m}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.deliver(ctx, msg)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, msg Message) {
	if err := w.dispatcher.Send(ctx, msg.Type, msg.To, msg.Data); err != nil {
		w.metrics.IncFailed(string(msg.Type))
		w.logger.Error("notification delivery failed",
			"message_id", msg.ID, "type", msg.Type, "to", msg.To, "error", err)
		return
	}
	w.metrics.IncDelivered(string(msg.Type))
}
