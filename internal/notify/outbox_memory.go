package notify

import (
	"context"

	dErrors "bestbosses/pkg/domain-errors"
)

const memoryOutboxBuffer = 256

// InMemoryOutbox queues messages on a channel, bypassing the Kafka relay.
// It backs tests and single-process deployments without a broker; the
// delivery worker consumes Messages directly.
type InMemoryOutbox struct {
	ch chan Message
}

func NewInMemoryOutbox() *InMemoryOutbox {
	return &InMemoryOutbox{ch: make(chan Message, memoryOutboxBuffer)}
}

func (o *InMemoryOutbox) Enqueue(ctx context.Context, msg Message) error {
	if !msg.Type.Valid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown notification type %q", msg.Type)
	}
	select {
	case o.ch <- msg:
		return nil
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeNotificationFailed, "enqueue notification")
	default:
		// A full buffer drops the message rather than stalling the caller.
		return dErrors.New(dErrors.CodeNotificationFailed, "notification queue full")
	}
}

// Messages exposes the queued stream for the delivery worker.
func (o *InMemoryOutbox) Messages() <-chan Message {
	return o.ch
}

// Close stops the stream. Call only after all producers are done.
func (o *InMemoryOutbox) Close() {
	close(o.ch)
}
