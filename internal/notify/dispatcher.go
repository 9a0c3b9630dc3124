package notify

import "context"

//go:generate mockgen -source=dispatcher.go -destination=mocks/dispatcher_mock.go -package=mocks Dispatcher

// Dispatcher delivers one templated notification. Implementations are
// external collaborators (SMTP, a provider API); callers must treat Send as
// fire-and-forget with respect to their own state.
type Dispatcher interface {
	Send(ctx context.Context, t Type, to string, data map[string]string) error
}

// Outbox accepts messages for asynchronous delivery. The postgres
// implementation participates in the caller's transaction via context, which
// is what couples "message exists" to "transition committed".
type Outbox interface {
	Enqueue(ctx context.Context, msg Message) error
}
