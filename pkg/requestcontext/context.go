// Package requestcontext provides HTTP-independent accessors for
// request-scoped values.
//
// Middleware sets the authenticated viewer identity and request metadata;
// services read them without importing net/http. Keeping the viewer in the
// request context (rather than any module-level state) is what lets the
// access gate re-evaluate freshly per request after asynchronous approvals.
//
// Usage in services:
//
//	viewer, ok := requestcontext.Viewer(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware:
//
//	ctx = requestcontext.WithViewer(ctx, viewer)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "bestbosses/pkg/domain"
)

// ViewerIdentity is the already-authenticated identity consumed from the
// external identity provider. Email travels with the ID because the admin
// override is keyed on email.
type ViewerIdentity struct {
	UserID id.UserID
	Email  string
}

type (
	viewerKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

var (
	contextKeyViewer      = viewerKey{}
	contextKeyRequestID   = requestIDKey{}
	contextKeyRequestTime = requestTimeKey{}
)

// Viewer retrieves the authenticated viewer from the context. The second
// return is false for anonymous requests.
func Viewer(ctx context.Context) (ViewerIdentity, bool) {
	v, ok := ctx.Value(contextKeyViewer).(ViewerIdentity)
	return v, ok
}

// WithViewer injects the authenticated viewer into the context.
func WithViewer(ctx context.Context, v ViewerIdentity) context.Context {
	return context.WithValue(ctx, contextKeyViewer, v)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (workers, tests without WithTime).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. All operations within a
// single request observe the same "now".
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime, t)
}
