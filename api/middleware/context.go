package middleware

import "context"

type contextKey string

const (
	ctxRequestID    contextKey = "request_id"
	ctxGuestSession contextKey = "guest_session"
)

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRequestID).(string); ok {
		return v
	}
	return ""
}

func GuestSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxGuestSession).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects the request identifier into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRequestID, requestID)
}

// WithGuestSession injects the guest session identifier into the context.
func WithGuestSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxGuestSession, sessionID)
}
