// Package requestcontext carries request-scoped values through context.Context.
package requestcontext

import (
	"context"

	id "foodlink/pkg/domain"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	clientIPKey
	userIDKey
	roleKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the correlation ID, or "" outside a request.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}

// WithUser stores the authenticated caller. Role is the raw claim value.
func WithUser(ctx context.Context, userID id.UserID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// UserID returns the authenticated caller, or the zero ID.
func UserID(ctx context.Context) id.UserID {
	v, _ := ctx.Value(userIDKey).(id.UserID)
	return v
}

func Role(ctx context.Context) string {
	v, _ := ctx.Value(roleKey).(string)
	return v
}
