// Package ctxutil carries per-request identity through the context: the
// actor performing a mutation (webhook key id or operator id), the actor's
// role, and the request id for log correlation.
package ctxutil

import (
	"context"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

type ctxKey string

const (
	actorIDKey   ctxKey = "actor_id"
	roleKey      ctxKey = "role"
	requestIDKey ctxKey = "request_id"
)

// WithActorID stores the actor ID in the context.
func WithActorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actorIDKey, id)
}

// ActorIDFromCtx extracts the actor ID from the context.
// Returns "" and false if the value is missing, empty, or the wrong type.
func ActorIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithRole stores the operator role in the context.
func WithRole(ctx context.Context, role domain.Role) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// RoleFromCtx extracts the operator role from the context.
// Returns "" and false if absent or invalid.
func RoleFromCtx(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(roleKey).(domain.Role)
	if !ok || !role.IsValid() {
		return "", false
	}
	return role, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
