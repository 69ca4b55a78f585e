package common

import (
	"context"

	"github.com/bobmcallan/fintrack/internal/models"
)

type contextKey int

const sessionContextKey contextKey = iota

// WithSession stores the authenticated session in ctx.
func WithSession(ctx context.Context, sc *models.SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey, sc)
}

// SessionFromContext retrieves the session from ctx, or nil if absent.
func SessionFromContext(ctx context.Context) *models.SessionContext {
	sc, _ := ctx.Value(sessionContextKey).(*models.SessionContext)
	return sc
}

// ResolveAccountID returns the session account id from ctx, or "" when unauthenticated.
func ResolveAccountID(ctx context.Context) string {
	return SessionFromContext(ctx).AccountID()
}
