package middleware

import "context"

type contextKey string

const (
	ctxAdminID    contextKey = "admin_id"
	ctxAdminEmail contextKey = "admin_email"
	ctxSourceID   contextKey = "source_id"
)

func AdminIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxAdminID).(int64); ok {
		return v
	}
	return 0
}

func AdminEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminEmail).(string); ok {
		return v
	}
	return ""
}

func SourceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSourceID).(string); ok {
		return v
	}
	return ""
}

// WithSourceID injects the visitor identifier into the context.
func WithSourceID(ctx context.Context, sourceID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSourceID, sourceID)
}

// WithAdminID injects the admin identifier into the context.
func WithAdminID(ctx context.Context, adminID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdminID, adminID)
}
