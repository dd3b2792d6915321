package logger

import (
	"context"
	"log/slog"
	"time"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	UserIDKey    ContextKey = "user_id"
	TenantIDKey  ContextKey = "client_id"
	OperationKey ContextKey = "operation"
)

// GlobalContext is set by Init.
var GlobalContext *ContextLogger

// ContextLogger enriches records with request-scoped identifiers stored in
// the context.
type ContextLogger struct {
	logger *slog.Logger
}

func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext returns a logger carrying whichever identifiers ctx holds.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	args := make([]any, 0, 8)

	if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
		args = append(args, string(RequestIDKey), v)
	}
	if v, ok := ctx.Value(UserIDKey).(int64); ok {
		args = append(args, string(UserIDKey), v)
	}
	if v, ok := ctx.Value(TenantIDKey).(int64); ok {
		args = append(args, string(TenantIDKey), v)
	}
	if v, ok := ctx.Value(OperationKey).(string); ok && v != "" {
		args = append(args, string(OperationKey), v)
	}

	if len(args) == 0 {
		return cl.logger
	}
	return cl.logger.With(args...)
}

func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, duration time.Duration) {
	cl.WithContext(ctx).InfoContext(ctx, "operation completed",
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	)
}

func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).ErrorContext(ctx, "operation failed",
		"operation", operation,
		"error", err,
	)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func WithTenantID(ctx context.Context, tenantID int64) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}
