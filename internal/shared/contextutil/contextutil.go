package contextutil

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is private so keys never collide with other packages.
type contextKey string

const (
	requestIDKey    contextKey = "request_id"
	employeeCodeKey contextKey = "employee_code"
	loggerKey       contextKey = "logger"
)

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

func WithEmployeeCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, employeeCodeKey, code)
}

func GetEmployeeCode(ctx context.Context) string {
	if code, ok := ctx.Value(employeeCodeKey).(string); ok {
		return code
	}
	return ""
}

// WithLogger stores a request scoped logger, usually decorated by
// middleware.ContextLogger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func LoggerFromContext(ctx context.Context) (*zap.Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	return l, ok && l != nil
}

// GetLogger never returns nil: it falls back to defaultLogger, then to a no-op.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if l, ok := LoggerFromContext(ctx); ok {
		return l
	}

	if defaultLogger != nil {
		return defaultLogger
	}

	return zap.NewNop()
}

type Metadata struct {
	RequestID    string
	EmployeeCode string
}

func ExtractMetadata(ctx context.Context) Metadata {
	return Metadata{
		RequestID:    GetRequestID(ctx),
		EmployeeCode: GetEmployeeCode(ctx),
	}
}
