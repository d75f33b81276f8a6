package services

import (
	"context"
	"log/slog"

	"github.com/opsuite/opsuite_backend/internal/core/policy"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Authorizer portssvc.AuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// Authorize checks whether a user may perform op against an organization's
// data. Services without an authorizer wired deny nothing; that only happens
// in tests that construct a service directly.
func (s *BaseService) Authorize(ctx context.Context, userID, organizationID string, op policy.Operation) error {
	if s.Authorizer != nil {
		return s.Authorizer.Authorize(ctx, userID, organizationID, op)
	}
	s.LogDebug(ctx, "No authorizer provided, access granted by default",
		slog.String("user_id", userID),
		slog.String("organization_id", organizationID),
		slog.String("operation", string(op)))
	return nil
}
