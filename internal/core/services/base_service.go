package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/packhouse_portal/internal/apperrors"
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/SscSPs/packhouse_portal/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct{}

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

// AuthorizeRole checks that actor holds one of roles. Routes redirect before
// reaching a service, so a failure here means a handler skipped its guard.
func (s *BaseService) AuthorizeRole(ctx context.Context, actor domain.Principal, roles ...domain.Role) error {
	if actor.HasRole(roles...) {
		return nil
	}
	err := apperrors.NewForbiddenError("You do not have access to this action.")
	s.LogError(ctx, err, "Role check failed",
		slog.String("user_id", actor.UserID),
		slog.String("role", string(actor.Role)))
	return err
}

// isUUID reports whether id can be bound to a UUID column.
// Ids from paths and forms are checked first so a malformed one is a miss, not a store error.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// checkUserID validates a user id taken from an admin form.
func checkUserID(id string) error {
	if id == "" {
		return apperrors.NewValidationFailedError("Missing user ID.")
	}
	if !isUUID(id) {
		return apperrors.NewNotFoundError("User not found")
	}
	return nil
}
