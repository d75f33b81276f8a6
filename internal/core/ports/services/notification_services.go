package services

import (
	"context"
	"encoding/json"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// NotificationDispatcherSvc reacts to domain events by writing in-app
// notification rows and best-effort queueing emails. Dispatch is NOT
// idempotent: re-invoking for the same event re-notifies. Callers own
// single-invocation-per-event discipline.
type NotificationDispatcherSvc interface {
	// Dispatch resolves recipients for the event and writes one notification
	// row each, then enqueues emails. Email failures are logged and never
	// fail the call; only notification-row write errors do.
	Dispatch(ctx context.Context, eventType domain.EventType, payload json.RawMessage) (*domain.DispatchResult, error)
}

// NotificationReaderSvc defines the recipient-facing read operations.
type NotificationReaderSvc interface {
	ListMyNotifications(ctx context.Context, userID, organizationID string, limit, offset int) ([]domain.Notification, error)
	CountMyUnread(ctx context.Context, userID, organizationID string) (int, error)
}

// NotificationWriterSvc defines the recipient-facing write operations.
type NotificationWriterSvc interface {
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID, organizationID string) error
}

// NotificationSvcFacade combines all notification service interfaces.
type NotificationSvcFacade interface {
	NotificationDispatcherSvc
	NotificationReaderSvc
	NotificationWriterSvc
}
