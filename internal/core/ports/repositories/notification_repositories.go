package repositories

import (
	"context"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// NotificationReader defines read operations for notifications
type NotificationReader interface {
	// ListNotificationsByRecipient retrieves a user's notifications in an
	// organization, newest first.
	ListNotificationsByRecipient(ctx context.Context, recipientUserID, organizationID string, limit, offset int) ([]domain.Notification, error)

	// CountUnread returns the number of unread notifications for a user in an
	// organization.
	CountUnread(ctx context.Context, recipientUserID, organizationID string) (int, error)
}

// NotificationWriter defines write operations for notifications
type NotificationWriter interface {
	// SaveNotifications persists a batch of notification rows atomically.
	SaveNotifications(ctx context.Context, notifications []domain.Notification) error

	// MarkRead marks one notification read. Scoped to the recipient so users
	// cannot mark another user's rows.
	MarkRead(ctx context.Context, notificationID, recipientUserID string) error

	// MarkAllRead marks every notification for a user in an organization read.
	MarkAllRead(ctx context.Context, recipientUserID, organizationID string) error
}

// NotificationRepositoryFacade combines all notification repository interfaces.
type NotificationRepositoryFacade interface {
	NotificationReader
	NotificationWriter
}
