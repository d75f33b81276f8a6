package dto

import (
	"encoding/json"
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// DispatchEventRequest triggers one notification dispatch. The payload shape
// depends on the event type.
type DispatchEventRequest struct {
	Type    domain.EventType `json:"type" binding:"required"`
	Payload json.RawMessage  `json:"payload" binding:"required"`
}

// DispatchEventResponse reports the dispatch counts. Emailed is best effort.
type DispatchEventResponse struct {
	Notified int `json:"notified"`
	Emailed  int `json:"emailed"`
}

// ListNotificationsParams defines query parameters for listing notifications.
type ListNotificationsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// NotificationResponse is one in-app notification row.
type NotificationResponse struct {
	NotificationID string           `json:"notificationID"`
	EventType      domain.EventType `json:"eventType"`
	Title          string           `json:"title"`
	Body           string           `json:"body"`
	ReferenceID    string           `json:"referenceID"`
	IsRead         bool             `json:"isRead"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ListNotificationsResponse wraps the recipient's notifications.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// ToListNotificationsResponse converts a slice of domain.Notification.
func ToListNotificationsResponse(notifications []domain.Notification, unread int) ListNotificationsResponse {
	responses := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = NotificationResponse{
			NotificationID: n.NotificationID,
			EventType:      n.EventType,
			Title:          n.Title,
			Body:           n.Body,
			ReferenceID:    n.ReferenceID,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt,
		}
	}
	return ListNotificationsResponse{Notifications: responses, UnreadCount: unread}
}
