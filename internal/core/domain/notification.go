package domain

import "time"

// EventType names a domain event that triggers notification dispatch.
type EventType string

const (
	EventLeaveRequestCreated           EventType = "leave_request_created"
	EventLeaveRequestDecided           EventType = "leave_request_decided"
	EventCorrectionRequestCreated      EventType = "correction_request_created"
	EventCorrectionRequestDecided      EventType = "correction_request_decided"
	EventReimbursementSubmitted        EventType = "reimbursement_submitted"
	EventReimbursementManagerDecided   EventType = "reimbursement_manager_decided"
	EventReimbursementFinanceDecided   EventType = "reimbursement_finance_decided"
	EventMemoPublished                 EventType = "memo_published"
)

// KnownEventType reports whether t is a dispatchable event type.
func KnownEventType(t EventType) bool {
	switch t {
	case EventLeaveRequestCreated, EventLeaveRequestDecided,
		EventCorrectionRequestCreated, EventCorrectionRequestDecided,
		EventReimbursementSubmitted, EventReimbursementManagerDecided,
		EventReimbursementFinanceDecided, EventMemoPublished:
		return true
	}
	return false
}

// Notification is an in-app notification row for a single recipient.
type Notification struct {
	NotificationID  string    `json:"notificationID" db:"notification_id"`
	OrganizationID  string    `json:"organizationID" db:"organization_id"`
	RecipientUserID string    `json:"recipientUserID" db:"recipient_user_id"`
	EventType       EventType `json:"eventType" db:"event_type"`
	Title           string    `json:"title" db:"title"`
	Body            string    `json:"body" db:"body"`
	ReferenceID     string    `json:"referenceID" db:"reference_id"` // ID of the triggering record
	IsRead          bool      `json:"isRead" db:"is_read"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// DispatchResult reports how many recipients were notified and how many
// emails were handed to the delivery queue. Email is best effort; notified
// alone determines dispatch success.
type DispatchResult struct {
	Notified int `json:"notified"`
	Emailed  int `json:"emailed"`
}
