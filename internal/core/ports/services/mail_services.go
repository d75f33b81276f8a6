package services

import "context"

// EmailEnqueuerSvc hands an email to the background delivery queue. Delivery
// is best effort: an enqueue failure must never fail the caller's operation.
type EmailEnqueuerSvc interface {
	// EnqueueEmail queues one email for asynchronous delivery.
	EnqueueEmail(ctx context.Context, recipientEmail, subject, body string) error
}
