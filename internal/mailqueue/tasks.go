// Package mailqueue carries notification emails from the API process to the
// mail worker over Redis. Delivery is best effort end to end: enqueue
// failures never fail the triggering operation, and the worker retries
// transient SMTP errors before dropping the task.
package mailqueue

// TypeEmailDeliver is the asynq task type for one outbound email.
const TypeEmailDeliver = "email:deliver"

// EmailDeliverPayload is the task body for TypeEmailDeliver.
type EmailDeliverPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
