package mailqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"
	"github.com/opsuite/opsuite_backend/internal/platform/config"
)

// EmailWorker consumes TypeEmailDeliver tasks and sends them over SMTP.
// When no SMTP host is configured the worker logs and drops each email,
// which keeps development environments runnable without a mail server.
type EmailWorker struct {
	cfg *config.Config
}

// NewEmailWorker creates a worker bound to the SMTP settings in cfg.
func NewEmailWorker(cfg *config.Config) *EmailWorker {
	return &EmailWorker{cfg: cfg}
}

// ProcessTask handles one queued email. Returning an error makes asynq retry
// the task up to its MaxRetry budget.
func (w *EmailWorker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload EmailDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// A malformed payload will never succeed; drop it.
		slog.Error("dropping malformed email task", "error", err)
		return nil
	}

	if w.cfg.SMTPHost == "" {
		slog.Info("SMTP not configured, dropping email",
			slog.String("to", payload.To),
			slog.String("subject", payload.Subject))
		return nil
	}

	msg := []byte(
		"From: " + w.cfg.SMTPFrom + "\r\n" +
			"To: " + payload.To + "\r\n" +
			"Subject: " + payload.Subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" +
			payload.Body + "\r\n")

	addr := fmt.Sprintf("%s:%d", w.cfg.SMTPHost, w.cfg.SMTPPort)
	var auth smtp.Auth
	if w.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", w.cfg.SMTPUsername, w.cfg.SMTPPassword, w.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, w.cfg.SMTPFrom, []string{payload.To}, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", payload.To, err)
	}

	slog.Info("email delivered",
		slog.String("to", payload.To),
		slog.String("subject", payload.Subject))
	return nil
}

// NewServeMux registers every mailqueue handler on a fresh mux.
func NewServeMux(cfg *config.Config) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeEmailDeliver, asynq.HandlerFunc(NewEmailWorker(cfg).ProcessTask))
	return mux
}
