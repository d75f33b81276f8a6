package mailqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// Client enqueues email delivery tasks. It implements
// portssvc.EmailEnqueuerSvc for the notification dispatcher.
type Client struct {
	client *asynq.Client
	rdb    *redis.Client
}

var _ portssvc.EmailEnqueuerSvc = (*Client)(nil)

// NewClient creates a queue client against the configured Redis instance.
func NewClient(cfg *config.Config) *Client {
	opt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	return &Client{
		client: asynq.NewClient(opt),
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
	}
}

// Ping verifies the Redis instance behind the queue is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connections.
func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		return err
	}
	return c.rdb.Close()
}

// EnqueueEmail queues one email for asynchronous delivery.
func (c *Client) EnqueueEmail(ctx context.Context, recipientEmail, subject, body string) error {
	payload := EmailDeliverPayload{
		To:      recipientEmail,
		Subject: subject,
		Body:    body,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}
	task := asynq.NewTask(TypeEmailDeliver, data)
	_, err = c.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeEmailDeliver, err)
	}
	return nil
}
