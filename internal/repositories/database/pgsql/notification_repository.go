package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
)

type PgxNotificationRepository struct {
	BaseRepository
}

// newPgxNotificationRepository creates a new repository for notification data.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// SaveNotifications batches the inserts so one dispatch writes all recipient
// rows or none of them.
func (r *PgxNotificationRepository) SaveNotifications(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO notifications (
			notification_id, organization_id, recipient_user_id, event_type,
			title, body, reference_id, is_read, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, n := range notifications {
		batch.Queue(query,
			n.NotificationID,
			n.OrganizationID,
			n.RecipientUserID,
			n.EventType,
			n.Title,
			n.Body,
			n.ReferenceID,
			n.IsRead,
			n.CreatedAt,
		)
	}
	results := r.Pool.SendBatch(ctx, batch)
	defer results.Close()
	for range notifications {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert notification batch", err)
		}
	}
	return nil
}

func (r *PgxNotificationRepository) ListNotificationsByRecipient(ctx context.Context, recipientUserID, organizationID string, limit, offset int) ([]domain.Notification, error) {
	query := `
		SELECT notification_id, organization_id, recipient_user_id, event_type,
			title, body, reference_id, is_read, created_at
		FROM notifications
		WHERE recipient_user_id = $1 AND organization_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, recipientUserID, organizationID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query notifications", err)
	}
	defer rows.Close()

	notifications, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Notification])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Notification{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect notification rows", err)
	}
	return notifications, nil
}

func (r *PgxNotificationRepository) CountUnread(ctx context.Context, recipientUserID, organizationID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_user_id = $1 AND organization_id = $2 AND is_read = false;`,
		recipientUserID, organizationID,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count unread notifications", err)
	}
	return count, nil
}

func (r *PgxNotificationRepository) MarkRead(ctx context.Context, notificationID, recipientUserID string) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE notification_id = $1 AND recipient_user_id = $2;
	`
	result, err := r.Pool.Exec(ctx, query, notificationID, recipientUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark notification read "+notificationID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("notification not found")
	}
	return nil
}

func (r *PgxNotificationRepository) MarkAllRead(ctx context.Context, recipientUserID, organizationID string) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE recipient_user_id = $1 AND organization_id = $2 AND is_read = false;
	`
	if _, err := r.Pool.Exec(ctx, query, recipientUserID, organizationID); err != nil {
		return apperrors.NewAppError(500, "failed to mark notifications read", err)
	}
	return nil
}
