package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hadir-app/hadir-backend/internal/domain/notification"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
)

const insertNotification = `
	INSERT INTO notifications (id, recipient_id, sender_id, type, title, message, data, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const notificationColumns = `id, recipient_id, sender_id, type, title, message, data, is_read, read_at, created_at`

type notificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// insertArgs assigns an ID when missing and returns the INSERT parameters.
func insertArgs(n *notification.Notification) ([]interface{}, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	// An empty payload is stored as SQL NULL, not the JSON literal null
	var data []byte
	if len(n.Data) > 0 {
		var err error
		if data, err = json.Marshal(n.Data); err != nil {
			return nil, fmt.Errorf("failed to marshal notification data: %w", err)
		}
	}

	return []interface{}{n.ID, n.RecipientID, n.SenderID, string(n.Type), n.Title, n.Message, data, n.IsRead, n.CreatedAt}, nil
}

// Create implements notification.Repository.
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args, err := insertArgs(n)
	if err != nil {
		return err
	}

	if _, err := GetQuerier(ctx, r.db).Exec(ctx, insertNotification, args...); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// CreateBatch implements notification.Repository. The inserts travel in a
// single pgx batch inside one transaction.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, n := range notifications {
		args, err := insertArgs(n)
		if err != nil {
			return err
		}
		batch.Queue(insertNotification, args...)
	}

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to batch create notifications: %w", err)
		}
		return nil
	})
}

func scanNotification(row pgx.CollectableRow) (*notification.Notification, error) {
	var (
		n    notification.Notification
		kind string
		data []byte
	)
	if err := row.Scan(&n.ID, &n.RecipientID, &n.SenderID, &kind, &n.Title, &n.Message, &data, &n.IsRead, &n.ReadAt, &n.CreatedAt); err != nil {
		return nil, err
	}

	n.Type = notification.NotificationType(kind)
	if data != nil {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}
	return &n, nil
}

// GetByUserID implements notification.Repository. Newest first.
func (r *notificationRepository) GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)

	where := "recipient_id = $1"
	if unreadOnly {
		where += " AND NOT is_read"
	}

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE "+where, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	rows, err := q.Query(ctx,
		"SELECT "+notificationColumns+" FROM notifications WHERE "+where+" ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}

	items, err := pgx.CollectRows(rows, scanNotification)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan notifications: %w", err)
	}
	return items, total, nil
}

// GetUnreadCount implements notification.Repository.
func (r *notificationRepository) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := GetQuerier(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead implements notification.Repository. IDs owned by another user
// are ignored.
func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, userID string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := GetQuerier(ctx, r.db).Exec(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = $1
		 WHERE recipient_id = $2 AND id = ANY($3::uuid[]) AND NOT is_read`,
		time.Now(), userID, ids)
	if err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

// MarkAllAsRead implements notification.Repository.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	_, err := GetQuerier(ctx, r.db).Exec(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE recipient_id = $2 AND NOT is_read`,
		time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}
