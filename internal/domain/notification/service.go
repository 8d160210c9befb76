package notification

import (
	"context"
)

// Notifier is what other services depend on. Delivery failures are logged
// by the implementation and never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, req CreateNotificationRequest)
}

// Service defines the notification service interface
type Service interface {
	Notifier

	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error

	// Subscribe streams live notifications of a user until cancel is called.
	Subscribe(ctx context.Context, userID string) (<-chan NotificationResponse, func())

	// Stop flushes queued notifications and stops the workers.
	Stop()
}
