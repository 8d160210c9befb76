package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidSSEToken      = errors.New("invalid or expired event stream token")
)
