package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveSubmitted   NotificationType = "leave_submitted"
	TypeLeaveApproved    NotificationType = "leave_approved"
	TypeLeaveRejected    NotificationType = "leave_rejected"
	TypeLogbookSubmitted NotificationType = "logbook_submitted"
	TypeLogbookApproved  NotificationType = "logbook_approved"
	TypeLogbookRejected  NotificationType = "logbook_rejected"
)

// Notification is one inbox entry of a user
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
