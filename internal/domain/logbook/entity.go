package logbook

import (
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
)

// Logbook is a daily activity report submitted for supervisor review.
type Logbook struct {
	ID          string
	UserID      string
	Date        time.Time
	Time        string // HH:mm
	Description string
	Activity    *string
	Location    *string
	Review      approval.Review
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	UserName             *string
	UserEmail            *string
	DivisionName         *string
	SupervisorID         *string
	DivisionSupervisorID *string
	ReviewerName         *string
}

func (l *Logbook) Subject() approval.Subject {
	return approval.Subject{
		OwnerID:              l.UserID,
		OwnerSupervisorID:    l.SupervisorID,
		DivisionSupervisorID: l.DivisionSupervisorID,
	}
}
