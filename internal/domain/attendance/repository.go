package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Create inserts a check-in. A second record for the same user and date
	// fails with ErrDuplicateCheckIn.
	Create(ctx context.Context, a Attendance) (Attendance, error)

	// CloseCheckOut records the check-out fields only while check_out_time is
	// still empty, otherwise it fails with ErrNoOpenCheckIn.
	CloseCheckOut(ctx context.Context, a Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns ErrAttendanceNotFound when the user has no record that day.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)

	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// MarkAbsences inserts an absent or excused record for every active,
	// non-admin user without a record on date. Existing records are kept.
	MarkAbsences(ctx context.Context, date time.Time) (absent int64, excused int64, err error)
}
