package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	CheckIn(ctx context.Context, req AttendanceRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req AttendanceRequest) (AttendanceResponse, error)

	// Today reports the caller's record and what they may do next.
	Today(ctx context.Context) (TodayResponse, error)

	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// List returns every record for admins and the records of reviewable users for supervisors.
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	Get(ctx context.Context, id string) (AttendanceResponse, error)

	// MarkAbsences closes the local day before now. Weekends are skipped.
	MarkAbsences(ctx context.Context, now time.Time) (AbsenceResult, error)
}
