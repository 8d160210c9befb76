package cron

import (
	"context"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		now:               time.Now,
	}
}

// RegisterJobs schedules the absence job. Re-running it for the same day is
// harmless because existing records are kept.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, absenceSpec string) error {
	return scheduler.AddJob("mark_absences", absenceSpec, j.MarkAbsences)
}

// MarkAbsences closes the previous local day.
func (j *AttendanceJobs) MarkAbsences(ctx context.Context) error {
	_, err := j.attendanceService.MarkAbsences(ctx, j.now())
	return err
}
