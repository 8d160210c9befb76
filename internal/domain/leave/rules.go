package leave

import (
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/setting"
)

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// DaysInYear counts the days of [start, end] that fall in year.
func DaysInYear(start, end time.Time, year int) int {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, start.Location())
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, start.Location())
	if start.Before(first) {
		start = first
	}
	if end.After(last) {
		end = last
	}
	return InclusiveDays(start, end)
}

// CheckNotice enforces leave_min_notice_days when approval is required:
// start must be on or after today plus the notice period.
func CheckNotice(s setting.Settings, start time.Time, now time.Time) error {
	if !s.LeaveRequireApproval {
		return nil
	}
	earliest := s.Today(now).AddDate(0, 0, s.LeaveMinNoticeDays)
	startDay := setting.DateOf(start, s.Location())
	if startDay.Before(earliest) {
		return ErrInsufficientNotice
	}
	return nil
}

// CheckQuota fails when the approved days already taken in a year plus the
// requested days would exceed max_leave_days_per_year. Zero disables the cap.
func CheckQuota(s setting.Settings, approvedDays int, requestedDays int) error {
	if s.MaxLeaveDaysPerYear == 0 {
		return nil
	}
	if approvedDays+requestedDays > s.MaxLeaveDaysPerYear {
		return ErrQuotaExceeded
	}
	return nil
}
