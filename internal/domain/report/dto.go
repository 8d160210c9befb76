package report

import (
	"fmt"
	"time"

	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

// ========================================
// MONTHLY ATTENDANCE RECAP
// ========================================

type MonthlyRecapRequest struct {
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	DivisionID *string `json:"division_id,omitempty"`
}

func (r *MonthlyRecapRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if r.DivisionID != nil && !validator.IsValidUUID(*r.DivisionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "division_id",
			Message: "division_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period returns the first and last calendar day of the requested month.
func (r MonthlyRecapRequest) Period() (time.Time, time.Time) {
	start := time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

type MonthlyRecap struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Rows []MonthlyRecapRow `json:"rows"`
}

type MonthlyRecapRow struct {
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name"`
	Email          string  `json:"email"`
	DivisionName   *string `json:"division_name,omitempty"`
	Present        int     `json:"present"`
	Late           int     `json:"late"`
	Absent         int     `json:"absent"`
	Excused        int     `json:"excused"`
	Onsite         int     `json:"onsite"`
	Offsite        int     `json:"offsite"`
	LeaveDays      int     `json:"leave_days"`
	WorkingMinutes int     `json:"working_minutes"`
}

// Attended counts the days with a check-in.
func (r MonthlyRecapRow) Attended() int {
	return r.Present + r.Late
}

// RecapScope narrows the recap to what the caller may see.
type RecapScope struct {
	DivisionID *string
	ReviewerID *string // supervisors only see users they may review
}
