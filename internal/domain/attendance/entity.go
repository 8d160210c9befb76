package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusExcused Status = "excused"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

type WorkType string

const (
	WorkTypeOnsite  WorkType = "onsite"
	WorkTypeOffsite WorkType = "offsite"
)

func (w WorkType) IsValid() bool {
	return w == WorkTypeOnsite || w == WorkTypeOffsite
}

type Action string

const (
	ActionCheckIn  Action = "check_in"
	ActionCheckOut Action = "check_out"
)

// Attendance is the single record of a user for one local calendar date.
type Attendance struct {
	ID                string
	UserID            string
	Date              time.Time
	CheckInTime       *time.Time
	CheckOutTime      *time.Time
	CheckInIP         *string
	CheckOutIP        *string
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckInAddress    *string
	CheckOutAddress   *string
	CheckInPhoto      *string
	CheckOutPhoto     *string
	WorkType          *WorkType
	OffsiteReason     *string
	Status            Status
	MatchedNetworkID  *string
	DistanceMeters    *float64
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Join
	UserName             *string
	DivisionID           *string
	DivisionName         *string
	SupervisorID         *string
	DivisionSupervisorID *string
}

// HasOpenCheckIn reports whether the record can still be checked out.
func (a *Attendance) HasOpenCheckIn() bool {
	return a != nil && a.CheckInTime != nil && a.CheckOutTime == nil
}
