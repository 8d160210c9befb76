package attendance

import "errors"

// Attendance domain errors
var (
	// Validation outcomes
	ErrOutOfWindow           = errors.New("attendance is not open at this time")
	ErrLocationNotRecognized = errors.New("location is not a recognised office network")
	ErrMissingReason         = errors.New("an offsite reason is required")
	ErrDuplicateCheckIn      = errors.New("you have already checked in today")
	ErrNoOpenCheckIn         = errors.New("there is no open check-in for today")
	ErrInvalidAction         = errors.New("attendance action must be check_in or check_out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
	ErrInvalidPhoto       = errors.New("attendance photo must be a jpg or png image up to 10MB")
)
