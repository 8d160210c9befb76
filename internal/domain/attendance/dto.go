package attendance

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/hadir-app/hadir-backend/internal/pkg/utils"
	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// AttendanceRequest is the body of a check-in or check-out. ClientIP and the
// photo are filled in by the handler.
type AttendanceRequest struct {
	Latitude      *float64              `json:"latitude,omitempty"`
	Longitude     *float64              `json:"longitude,omitempty"`
	Address       *string               `json:"address,omitempty"`
	WorkType      string                `json:"work_type"`
	OffsiteReason string                `json:"offsite_reason"`
	Notes         *string               `json:"notes,omitempty"`
	ClientIP      string                `json:"-"`
	File          multipart.File        `json:"-"`
	FileHeader    *multipart.FileHeader `json:"-"`
}

const maxPhotoSize = 10 << 20

func (r *AttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude and longitude must be provided together",
		})
	} else if r.Latitude != nil && !utils.IsValidCoordinate(*r.Latitude, *r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90 and longitude between -180 and 180",
		})
	}

	r.WorkType = strings.ToLower(strings.TrimSpace(r.WorkType))
	if r.WorkType == "" {
		r.WorkType = string(WorkTypeOnsite)
	}
	if !WorkType(r.WorkType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "work_type",
			Message: "work_type must be one of: onsite, offsite",
		})
	}

	if r.FileHeader != nil {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "invalid file type: only jpg, jpeg, png allowed",
			})
		} else if r.FileHeader.Size > maxPhotoSize {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "attendance photo size must not exceed 10MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	UserName          *string  `json:"user_name,omitempty"`
	DivisionName      *string  `json:"division_name,omitempty"`
	Date              string   `json:"date"`
	CheckInTime       *string  `json:"check_in_time,omitempty"`
	CheckOutTime      *string  `json:"check_out_time,omitempty"`
	CheckInLatitude   *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude  *float64 `json:"check_in_longitude,omitempty"`
	CheckOutLatitude  *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64 `json:"check_out_longitude,omitempty"`
	CheckInAddress    *string  `json:"check_in_address,omitempty"`
	CheckOutAddress   *string  `json:"check_out_address,omitempty"`
	CheckInPhotoURL   *string  `json:"check_in_photo_url,omitempty"`
	CheckOutPhotoURL  *string  `json:"check_out_photo_url,omitempty"`
	WorkType          *string  `json:"work_type,omitempty"`
	OffsiteReason     *string  `json:"offsite_reason,omitempty"`
	Status            string   `json:"status"`
	MatchedNetworkID  *string  `json:"matched_network_id,omitempty"`
	DistanceMeters    *float64 `json:"distance_meters,omitempty"`
	WorkingMinutes    *int     `json:"working_minutes,omitempty"`
	Notes             *string  `json:"notes,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type TodayResponse struct {
	Date        string              `json:"date"`
	CanCheckIn  bool                `json:"can_check_in"`
	CanCheckOut bool                `json:"can_check_out"`
	CheckIn     string              `json:"check_in_window"`
	CheckOut    string              `json:"check_out_window"`
	Attendance  *AttendanceResponse `json:"attendance,omitempty"`
}

type AttendanceFilter struct {
	// Search & Filter
	UserID     *string `json:"user_id,omitempty"`
	DivisionID *string `json:"division_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`
	WorkType   *string `json:"work_type,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, user_name, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc

	// Resolved by the service from the caller's role
	ReviewerID *string `json:"-"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, late, absent, excused",
		})
	}

	if f.WorkType != nil && !WorkType(*f.WorkType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "work_type",
			Message: "work_type must be one of: onsite, offsite",
		})
	}

	for field, v := range map[string]*string{"user_id": f.UserID, "division_id": f.DivisionID} {
		if v != nil && !validator.IsValidUUID(*v) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be a valid UUID",
			})
		}
	}

	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"date", "user_name", "check_in_time", "check_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, user_name, check_in_time, check_out_time, status",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	errs = append(errs, validateSortOrder(&f.SortOrder)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MyAttendanceFilter struct {
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, late, absent, excused",
		})
	}

	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)

	// Sort validation (no user_name for own attendance)
	if f.SortBy != "" {
		validSortFields := []string{"date", "check_in_time", "check_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, check_in_time, check_out_time, status",
			})
		}
	} else {
		f.SortBy = "date"
	}

	errs = append(errs, validateSortOrder(&f.SortOrder)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToFilter scopes the filter to one user.
func (f MyAttendanceFilter) ToFilter(userID string) AttendanceFilter {
	return AttendanceFilter{
		UserID:    &userID,
		Date:      f.Date,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Status:    f.Status,
		Page:      f.Page,
		Limit:     f.Limit,
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
	}
}

func validateDates(date, start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for field, v := range map[string]*string{"date": date, "start_date": start, "end_date": end} {
		if v != nil && *v != "" {
			if _, valid := validator.IsValidDate(*v); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}
	if len(errs) == 0 && start != nil && end != nil && *start != "" && *end != "" && *end < *start {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	return errs
}

func validateSortOrder(order *string) validator.ValidationErrors {
	if *order == "" {
		*order = "desc" // Default descending (newest first)
		return nil
	}
	*order = strings.ToLower(*order)
	if !validator.IsInSlice(*order, []string{"asc", "desc"}) {
		return validator.ValidationErrors{{
			Field:   "sort_order",
			Message: "sort_order must be one of: asc, desc",
		}}
	}
	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// AbsenceResult summarises one run of the nightly absence job.
type AbsenceResult struct {
	Date    string `json:"date"`
	Skipped bool   `json:"skipped"`
	Absent  int64  `json:"absent"`
	Excused int64  `json:"excused"`
}
