package logbook

import (
	"strings"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

type CreateLogbookRequest struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Time        string  `json:"time"` // HH:mm
	Description string  `json:"description"`
	Activity    *string `json:"activity,omitempty"`
	Location    *string `json:"location,omitempty"`
}

func (r *CreateLogbookRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsValidClock(r.Time) {
		errs = append(errs, validator.ValidationError{
			Field:   "time",
			Message: "time must be in HH:mm format",
		})
	}

	errs = append(errs, validateContent(&r.Description, r.Activity, r.Location)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLogbookRequest struct {
	ID          string  `json:"-"`
	Time        *string `json:"time,omitempty"`
	Description *string `json:"description,omitempty"`
	Activity    *string `json:"activity,omitempty"`
	Location    *string `json:"location,omitempty"`
}

func (r *UpdateLogbookRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Time != nil && !validator.IsValidClock(*r.Time) {
		errs = append(errs, validator.ValidationError{
			Field:   "time",
			Message: "time must be in HH:mm format",
		})
	}

	errs = append(errs, validateContent(r.Description, r.Activity, r.Location)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateContent(description, activity, location *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if description != nil {
		*description = strings.TrimSpace(*description)
		if *description == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "description",
				Message: "description is required",
			})
		} else if len(*description) > 2000 {
			errs = append(errs, validator.ValidationError{
				Field:   "description",
				Message: "description must not exceed 2000 characters",
			})
		}
	}

	if activity != nil && len(*activity) > 150 {
		errs = append(errs, validator.ValidationError{
			Field:   "activity",
			Message: "activity must not exceed 150 characters",
		})
	}

	if location != nil && len(*location) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 255 characters",
		})
	}

	return errs
}

type ApproveLogbookRequest struct {
	ID       string  `json:"-"`
	Feedback *string `json:"feedback,omitempty"`
}

type RejectLogbookRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

type LogbookResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	UserName        *string `json:"user_name,omitempty"`
	DivisionName    *string `json:"division_name,omitempty"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Description     string  `json:"description"`
	Activity        *string `json:"activity,omitempty"`
	Location        *string `json:"location,omitempty"`
	Status          string  `json:"status"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewerName    *string `json:"reviewer_name,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	Feedback        *string `json:"feedback,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type LogbookFilter struct {
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Resolved by the service
	UserID *string         `json:"-"`
	Scope  *approval.Scope `json:"-"`
}

func (f *LogbookFilter) Validate() error {
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

	if f.Status != nil {
		if st, err := approval.ParseStatus(*f.Status); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, approved, rejected",
			})
		} else {
			canonical := st.String()
			f.Status = &canonical
		}
	}

	for field, v := range map[string]*string{"start_date": f.StartDate, "end_date": f.EndDate} {
		if v != nil {
			if _, ok := validator.IsValidDate(*v); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListLogbookResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Showing    string            `json:"showing"`
	Logbooks   []LogbookResponse `json:"logbooks"`
}
