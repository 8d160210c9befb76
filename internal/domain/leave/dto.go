package leave

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

const MaxAttachmentSize = 5 << 20

var allowedAttachmentExts = []string{".pdf", ".jpg", ".jpeg", ".png"}

type CreateLeaveRequest struct {
	LeaveType  string                `json:"leave_type"`
	StartDate  string                `json:"start_date"` // YYYY-MM-DD
	EndDate    string                `json:"end_date"`   // YYYY-MM-DD
	Reason     string                `json:"reason"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	} else if t, err := ParseType(r.LeaveType); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: sick, permission, leave (or sakit, keperluan, izin, cuti)",
		})
	} else {
		r.LeaveType = string(t)
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if r.FileHeader != nil {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, allowedAttachmentExts) {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: ErrInvalidAttachmentType.Error(),
			})
		} else if r.FileHeader.Size > MaxAttachmentSize {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: ErrAttachmentTooLarge.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveLeaveRequest struct {
	ID string `json:"-"`
}

type RejectLeaveRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	UserName        *string `json:"user_name,omitempty"`
	DivisionName    *string `json:"division_name,omitempty"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	AttachmentURL   *string `json:"attachment_url,omitempty"`
	Status          string  `json:"status"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewerName    *string `json:"reviewer_name,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type LeaveFilter struct {
	Status    *string `json:"status,omitempty"`
	LeaveType *string `json:"leave_type,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // leaves ending on or after
	EndDate   *string `json:"end_date,omitempty"`   // leaves starting on or before

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // start_date, created_at
	SortOrder string `json:"sort_order"` // asc, desc

	// Resolved by the service
	UserID *string         `json:"-"`
	Scope  *approval.Scope `json:"-"`
}

func (f *LeaveFilter) Validate() error {
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

	if f.LeaveType != nil {
		if t, err := ParseType(*f.LeaveType); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type",
				Message: "leave_type must be one of: sick, permission, leave",
			})
		} else {
			canonical := string(t)
			f.LeaveType = &canonical
		}
	}

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortBy != "" {
		if !validator.IsInSlice(f.SortBy, []string{"start_date", "created_at"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: start_date, created_at",
			})
		}
	} else {
		f.SortBy = "created_at"
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListLeaveResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Leaves     []LeaveResponse `json:"leaves"`
}

type QuotaResponse struct {
	Year          int  `json:"year"`
	MaxDays       int  `json:"max_days"`
	Unlimited     bool `json:"unlimited"`
	UsedDays      int  `json:"used_days"`
	PendingDays   int  `json:"pending_days"`
	RemainingDays *int `json:"remaining_days,omitempty"`
}
