package division

import (
	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

type DivisionResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	SupervisorID   *string `json:"supervisor_id,omitempty"`
	SupervisorName *string `json:"supervisor_name,omitempty"`
	MemberCount    int     `json:"member_count"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type CreateDivisionRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
}

func (r *CreateDivisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if r.SupervisorID != nil && !validator.IsValidUUID(*r.SupervisorID) {
		errs = append(errs, validator.ValidationError{
			Field:   "supervisor_id",
			Message: "supervisor_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateDivisionRequest: an empty SupervisorID removes the supervisor.
type UpdateDivisionRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
}

func (r *UpdateDivisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		} else if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	if r.SupervisorID != nil && *r.SupervisorID != "" && !validator.IsValidUUID(*r.SupervisorID) {
		errs = append(errs, validator.ValidationError{
			Field:   "supervisor_id",
			Message: "supervisor_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
