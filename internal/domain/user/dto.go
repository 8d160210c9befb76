package user

import (
	"strings"
	"time"

	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	DivisionID     *string `json:"division_id,omitempty"`
	DivisionName   *string `json:"division_name,omitempty"`
	SupervisorID   *string `json:"supervisor_id,omitempty"`
	SupervisorName *string `json:"supervisor_name,omitempty"`
	IsActive       bool    `json:"is_active"`
	Bio            *string `json:"bio,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	InstagramURL   *string `json:"instagram_url,omitempty"`
	LinkedinURL    *string `json:"linkedin_url,omitempty"`
	GithubURL      *string `json:"github_url,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	OAuthProvider  *string `json:"oauth_provider,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// CreateUserRequest is used by admins to register an employee
type CreateUserRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	DivisionID   *string `json:"division_id,omitempty"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 150 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 150 characters",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if validator.IsEmpty(r.Role) {
		r.Role = string(RoleUser)
	} else if !Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: admin, supervisor, user",
		})
	}

	if r.DivisionID != nil && !validator.IsValidUUID(*r.DivisionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "division_id",
			Message: "division_id must be a valid UUID",
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

// UpdateUserRequest is used by admins. An empty string on DivisionID or
// SupervisorID clears the assignment, nil leaves it unchanged.
type UpdateUserRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	Role         *string `json:"role,omitempty"`
	DivisionID   *string `json:"division_id,omitempty"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Role != nil && !Role(*r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: admin, supervisor, user",
		})
	}

	if r.DivisionID != nil && *r.DivisionID != "" && !validator.IsValidUUID(*r.DivisionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "division_id",
			Message: "division_id must be a valid UUID",
		})
	}

	if r.SupervisorID != nil && *r.SupervisorID != "" {
		if !validator.IsValidUUID(*r.SupervisorID) {
			errs = append(errs, validator.ValidationError{
				Field:   "supervisor_id",
				Message: "supervisor_id must be a valid UUID",
			})
		} else if *r.SupervisorID == r.ID {
			errs = append(errs, validator.ValidationError{
				Field:   "supervisor_id",
				Message: "a user cannot supervise themselves",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateProfileRequest holds the fields a user may change on their own profile
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	InstagramURL *string `json:"instagram_url,omitempty"`
	LinkedinURL  *string `json:"linkedin_url,omitempty"`
	GithubURL    *string `json:"github_url,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		} else if len(*r.Name) > 150 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 150 characters",
			})
		}
	}

	if r.Bio != nil && len(*r.Bio) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "bio",
			Message: "bio must not exceed 500 characters",
		})
	}

	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must start with 08, 62 or +62 and contain 10-13 digits",
		})
	}

	socials := map[string]*string{
		"instagram_url": r.InstagramURL,
		"linkedin_url":  r.LinkedinURL,
		"github_url":    r.GithubURL,
	}
	for _, field := range []string{"instagram_url", "linkedin_url", "github_url"} {
		v := socials[field]
		if v != nil && *v != "" && !validator.IsValidURL(*v) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be a valid http(s) URL",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UserFilter struct {
	DivisionID *string `json:"division_id,omitempty"`
	Role       *string `json:"role,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	Search     *string `json:"search,omitempty"` // name or email

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // name, email, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *UserFilter) Validate() error {
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

	if f.Role != nil && !Role(*f.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: admin, supervisor, user",
		})
	}

	if f.DivisionID != nil && !validator.IsValidUUID(*f.DivisionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "division_id",
			Message: "division_id must be a valid UUID",
		})
	}

	if f.SortBy != "" {
		if !validator.IsInSlice(f.SortBy, []string{"name", "email", "created_at"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: name, email, created_at",
			})
		}
	} else {
		f.SortBy = "name"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "asc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListUserResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Users      []UserResponse `json:"users"`
}

// NewUserResponse maps a user for API output. avatarURL is resolved by the caller from storage.
func NewUserResponse(u User, avatarURL *string) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		DivisionID:     u.DivisionID,
		DivisionName:   u.DivisionName,
		SupervisorID:   u.SupervisorID,
		SupervisorName: u.SupervisorName,
		IsActive:       u.IsActive,
		Bio:            u.Bio,
		Phone:          u.Phone,
		InstagramURL:   u.InstagramURL,
		LinkedinURL:    u.LinkedinURL,
		GithubURL:      u.GithubURL,
		AvatarURL:      avatarURL,
		OAuthProvider:  u.OAuthProvider,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.Format(time.RFC3339),
	}
}
