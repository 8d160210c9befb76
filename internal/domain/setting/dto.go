package setting

import (
	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

type SettingResponse struct {
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
	IsDefault   bool    `json:"is_default"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

type UpdateSettingRequest struct {
	Key   string `json:"-"`
	Value string `json:"value"`
}

func (r *UpdateSettingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Key) {
		errs = append(errs, validator.ValidationError{
			Field:   "key",
			Message: "key is required",
		})
	}

	t, _, known := Definition(r.Key)
	if !known {
		return ErrUnknownSetting
	}

	if err := ValidateValue(t, r.Value); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "value",
			Message: err.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
