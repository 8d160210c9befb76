package division

import "errors"

var (
	ErrDivisionNotFound   = errors.New("division not found")
	ErrDivisionNameExists = errors.New("division name already exists")
	ErrDivisionHasMembers = errors.New("division still has members")
	ErrInvalidSupervisor  = errors.New("division supervisor must be an active supervisor or admin")
)
