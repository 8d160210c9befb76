package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrUserInactive           = errors.New("user account is deactivated")
	ErrInvalidRole            = errors.New("invalid role")
	ErrSupervisorNotFound     = errors.New("supervisor not found")
	ErrSelfSupervisor         = errors.New("user cannot supervise themselves")
	ErrCannotDeactivateSelf   = errors.New("cannot deactivate your own account")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrReviewerAccessRequired = errors.New("supervisor or admin access required")
	ErrInvalidAvatarFormat    = errors.New("avatar must be a jpg or png image")
	ErrAvatarTooLarge         = errors.New("avatar exceeds maximum size")
)
