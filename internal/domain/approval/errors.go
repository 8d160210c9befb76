package approval

import "errors"

var (
	ErrNotPending    = errors.New("request is no longer pending")
	ErrUnauthorized  = errors.New("you are not allowed to review this request")
	ErrMissingReason = errors.New("a rejection reason is required")
	ErrInvalidStatus = errors.New("invalid approval status")
)
