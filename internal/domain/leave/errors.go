package leave

import "errors"

var (
	ErrLeaveNotFound         = errors.New("leave request not found")
	ErrInsufficientNotice    = errors.New("leave does not meet the minimum notice period")
	ErrQuotaExceeded         = errors.New("leave exceeds the yearly quota")
	ErrOverlappingLeave      = errors.New("leave overlaps another pending or approved leave")
	ErrInvalidLeaveType      = errors.New("invalid leave type")
	ErrInvalidAttachmentType = errors.New("attachment must be a pdf, jpg or png file")
	ErrAttachmentTooLarge    = errors.New("attachment exceeds 5MB")
)
