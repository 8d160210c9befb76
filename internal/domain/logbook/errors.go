package logbook

import "errors"

var (
	ErrLogbookNotFound = errors.New("logbook entry not found")
	ErrNotOwner        = errors.New("only the author can edit this logbook entry")
	ErrFutureDate      = errors.New("logbook date cannot be in the future")
)
