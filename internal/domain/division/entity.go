package division

import "time"

type Division struct {
	ID           string
	Name         string
	Description  *string
	SupervisorID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	SupervisorName *string
	MemberCount    int
}
