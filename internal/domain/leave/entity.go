package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
)

type Type string

const (
	TypeSick       Type = "sick"
	TypePermission Type = "permission"
	TypeLeave      Type = "leave"
)

var typeAliases = map[string]Type{
	"sick":       TypeSick,
	"sakit":      TypeSick,
	"permission": TypePermission,
	"keperluan":  TypePermission,
	"izin":       TypePermission,
	"leave":      TypeLeave,
	"cuti":       TypeLeave,
}

// ParseType accepts the canonical names and their Indonesian aliases.
func ParseType(s string) (Type, error) {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLeaveType, s)
}

type Leave struct {
	ID             string
	UserID         string
	Type           Type
	StartDate      time.Time
	EndDate        time.Time
	TotalDays      int
	Reason         string
	AttachmentPath *string
	Review         approval.Review
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	UserName             *string
	UserEmail            *string
	DivisionID           *string
	DivisionName         *string
	SupervisorID         *string
	DivisionSupervisorID *string
	ReviewerName         *string
}

// Subject returns the approval view of the leave owner.
func (l *Leave) Subject() approval.Subject {
	return approval.Subject{
		OwnerID:              l.UserID,
		OwnerSupervisorID:    l.SupervisorID,
		DivisionSupervisorID: l.DivisionSupervisorID,
	}
}
