package user

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"      // Unrestricted authority
	RoleSupervisor Role = "supervisor" // Reviews members of their division and direct reports
	RoleUser       Role = "user"       // Regular employee
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    *string
	Role            Role
	DivisionID      *string
	SupervisorID    *string
	IsActive        bool
	Bio             *string
	Phone           *string
	InstagramURL    *string
	LinkedinURL     *string
	GithubURL       *string
	AvatarPath      *string
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	DivisionName   *string
	SupervisorName *string
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor returns the identity used for authorization decisions.
func (u *User) Actor() Actor {
	return Actor{
		ID:           u.ID,
		Role:         u.Role,
		DivisionID:   u.DivisionID,
		SupervisorID: u.SupervisorID,
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID           string
	Role         Role
	DivisionID   *string
	SupervisorID *string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsReviewer reports whether the actor may review anyone at all.
func (a Actor) IsReviewer() bool {
	return a.Role == RoleAdmin || a.Role == RoleSupervisor
}
