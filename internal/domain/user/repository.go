package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, req UpdateUserRequest) error
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) error
	UpdateAvatar(ctx context.Context, id string, avatarPath string) error
	SetActive(ctx context.Context, id string, active bool) error
	LinkGoogleAccount(ctx context.Context, googleID string, email string) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)

	// ListWithAvatar returns every user that has an avatar path recorded.
	ListWithAvatar(ctx context.Context) ([]User, error)
}
