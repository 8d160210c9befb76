package user

import (
	"context"
	"mime/multipart"
)

type UserService interface {
	// Admin
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	Deactivate(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (UserResponse, error)
	List(ctx context.Context, filter UserFilter) (ListUserResponse, error)

	// Self
	GetProfile(ctx context.Context) (UserResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (UserResponse, error)
	UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (UserResponse, error)
}
