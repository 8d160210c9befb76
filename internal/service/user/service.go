package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"mime/multipart"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hadir-app/hadir-backend/internal/domain/auth"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
	"github.com/hadir-app/hadir-backend/internal/pkg/storage"
	"github.com/hadir-app/hadir-backend/internal/service/file"
)

const maxAvatarSize = 5 << 20

type UserServiceImpl struct {
	user.UserRepository
	refreshTokenRepo auth.RefreshTokenRepository
	fileService      file.FileService
	storage          storage.FileStorage
}

func NewUserService(
	userRepo user.UserRepository,
	refreshTokenRepo auth.RefreshTokenRepository,
	fileService file.FileService,
	fileStorage storage.FileStorage,
) user.UserService {
	return &UserServiceImpl{
		UserRepository:   userRepo,
		refreshTokenRepo: refreshTokenRepo,
		fileService:      fileService,
		storage:          fileStorage,
	}
}

func (s *UserServiceImpl) toResponse(ctx context.Context, u user.User) user.UserResponse {
	return user.NewUserResponse(u, storage.URLOf(ctx, s.storage, u.AvatarPath))
}

// checkSupervisor requires an active supervisor or admin other than userID.
func (s *UserServiceImpl) checkSupervisor(ctx context.Context, supervisorID string, userID string) error {
	if supervisorID == userID {
		return user.ErrSelfSupervisor
	}
	sup, err := s.UserRepository.GetByID(ctx, supervisorID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrSupervisorNotFound
		}
		return err
	}
	if !sup.IsActive || (sup.Role != user.RoleSupervisor && sup.Role != user.RoleAdmin) {
		return user.ErrSupervisorNotFound
	}
	return nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if _, err := s.UserRepository.GetByEmail(ctx, req.Email); err == nil {
		return user.UserResponse{}, user.ErrUserEmailExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return user.UserResponse{}, err
	}

	if req.SupervisorID != nil {
		if err := s.checkSupervisor(ctx, *req.SupervisorID, ""); err != nil {
			return user.UserResponse{}, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hash := string(hashed)

	created, err := s.UserRepository.Create(ctx, user.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: &hash,
		Role:         user.Role(req.Role),
		DivisionID:   req.DivisionID,
		SupervisorID: req.SupervisorID,
		IsActive:     true,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("user created", "user_id", created.ID, "role", created.Role)
	return s.toResponse(ctx, created), nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if _, err := s.UserRepository.GetByID(ctx, req.ID); err != nil {
		return user.UserResponse{}, err
	}

	if req.SupervisorID != nil && *req.SupervisorID != "" {
		if err := s.checkSupervisor(ctx, *req.SupervisorID, req.ID); err != nil {
			return user.UserResponse{}, err
		}
	}

	if err := s.UserRepository.Update(ctx, req); err != nil {
		return user.UserResponse{}, err
	}

	updated, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return s.toResponse(ctx, updated), nil
}

// Deactivate implements user.UserService. Records are kept and every session
// of the user is revoked.
func (s *UserServiceImpl) Deactivate(ctx context.Context, id string) error {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if actor.ID == id {
		return user.ErrCannotDeactivateSelf
	}

	if err := s.UserRepository.SetActive(ctx, id, false); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.RevokeAllForUser(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	slog.Info("user deactivated", "user_id", id, "by", actor.ID)
	return nil
}

// Activate implements user.UserService.
func (s *UserServiceImpl) Activate(ctx context.Context, id string) error {
	return s.UserRepository.SetActive(ctx, id, true)
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return s.toResponse(ctx, u), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	if err := filter.Validate(); err != nil {
		return user.ListUserResponse{}, err
	}

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, s.toResponse(ctx, u))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	start := (filter.Page-1)*filter.Limit + 1
	end := start + len(responses) - 1
	if len(responses) == 0 {
		start, end = 0, 0
	}

	return user.ListUserResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    fmt.Sprintf("%d-%d of %d", start, end, total),
		Users:      responses,
	}, nil
}

// GetProfile implements user.UserService.
func (s *UserServiceImpl) GetProfile(ctx context.Context) (user.UserResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	return s.Get(ctx, actor.ID)
}

// UpdateProfile implements user.UserService.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	if err := s.UserRepository.UpdateProfile(ctx, actor.ID, req); err != nil {
		return user.UserResponse{}, err
	}
	return s.Get(ctx, actor.ID)
}

// UploadAvatar implements user.UserService. The previous avatar file is
// removed once the new path is saved.
func (s *UserServiceImpl) UploadAvatar(ctx context.Context, f multipart.File, header *multipart.FileHeader) (user.UserResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return user.UserResponse{}, user.ErrInvalidAvatarFormat
	}
	if header.Size > maxAvatarSize {
		return user.UserResponse{}, user.ErrAvatarTooLarge
	}

	current, err := s.UserRepository.GetByID(ctx, actor.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	path, err := s.fileService.UploadAvatar(ctx, current.DivisionID, current.ID, f, header.Filename)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("%w: %v", user.ErrInvalidAvatarFormat, err)
	}

	if err := s.UserRepository.UpdateAvatar(ctx, current.ID, path); err != nil {
		_ = s.fileService.DeleteFile(ctx, path)
		return user.UserResponse{}, err
	}

	if current.AvatarPath != nil && *current.AvatarPath != path {
		if err := s.fileService.DeleteFile(ctx, *current.AvatarPath); err != nil {
			slog.Warn("failed to delete previous avatar", "path", *current.AvatarPath, "error", err)
		}
	}

	return s.Get(ctx, current.ID)
}
