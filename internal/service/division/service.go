package division

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/division"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/storage"
)

type DivisionServiceImpl struct {
	division.DivisionRepository
	userRepo user.UserRepository
	storage  storage.FileStorage
}

func NewDivisionService(divisionRepo division.DivisionRepository, userRepo user.UserRepository, fileStorage storage.FileStorage) division.DivisionService {
	return &DivisionServiceImpl{
		DivisionRepository: divisionRepo,
		userRepo:           userRepo,
		storage:            fileStorage,
	}
}

// checkSupervisor accepts an active supervisor or admin.
func (s *DivisionServiceImpl) checkSupervisor(ctx context.Context, id string) error {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return division.ErrInvalidSupervisor
		}
		return err
	}
	if !u.IsActive || (u.Role != user.RoleSupervisor && u.Role != user.RoleAdmin) {
		return division.ErrInvalidSupervisor
	}
	return nil
}

// Create implements division.DivisionService.
func (s *DivisionServiceImpl) Create(ctx context.Context, req division.CreateDivisionRequest) (division.DivisionResponse, error) {
	if err := req.Validate(); err != nil {
		return division.DivisionResponse{}, err
	}
	if req.SupervisorID != nil {
		if err := s.checkSupervisor(ctx, *req.SupervisorID); err != nil {
			return division.DivisionResponse{}, err
		}
	}

	created, err := s.DivisionRepository.Create(ctx, division.Division{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		SupervisorID: req.SupervisorID,
	})
	if err != nil {
		return division.DivisionResponse{}, err
	}
	return toResponse(created), nil
}

// Update implements division.DivisionService.
func (s *DivisionServiceImpl) Update(ctx context.Context, req division.UpdateDivisionRequest) (division.DivisionResponse, error) {
	if err := req.Validate(); err != nil {
		return division.DivisionResponse{}, err
	}

	existing, err := s.DivisionRepository.GetByID(ctx, req.ID)
	if err != nil {
		return division.DivisionResponse{}, err
	}

	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.SupervisorID != nil {
		if *req.SupervisorID == "" {
			existing.SupervisorID = nil
		} else {
			if err := s.checkSupervisor(ctx, *req.SupervisorID); err != nil {
				return division.DivisionResponse{}, err
			}
			existing.SupervisorID = req.SupervisorID
		}
	}

	updated, err := s.DivisionRepository.Update(ctx, existing)
	if err != nil {
		return division.DivisionResponse{}, err
	}
	return toResponse(updated), nil
}

// Delete implements division.DivisionService.
func (s *DivisionServiceImpl) Delete(ctx context.Context, id string) error {
	return s.DivisionRepository.Delete(ctx, id)
}

// Get implements division.DivisionService.
func (s *DivisionServiceImpl) Get(ctx context.Context, id string) (division.DivisionResponse, error) {
	d, err := s.DivisionRepository.GetByID(ctx, id)
	if err != nil {
		return division.DivisionResponse{}, err
	}
	return toResponse(d), nil
}

// List implements division.DivisionService.
func (s *DivisionServiceImpl) List(ctx context.Context) ([]division.DivisionResponse, error) {
	divisions, err := s.DivisionRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]division.DivisionResponse, 0, len(divisions))
	for _, d := range divisions {
		responses = append(responses, toResponse(d))
	}
	return responses, nil
}

// ListMembers implements division.DivisionService.
func (s *DivisionServiceImpl) ListMembers(ctx context.Context, id string) ([]user.UserResponse, error) {
	if _, err := s.DivisionRepository.GetByID(ctx, id); err != nil {
		return nil, err
	}

	members := []user.UserResponse{}
	filter := user.UserFilter{DivisionID: &id, Page: 1, Limit: 100, SortBy: "name", SortOrder: "asc"}
	for {
		page, total, err := s.userRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list division members: %w", err)
		}
		for _, u := range page {
			members = append(members, user.NewUserResponse(u, storage.URLOf(ctx, s.storage, u.AvatarPath)))
		}
		if len(page) == 0 || int64(len(members)) >= total {
			break
		}
		filter.Page++
	}
	return members, nil
}

func toResponse(d division.Division) division.DivisionResponse {
	return division.DivisionResponse{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		SupervisorID:   d.SupervisorID,
		SupervisorName: d.SupervisorName,
		MemberCount:    d.MemberCount,
		CreatedAt:      d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      d.UpdatedAt.Format(time.RFC3339),
	}
}
