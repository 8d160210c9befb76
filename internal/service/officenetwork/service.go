package officenetwork

import (
	"context"
	"strings"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/officenetwork"
)

type OfficeNetworkServiceImpl struct {
	officenetwork.OfficeNetworkRepository
}

func NewOfficeNetworkService(repo officenetwork.OfficeNetworkRepository) officenetwork.OfficeNetworkService {
	return &OfficeNetworkServiceImpl{OfficeNetworkRepository: repo}
}

// Create implements officenetwork.OfficeNetworkService.
func (s *OfficeNetworkServiceImpl) Create(ctx context.Context, req officenetwork.CreateOfficeNetworkRequest) (officenetwork.OfficeNetworkResponse, error) {
	if err := req.Validate(); err != nil {
		return officenetwork.OfficeNetworkResponse{}, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := s.OfficeNetworkRepository.Create(ctx, officenetwork.OfficeNetwork{
		Name:         strings.TrimSpace(req.Name),
		IPRangeStart: strings.TrimSpace(req.IPRangeStart),
		IPRangeEnd:   strings.TrimSpace(req.IPRangeEnd),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		IsActive:     active,
	})
	if err != nil {
		return officenetwork.OfficeNetworkResponse{}, err
	}
	return toResponse(created), nil
}

// Update implements officenetwork.OfficeNetworkService.
func (s *OfficeNetworkServiceImpl) Update(ctx context.Context, req officenetwork.UpdateOfficeNetworkRequest) (officenetwork.OfficeNetworkResponse, error) {
	existing, err := s.OfficeNetworkRepository.GetByID(ctx, req.ID)
	if err != nil {
		return officenetwork.OfficeNetworkResponse{}, err
	}

	merged, err := req.Apply(existing)
	if err != nil {
		return officenetwork.OfficeNetworkResponse{}, err
	}

	updated, err := s.OfficeNetworkRepository.Update(ctx, merged)
	if err != nil {
		return officenetwork.OfficeNetworkResponse{}, err
	}
	return toResponse(updated), nil
}

// Delete implements officenetwork.OfficeNetworkService.
func (s *OfficeNetworkServiceImpl) Delete(ctx context.Context, id string) error {
	return s.OfficeNetworkRepository.Delete(ctx, id)
}

// Get implements officenetwork.OfficeNetworkService.
func (s *OfficeNetworkServiceImpl) Get(ctx context.Context, id string) (officenetwork.OfficeNetworkResponse, error) {
	n, err := s.OfficeNetworkRepository.GetByID(ctx, id)
	if err != nil {
		return officenetwork.OfficeNetworkResponse{}, err
	}
	return toResponse(n), nil
}

// List implements officenetwork.OfficeNetworkService.
func (s *OfficeNetworkServiceImpl) List(ctx context.Context) ([]officenetwork.OfficeNetworkResponse, error) {
	networks, err := s.OfficeNetworkRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]officenetwork.OfficeNetworkResponse, 0, len(networks))
	for _, n := range networks {
		responses = append(responses, toResponse(n))
	}
	return responses, nil
}

func toResponse(n officenetwork.OfficeNetwork) officenetwork.OfficeNetworkResponse {
	return officenetwork.OfficeNetworkResponse{
		ID:           n.ID,
		Name:         n.Name,
		IPRangeStart: n.IPRangeStart,
		IPRangeEnd:   n.IPRangeEnd,
		Latitude:     n.Latitude,
		Longitude:    n.Longitude,
		RadiusMeters: n.RadiusMeters,
		IsActive:     n.IsActive,
		CreatedAt:    n.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    n.UpdatedAt.Format(time.RFC3339),
	}
}
