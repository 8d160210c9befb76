package division

import (
	"context"

	"github.com/hadir-app/hadir-backend/internal/domain/user"
)

type DivisionService interface {
	Create(ctx context.Context, req CreateDivisionRequest) (DivisionResponse, error)
	Update(ctx context.Context, req UpdateDivisionRequest) (DivisionResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (DivisionResponse, error)
	List(ctx context.Context) ([]DivisionResponse, error)
	ListMembers(ctx context.Context, id string) ([]user.UserResponse, error)
}
