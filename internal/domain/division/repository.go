package division

import "context"

type DivisionRepository interface {
	Create(ctx context.Context, d Division) (Division, error)
	Update(ctx context.Context, d Division) (Division, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Division, error)
	List(ctx context.Context) ([]Division, error)
	CountMembers(ctx context.Context, id string) (int, error)
}
