package officenetwork

import "context"

type OfficeNetworkRepository interface {
	Create(ctx context.Context, n OfficeNetwork) (OfficeNetwork, error)
	Update(ctx context.Context, n OfficeNetwork) (OfficeNetwork, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (OfficeNetwork, error)
	List(ctx context.Context) ([]OfficeNetwork, error)
	ListActive(ctx context.Context) ([]OfficeNetwork, error)
}
