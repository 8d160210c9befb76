package officenetwork

import "context"

type OfficeNetworkService interface {
	Create(ctx context.Context, req CreateOfficeNetworkRequest) (OfficeNetworkResponse, error)
	Update(ctx context.Context, req UpdateOfficeNetworkRequest) (OfficeNetworkResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (OfficeNetworkResponse, error)
	List(ctx context.Context) ([]OfficeNetworkResponse, error)
}
