package officenetwork

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/officenetwork"
	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

type memoryNetworkRepo struct {
	officenetwork.OfficeNetworkRepository
	items map[string]officenetwork.OfficeNetwork
}

func (r *memoryNetworkRepo) Create(_ context.Context, n officenetwork.OfficeNetwork) (officenetwork.OfficeNetwork, error) {
	n.ID = "net-1"
	r.items[n.ID] = n
	return n, nil
}

func (r *memoryNetworkRepo) Update(_ context.Context, n officenetwork.OfficeNetwork) (officenetwork.OfficeNetwork, error) {
	r.items[n.ID] = n
	return n, nil
}

func (r *memoryNetworkRepo) GetByID(_ context.Context, id string) (officenetwork.OfficeNetwork, error) {
	n, ok := r.items[id]
	if !ok {
		return officenetwork.OfficeNetwork{}, officenetwork.ErrOfficeNetworkNotFound
	}
	return n, nil
}

func TestCreateAndUpdate(t *testing.T) {
	repo := &memoryNetworkRepo{items: map[string]officenetwork.OfficeNetwork{}}
	svc := NewOfficeNetworkService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, officenetwork.CreateOfficeNetworkRequest{
		Name:         "HQ",
		IPRangeStart: "10.0.0.1",
		IPRangeEnd:   "10.0.0.254",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, 100, created.RadiusMeters)

	inactive := false
	updated, err := svc.Update(ctx, officenetwork.UpdateOfficeNetworkRequest{ID: created.ID, IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "10.0.0.254", updated.IPRangeEnd)

	inverted := "10.0.0.0"
	_, err = svc.Update(ctx, officenetwork.UpdateOfficeNetworkRequest{ID: created.ID, IPRangeEnd: &inverted})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "10.0.0.254", repo.items[created.ID].IPRangeEnd)

	_, err = svc.Update(ctx, officenetwork.UpdateOfficeNetworkRequest{ID: "missing"})
	assert.ErrorIs(t, err, officenetwork.ErrOfficeNetworkNotFound)
}
