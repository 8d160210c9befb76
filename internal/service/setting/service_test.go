package setting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

type memorySettingRepo struct {
	rows  map[string]setting.AppSetting
	lists int
}

func newMemorySettingRepo(rows ...setting.AppSetting) *memorySettingRepo {
	r := &memorySettingRepo{rows: map[string]setting.AppSetting{}}
	for _, row := range rows {
		r.rows[row.Key] = row
	}
	return r
}

func (r *memorySettingRepo) List(context.Context) ([]setting.AppSetting, error) {
	r.lists++
	var out []setting.AppSetting
	for _, key := range setting.KnownKeys() {
		if row, ok := r.rows[key]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memorySettingRepo) Get(_ context.Context, key string) (setting.AppSetting, error) {
	row, ok := r.rows[key]
	if !ok {
		return setting.AppSetting{}, setting.ErrSettingNotFound
	}
	return row, nil
}

func (r *memorySettingRepo) Upsert(_ context.Context, s setting.AppSetting) (setting.AppSetting, error) {
	s.UpdatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r.rows[s.Key] = s
	return s, nil
}

type memoryCache struct {
	rows        []setting.AppSetting
	found       bool
	failGet     bool
	invalidated int
}

func (c *memoryCache) Get(context.Context) ([]setting.AppSetting, bool, error) {
	if c.failGet {
		return nil, false, errors.New("connection refused")
	}
	return c.rows, c.found, nil
}

func (c *memoryCache) Set(_ context.Context, rows []setting.AppSetting) error {
	c.rows, c.found = rows, true
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.rows, c.found = nil, false
	c.invalidated++
	return nil
}

func TestCurrent_UsesCache(t *testing.T) {
	repo := newMemorySettingRepo(setting.AppSetting{Key: setting.KeyLateToleranceMinutes, Value: "5", Type: setting.TypeNumber})
	cache := &memoryCache{}
	svc := NewSettingService(repo, cache)
	ctx := context.Background()

	s, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, s.LateToleranceMinutes)
	assert.Equal(t, 1, repo.lists)

	_, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists, "second read is served from cache")
}

func TestCurrent_CacheFailureFallsBack(t *testing.T) {
	repo := newMemorySettingRepo()
	svc := NewSettingService(repo, &memoryCache{failGet: true})

	s, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15, s.LateToleranceMinutes)
}

func TestCurrent_InvalidStoredValue(t *testing.T) {
	repo := newMemorySettingRepo(setting.AppSetting{Key: setting.KeyCheckInStartTime, Value: "8am", Type: setting.TypeTime})
	svc := NewSettingService(repo, nil)

	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, setting.ErrConfigurationInvalid)
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	repo := newMemorySettingRepo()
	cache := &memoryCache{}
	svc := NewSettingService(repo, cache)
	ctx := context.Background()

	_, err := svc.Current(ctx)
	require.NoError(t, err)
	require.True(t, cache.found)

	resp, err := svc.Update(ctx, setting.UpdateSettingRequest{Key: setting.KeyWorkingHoursStart, Value: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, "09:00", resp.Value)
	assert.Equal(t, "time", resp.Type)
	assert.False(t, resp.IsDefault)
	assert.Equal(t, 1, cache.invalidated)

	s, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, setting.ClockTime{Hour: 9}, s.WorkingHoursStart)
}

func TestUpdate_Rejections(t *testing.T) {
	repo := newMemorySettingRepo()
	svc := NewSettingService(repo, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, setting.UpdateSettingRequest{Key: "coffee_break", Value: "10"})
	assert.ErrorIs(t, err, setting.ErrUnknownSetting)

	_, err = svc.Update(ctx, setting.UpdateSettingRequest{Key: setting.KeyLateToleranceMinutes, Value: "ten"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	// Valid on its own but leaves the check-in window inverted.
	_, err = svc.Update(ctx, setting.UpdateSettingRequest{Key: setting.KeyCheckInEndTime, Value: "05:00"})
	assert.ErrorIs(t, err, setting.ErrConfigurationInvalid)
	assert.Empty(t, repo.rows)
}

func TestList_MergesDefaults(t *testing.T) {
	repo := newMemorySettingRepo(setting.AppSetting{Key: setting.KeyTimezone, Value: "UTC", Type: setting.TypeString})
	svc := NewSettingService(repo, nil)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, len(setting.KnownKeys()))

	byKey := map[string]setting.SettingResponse{}
	for _, s := range list {
		byKey[s.Key] = s
	}
	assert.False(t, byKey[setting.KeyTimezone].IsDefault)
	assert.Equal(t, "UTC", byKey[setting.KeyTimezone].Value)
	assert.True(t, byKey[setting.KeyCheckInStartTime].IsDefault)
	assert.Equal(t, "06:00", byKey[setting.KeyCheckInStartTime].Value)
}
