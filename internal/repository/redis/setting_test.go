package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/setting"
)

func newTestCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, setting.SettingCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewSettingCache(client, ttl)
}

func TestSettingCache_RoundTrip(t *testing.T) {
	_, cache := newTestCache(t, time.Minute)
	ctx := context.Background()

	rows, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, rows)

	desc := "Minutes after working_hours_start before a check-in is late"
	want := []setting.AppSetting{
		{Key: setting.KeyLateToleranceMinutes, Value: "10", Type: setting.TypeNumber, Description: &desc},
		{Key: setting.KeyTimezone, Value: "Asia/Makassar", Type: setting.TypeString},
	}
	require.NoError(t, cache.Set(ctx, want))

	got, found, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "10", got[0].Value)
	assert.Equal(t, setting.TypeNumber, got[0].Type)
	assert.Equal(t, desc, *got[0].Description)
	assert.Equal(t, "Asia/Makassar", got[1].Value)

	parsed, err := setting.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, 10, parsed.LateToleranceMinutes)
}

func TestSettingCache_Invalidate(t *testing.T) {
	_, cache := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []setting.AppSetting{{Key: setting.KeyTimezone, Value: "UTC", Type: setting.TypeString}}))
	require.NoError(t, cache.Invalidate(ctx))

	_, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	// Invalidating an empty cache is fine.
	assert.NoError(t, cache.Invalidate(ctx))
}

func TestSettingCache_Expires(t *testing.T) {
	mr, cache := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []setting.AppSetting{{Key: setting.KeyTimezone, Value: "UTC", Type: setting.TypeString}}))
	mr.FastForward(31 * time.Second)

	_, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSettingCache_CorruptValue(t *testing.T) {
	mr, cache := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(settingsKey, "not json"))

	_, found, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, found)
}
