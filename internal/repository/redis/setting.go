package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hadir-app/hadir-backend/internal/domain/setting"
)

const settingsKey = "hadir:settings"

type settingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSettingCache stores the settings rows as one JSON value under a single key.
func NewSettingCache(client *redis.Client, ttl time.Duration) setting.SettingCache {
	return &settingCache{client: client, ttl: ttl}
}

type cachedSetting struct {
	Key         string            `json:"key"`
	Value       string            `json:"value"`
	Type        setting.ValueType `json:"type"`
	Description *string           `json:"description,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Get implements setting.SettingCache.
func (c *settingCache) Get(ctx context.Context) ([]setting.AppSetting, bool, error) {
	raw, err := c.client.Get(ctx, settingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings cache: %w", err)
	}

	var cached []cachedSetting
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("failed to decode settings cache: %w", err)
	}

	rows := make([]setting.AppSetting, 0, len(cached))
	for _, s := range cached {
		rows = append(rows, setting.AppSetting{
			Key:         s.Key,
			Value:       s.Value,
			Type:        s.Type,
			Description: s.Description,
			UpdatedAt:   s.UpdatedAt,
		})
	}
	return rows, true, nil
}

// Set implements setting.SettingCache.
func (c *settingCache) Set(ctx context.Context, rows []setting.AppSetting) error {
	cached := make([]cachedSetting, 0, len(rows))
	for _, s := range rows {
		cached = append(cached, cachedSetting{
			Key:         s.Key,
			Value:       s.Value,
			Type:        s.Type,
			Description: s.Description,
			UpdatedAt:   s.UpdatedAt,
		})
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to encode settings cache: %w", err)
	}
	if err := c.client.Set(ctx, settingsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write settings cache: %w", err)
	}
	return nil
}

// Invalidate implements setting.SettingCache.
func (c *settingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, settingsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate settings cache: %w", err)
	}
	return nil
}
