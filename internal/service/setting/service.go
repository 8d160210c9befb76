package setting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/setting"
)

type SettingServiceImpl struct {
	setting.SettingRepository
	cache setting.SettingCache
}

// NewSettingService builds the settings service. cache may be nil, in which
// case every request reads the store.
func NewSettingService(repo setting.SettingRepository, cache setting.SettingCache) setting.SettingService {
	return &SettingServiceImpl{
		SettingRepository: repo,
		cache:             cache,
	}
}

// rows returns the raw settings, preferring the cache. Cache failures fall
// through to the repository.
func (s *SettingServiceImpl) rows(ctx context.Context) ([]setting.AppSetting, error) {
	if s.cache != nil {
		rows, found, err := s.cache.Get(ctx)
		if err != nil {
			slog.Warn("settings cache read failed", "error", err)
		} else if found {
			return rows, nil
		}
	}

	rows, err := s.SettingRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rows); err != nil {
			slog.Warn("settings cache write failed", "error", err)
		}
	}
	return rows, nil
}

// Current implements setting.SettingService.
func (s *SettingServiceImpl) Current(ctx context.Context) (setting.Settings, error) {
	rows, err := s.rows(ctx)
	if err != nil {
		return setting.Settings{}, err
	}
	return setting.Parse(rows)
}

// List implements setting.SettingService. Keys without a stored row are
// reported with their default value.
func (s *SettingServiceImpl) List(ctx context.Context) ([]setting.SettingResponse, error) {
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}

	stored := make(map[string]setting.AppSetting, len(rows))
	for _, row := range rows {
		stored[row.Key] = row
	}

	var responses []setting.SettingResponse
	for _, def := range setting.Defaults() {
		if row, ok := stored[def.Key]; ok {
			responses = append(responses, toResponse(row, false))
			delete(stored, def.Key)
			continue
		}
		responses = append(responses, toResponse(def, true))
	}
	for _, row := range rows {
		if _, extra := stored[row.Key]; extra {
			responses = append(responses, toResponse(row, false))
		}
	}
	return responses, nil
}

// Update implements setting.SettingService. The new value must leave the
// whole configuration parseable.
func (s *SettingServiceImpl) Update(ctx context.Context, req setting.UpdateSettingRequest) (setting.SettingResponse, error) {
	if err := req.Validate(); err != nil {
		return setting.SettingResponse{}, err
	}

	valueType, _, _ := setting.Definition(req.Key)

	current, err := s.SettingRepository.List(ctx)
	if err != nil {
		return setting.SettingResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	candidate := make([]setting.AppSetting, 0, len(current)+1)
	for _, row := range current {
		if row.Key != req.Key {
			candidate = append(candidate, row)
		}
	}
	candidate = append(candidate, setting.AppSetting{Key: req.Key, Value: req.Value, Type: valueType})
	if _, err := setting.Parse(candidate); err != nil {
		return setting.SettingResponse{}, err
	}

	var description *string
	for _, def := range setting.Defaults() {
		if def.Key == req.Key {
			description = def.Description
		}
	}

	saved, err := s.SettingRepository.Upsert(ctx, setting.AppSetting{
		Key:         req.Key,
		Value:       req.Value,
		Type:        valueType,
		Description: description,
	})
	if err != nil {
		return setting.SettingResponse{}, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			slog.Error("failed to invalidate settings cache", "key", req.Key, "error", err)
		}
	}

	slog.Info("setting updated", "key", saved.Key, "value", saved.Value)
	return toResponse(saved, false), nil
}

func toResponse(s setting.AppSetting, isDefault bool) setting.SettingResponse {
	resp := setting.SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Type:        string(s.Type),
		Description: s.Description,
		IsDefault:   isDefault,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
