package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingRepository struct {
	db *database.DB
}

func NewSettingRepository(db *database.DB) setting.SettingRepository {
	return &settingRepository{db: db}
}

// List implements setting.SettingRepository.
func (r *settingRepository) List(ctx context.Context) ([]setting.AppSetting, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT key, value, type, description, updated_at FROM app_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var settings []setting.AppSetting
	for rows.Next() {
		var s setting.AppSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.Type, &s.Description, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return settings, nil
}

// Get implements setting.SettingRepository.
func (r *settingRepository) Get(ctx context.Context, key string) (setting.AppSetting, error) {
	q := GetQuerier(ctx, r.db)

	var s setting.AppSetting
	err := q.QueryRow(ctx, `
		SELECT key, value, type, description, updated_at FROM app_settings WHERE key = $1
	`, key).Scan(&s.Key, &s.Value, &s.Type, &s.Description, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return setting.AppSetting{}, setting.ErrSettingNotFound
		}
		return setting.AppSetting{}, fmt.Errorf("failed to get setting: %w", err)
	}
	return s, nil
}

// Upsert implements setting.SettingRepository.
func (r *settingRepository) Upsert(ctx context.Context, s setting.AppSetting) (setting.AppSetting, error) {
	q := GetQuerier(ctx, r.db)

	var saved setting.AppSetting
	err := q.QueryRow(ctx, `
		INSERT INTO app_settings (key, value, type, description, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			type = EXCLUDED.type,
			description = COALESCE(EXCLUDED.description, app_settings.description),
			updated_at = NOW()
		RETURNING key, value, type, description, updated_at
	`, s.Key, s.Value, s.Type, s.Description).Scan(&saved.Key, &saved.Value, &saved.Type, &saved.Description, &saved.UpdatedAt)
	if err != nil {
		return setting.AppSetting{}, fmt.Errorf("failed to save setting: %w", err)
	}
	return saved, nil
}
