package setting

import "context"

type SettingRepository interface {
	List(ctx context.Context) ([]AppSetting, error)
	Get(ctx context.Context, key string) (AppSetting, error)
	Upsert(ctx context.Context, s AppSetting) (AppSetting, error)
}

// SettingCache holds the raw rows of the settings store. A miss is reported
// with found=false and a nil error.
type SettingCache interface {
	Get(ctx context.Context) (rows []AppSetting, found bool, err error)
	Set(ctx context.Context, rows []AppSetting) error
	Invalidate(ctx context.Context) error
}
