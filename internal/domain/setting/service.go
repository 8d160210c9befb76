package setting

import "context"

type SettingService interface {
	// Current resolves the typed settings for the current request.
	Current(ctx context.Context) (Settings, error)
	List(ctx context.Context) ([]SettingResponse, error)
	Update(ctx context.Context, req UpdateSettingRequest) (SettingResponse, error)
}
