package setting

import "errors"

var (
	ErrConfigurationInvalid = errors.New("configuration is invalid")
	ErrSettingNotFound      = errors.New("setting not found")
	ErrUnknownSetting       = errors.New("unknown setting key")
)
