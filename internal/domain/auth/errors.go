package auth

import "errors"

var (
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrInvalidToken               = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked        = errors.New("refresh token has been revoked")
	ErrRefreshTokenCookieNotFound = errors.New("refresh token cookie not found")
	ErrGoogleEmailNotVerified     = errors.New("google account email is not verified")
	ErrGoogleLoginDisabled        = errors.New("google login is not configured")
	ErrStateMismatch              = errors.New("oauth state mismatch")
)
