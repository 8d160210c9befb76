package auth

import "context"

// RefreshTokenRepository stores refresh tokens hashed, never in clear text.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error

	// IsRefreshTokenRevoked reports revoked or expired tokens as revoked.
	// Unknown tokens return ErrInvalidToken.
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)

	RevokeRefreshToken(ctx context.Context, token string) error

	// RevokeAllForUser ends every session of a user, used on deactivation.
	RevokeAllForUser(ctx context.Context, userID string) error
}
