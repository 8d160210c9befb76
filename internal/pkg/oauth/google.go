package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/hadir-app/hadir-backend/internal/domain/auth"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleService interface {
	// GenerateState returns a random value for the OAuth2 state parameter.
	GenerateState() (string, error)
	// RedirectURL builds the consent screen URL carrying state.
	RedirectURL(state string) string
	// Identify exchanges the authorization code and fetches the Google profile.
	Identify(ctx context.Context, code string) (auth.GoogleIdentity, error)
}

type GoogleServiceImpl struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleService(clientID string, clientSecret string, redirectURL string, scopes []string) GoogleService {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
	return &GoogleServiceImpl{config: config, userInfoURL: googleUserInfoURL}
}

type googleInformation struct {
	GoogleID      string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	VerifiedEmail bool   `json:"verified_email"`
}

func (g *GoogleServiceImpl) GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (g *GoogleServiceImpl) RedirectURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *GoogleServiceImpl) Identify(ctx context.Context, code string) (auth.GoogleIdentity, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return auth.GoogleIdentity{}, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	client := g.config.Client(ctx, token)
	resp, err := client.Get(g.userInfoURL)
	if err != nil {
		return auth.GoogleIdentity{}, fmt.Errorf("failed to fetch google user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return auth.GoogleIdentity{}, fmt.Errorf("google user info returned status %d", resp.StatusCode)
	}

	var info googleInformation
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return auth.GoogleIdentity{}, fmt.Errorf("failed to decode google user info: %w", err)
	}
	if info.GoogleID == "" || info.Email == "" {
		return auth.GoogleIdentity{}, fmt.Errorf("google user info is missing id or email")
	}

	return auth.GoogleIdentity{
		GoogleID:      info.GoogleID,
		Email:         info.Email,
		Name:          info.Name,
		VerifiedEmail: info.VerifiedEmail,
	}, nil
}
