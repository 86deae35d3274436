// Package oauth implements the sign-in providers. Each provider turns an
// authorization code into the caller's profile.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Team invites match on e-mail, so a login must bring a usable address.
var (
	ErrNoEmail          = errors.New("account has no email address")
	ErrEmailNotVerified = errors.New("email address is not verified")
)

type UserInfo struct {
	Email     string
	Name      string
	AvatarURL string
	ID        string
	Provider  string
}

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*UserInfo, error)
	Name() string
}

// GenerateState returns 32 random bytes, URL-safe base64 encoded. It also
// mints the one-time codes handed to the frontend after a callback.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// fetchProfile exchanges code and decodes the JSON profile at profileURL
// into out using the resulting token.
func fetchProfile(ctx context.Context, cfg *oauth2.Config, code, profileURL, provider string, out any) error {
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build profile request: %w", err)
	}

	resp, err := cfg.Client(ctx, token).Do(req)
	if err != nil {
		return fmt.Errorf("failed to get user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s api returned status %d", provider, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode user info: %w", err)
	}
	return nil
}
