package oauth

import (
	"context"

	"github.com/dimitrije/rosterdesk-api/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider signs in label staff with Google Workspace accounts. Only
// verified addresses are accepted.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(cfg config.OAuthConfig) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	var profile struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Verified bool   `json:"verified_email"`
		Name     string `json:"name"`
		Picture  string `json:"picture"`
	}
	if err := fetchProfile(ctx, p.config, code, p.userInfoURL, p.Name(), &profile); err != nil {
		return nil, err
	}
	switch {
	case profile.Email == "":
		return nil, ErrNoEmail
	case !profile.Verified:
		return nil, ErrEmailNotVerified
	}

	return &UserInfo{
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.Picture,
		ID:        profile.ID,
		Provider:  p.Name(),
	}, nil
}
