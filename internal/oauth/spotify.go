package oauth

import (
	"context"
	"strings"

	"github.com/dimitrije/rosterdesk-api/internal/config"
	"golang.org/x/oauth2"
)

// SpotifyProvider signs users in with their Spotify account. It shares the
// app credentials used by the catalog client.
type SpotifyProvider struct {
	config *oauth2.Config
	meURL  string
}

func NewSpotifyProvider(cfg config.SpotifyConfig) *SpotifyProvider {
	accounts := strings.TrimRight(cfg.AccountsURL, "/")
	return &SpotifyProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"user-read-email", "user-read-private"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   accounts + "/authorize",
				TokenURL:  accounts + "/api/token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		meURL: strings.TrimRight(cfg.APIURL, "/") + "/me",
	}
}

func (p *SpotifyProvider) Name() string {
	return "spotify"
}

func (p *SpotifyProvider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *SpotifyProvider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	var me struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
		Images      []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	if err := fetchProfile(ctx, p.config, code, p.meURL, p.Name(), &me); err != nil {
		return nil, err
	}
	if me.Email == "" {
		return nil, ErrNoEmail
	}

	name := me.DisplayName
	if name == "" {
		name = me.ID
	}
	info := &UserInfo{
		Email:    me.Email,
		Name:     name,
		ID:       me.ID,
		Provider: p.Name(),
	}
	if len(me.Images) > 0 {
		info.AvatarURL = me.Images[0].URL
	}
	return info, nil
}
