// Package spotify is a small Spotify Web API client authenticated with the
// client-credentials grant. It covers artist search and lookup.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dimitrije/rosterdesk-api/internal/config"
	"github.com/dimitrije/rosterdesk-api/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	// MaxSearchResults caps what SearchArtists returns.
	MaxSearchResults = 8
	minQueryLength   = 2
)

var (
	ErrMissingCredentials = errors.New("spotify credentials are not configured")
	ErrArtistNotFound     = errors.New("spotify artist not found")
)

type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist is the trimmed shape exposed to clients; followers is a plain count.
type Artist struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Genres    []string `json:"genres"`
	Images    []Image  `json:"images"`
	Followers int      `json:"followers"`
}

type apiArtist struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Genres    []string `json:"genres"`
	Images    []Image  `json:"images"`
	Followers struct {
		Total int `json:"total"`
	} `json:"followers"`
}

func (a apiArtist) toArtist() Artist {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	images := a.Images
	if images == nil {
		images = []Image{}
	}
	return Artist{
		ID:        a.ID,
		Name:      a.Name,
		Genres:    genres,
		Images:    images,
		Followers: a.Followers.Total,
	}
}

// APIError is a non-2xx answer from the Web API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("spotify api returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("spotify api returned status %d", e.StatusCode)
}

func (e *APIError) authFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

type Client struct {
	apiURL     string
	httpClient *http.Client
	tokens     *TokenCache
	limiter    *rate.Limiter
	configured bool
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

type Option func(*Client)

// WithHTTPClient is used for both the token exchange and API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) { cl.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) { cl.logger = l.Named("spotify") }
}

// WithClock drives token cache expiry. Token lifetimes are taken from the
// exchange as durations, so only this clock decides when a token is stale.
func WithClock(now func() time.Time) Option {
	return func(cl *Client) { cl.now = now }
}

func NewClient(cfg config.SpotifyConfig, opts ...Option) *Client {
	c := &Client{
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		configured: cfg.HasCredentials(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     strings.TrimRight(cfg.AccountsURL, "/") + "/api/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	fetch := func(ctx context.Context) (*oauth2.Token, error) {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
		return cc.Token(ctx)
	}
	c.tokens = newTokenCache(fetch, c.now, c.metrics.SpotifyTokenFetched)

	return c
}

// Tokens exposes the cache for callers that need to invalidate it.
func (c *Client) Tokens() *TokenCache {
	return c.tokens
}

// SearchArtists returns up to MaxSearchResults artists. Queries shorter than
// two characters return an empty list without touching the network.
func (c *Client) SearchArtists(ctx context.Context, query string) ([]Artist, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return []Artist{}, nil
	}
	if !c.configured {
		return nil, ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "artist")
	params.Set("limit", fmt.Sprintf("%d", MaxSearchResults))

	var body struct {
		Artists struct {
			Items []apiArtist `json:"items"`
		} `json:"artists"`
	}
	if err := c.get(ctx, "search", "/search?"+params.Encode(), &body); err != nil {
		return nil, err
	}

	items := body.Artists.Items
	if len(items) > MaxSearchResults {
		items = items[:MaxSearchResults]
	}

	artists := make([]Artist, 0, len(items))
	for _, item := range items {
		artists = append(artists, item.toArtist())
	}
	return artists, nil
}

func (c *Client) GetArtist(ctx context.Context, id string) (*Artist, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrArtistNotFound
	}
	if !c.configured {
		return nil, ErrMissingCredentials
	}

	var body apiArtist
	if err := c.get(ctx, "artist", "/artists/"+url.PathEscape(id), &body); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusBadRequest) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}

	artist := body.toArtist()
	return &artist, nil
}

// get performs an authenticated GET. A 401 or 403 discards the cached token,
// fetches exactly one new token and retries exactly once.
func (c *Client) get(ctx context.Context, endpoint, path string, out any) error {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return err
	}

	err = c.do(ctx, endpoint, path, token, out)
	var apiErr *APIError
	if err == nil || !errors.As(err, &apiErr) || !apiErr.authFailure() {
		return err
	}

	c.logger.Info("token rejected, refreshing", zap.String("endpoint", endpoint), zap.Int("status", apiErr.StatusCode))

	token, err = c.tokens.Refresh(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, endpoint, path, token, out)
}

func (c *Client) do(ctx context.Context, endpoint, path, token string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call spotify: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.metrics.SpotifyRequest(endpoint, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode spotify response: %w", err)
	}
	return nil
}

// errorMessage pulls error.message out of a Web API error body when present.
func errorMessage(r io.Reader) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return body.Error.Message
}
