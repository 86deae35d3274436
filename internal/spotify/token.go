package spotify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// expiryMargin is subtracted from the lifetime Spotify reports so a token is
// never used in its final minute.
const expiryMargin = 60 * time.Second

type fetchFunc func(ctx context.Context) (*oauth2.Token, error)

// TokenCache holds one client-credentials bearer token. It is safe for
// concurrent use; fetches are serialized so callers racing on an empty cache
// trigger a single exchange.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time

	fetch   fetchFunc
	now     func() time.Time
	onFetch func()
}

func newTokenCache(fetch fetchFunc, now func() time.Time, onFetch func()) *TokenCache {
	if now == nil {
		now = time.Now
	}
	if onFetch == nil {
		onFetch = func() {}
	}
	return &TokenCache{fetch: fetch, now: now, onFetch: onFetch}
}

// Get returns the cached token, exchanging credentials only when the cache is
// empty or expired.
func (c *TokenCache) Get(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, nil
	}
	return c.refreshLocked(ctx)
}

// Refresh discards the cached token and fetches a new one unconditionally.
func (c *TokenCache) Refresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.expiresAt = time.Time{}
	return c.refreshLocked(ctx)
}

func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

func (c *TokenCache) refreshLocked(ctx context.Context) (string, error) {
	tok, err := c.fetch(ctx)
	c.onFetch()
	if err != nil {
		return "", fmt.Errorf("failed to fetch spotify token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("spotify token response missing access_token")
	}

	c.token = tok.AccessToken
	c.expiresAt = c.now().Add(tokenLifetime(tok) - expiryMargin)
	return c.token, nil
}

// tokenLifetime prefers the wire expires_in. x/oauth2 stamps Expiry with the
// wall clock, so it is converted to a duration before the cache clock sees it.
func tokenLifetime(tok *oauth2.Token) time.Duration {
	switch {
	case tok.ExpiresIn > 0:
		return time.Duration(tok.ExpiresIn) * time.Second
	case !tok.Expiry.IsZero():
		return time.Until(tok.Expiry)
	}
	return time.Hour
}

// set seeds the cache; used by tests.
func (c *TokenCache) set(token string, expiresAt time.Time) {
	c.mu.Lock()
	c.token = token
	c.expiresAt = expiresAt
	c.mu.Unlock()
}
