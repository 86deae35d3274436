package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"sync"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/config"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/oauth"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

const (
	stateTTL        = 10 * time.Minute
	authCodeTTL     = 30 * time.Second
	exchangeTimeout = 30 * time.Second
)

type AuthHandler struct {
	cfg          *config.Config
	providers    map[string]oauth.Provider
	userService  UserServiceInterface
	tokenService TokenServiceInterface
	jwtService   JWTServiceInterface
	logger       *zap.Logger
	states       sync.Map
	authCodes    sync.Map
}

type stateData struct {
	expiresAt time.Time
}

type authCodeData struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// NewAuthHandler registers every provider whose client id is configured.
func NewAuthHandler(
	cfg *config.Config,
	userService UserServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
	logger *zap.Logger,
) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &AuthHandler{
		cfg:          cfg,
		providers:    make(map[string]oauth.Provider),
		userService:  userService,
		tokenService: tokenService,
		jwtService:   jwtService,
		logger:       logger.Named("auth"),
	}

	if cfg.Spotify.ClientID != "" && cfg.Spotify.RedirectURL != "" {
		h.providers["spotify"] = oauth.NewSpotifyProvider(cfg.Spotify)
	}
	if cfg.Google.ClientID != "" {
		h.providers["google"] = oauth.NewGoogleProvider(cfg.Google)
	}

	return h
}

// Providers lists the enabled provider names.
func (h *AuthHandler) Providers() []string {
	names := make([]string, 0, len(h.providers))
	for name := range h.providers {
		names = append(names, name)
	}
	return names
}

// RunCleanup drops expired states and one-time codes every interval until
// ctx is cancelled.
func (h *AuthHandler) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.sweep(now)
		}
	}
}

func (h *AuthHandler) sweep(now time.Time) {
	h.states.Range(func(key, value any) bool {
		if sd, ok := value.(stateData); ok && now.After(sd.expiresAt) {
			h.states.Delete(key)
		}
		return true
	})
	h.authCodes.Range(func(key, value any) bool {
		if acd, ok := value.(authCodeData); ok && now.After(acd.expiresAt) {
			h.authCodes.Delete(key)
		}
		return true
	})
}

func (h *AuthHandler) GetConsentURL(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		c.BadRequest("unsupported provider: " + provider)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	h.states.Store(state, stateData{expiresAt: time.Now().Add(stateTTL)})

	_ = c.JSON(200, dto.ConsentURLResponse{URL: p.GetConsentURL(state)})
}

// Callback completes the provider round trip and hands the browser a
// short-lived code that the app trades for tokens.
func (h *AuthHandler) Callback(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		h.redirectWithError(c, "unsupported provider")
		return
	}

	if providerErr := c.QueryParam("error"); providerErr != "" {
		h.redirectWithError(c, "sign-in was cancelled: "+providerErr)
		return
	}

	state := c.QueryParam("state")
	if state == "" {
		h.redirectWithError(c, "missing state parameter")
		return
	}

	sd, ok := h.states.LoadAndDelete(state)
	if !ok {
		h.redirectWithError(c, "invalid or expired state")
		return
	}
	if data, ok := sd.(stateData); !ok || time.Now().After(data.expiresAt) {
		h.redirectWithError(c, "state expired")
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		h.redirectWithError(c, "missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), exchangeTimeout)
	defer cancel()

	userInfo, err := p.ExchangeCode(ctx, code)
	if err != nil {
		h.logger.Warn("code exchange failed", zap.String("provider", provider), zap.Error(err))
		h.redirectWithError(c, "failed to exchange code: "+err.Error())
		return
	}

	user, err := h.userService.FindOrCreateFromOAuth(ctx, userInfo)
	if err != nil {
		h.logger.Error("user upsert failed", zap.String("provider", provider), zap.Error(err))
		h.redirectWithError(c, "failed to create user")
		return
	}

	authCode, err := oauth.GenerateState()
	if err != nil {
		h.redirectWithError(c, "failed to generate auth code")
		return
	}

	h.authCodes.Store(authCode, authCodeData{
		userID:    user.ID,
		expiresAt: time.Now().Add(authCodeTTL),
	})

	redirectURL := fmt.Sprintf("%s?code=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(authCode))
	h.renderCallbackPage(c, redirectURL, authCode, false)
}

func (h *AuthHandler) ExchangeCode(c *drift.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Code == "" {
		c.BadRequest("code is required")
		return
	}

	acd, ok := h.authCodes.LoadAndDelete(req.Code)
	if !ok {
		c.Unauthorized("invalid or expired code")
		return
	}

	codeData, ok := acd.(authCodeData)
	if !ok || time.Now().After(codeData.expiresAt) {
		c.Unauthorized("code expired")
		return
	}

	ctx := c.Request.Context()

	user, err := h.userService.GetByID(ctx, codeData.userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	h.issueTokens(c, user)
}

// RefreshToken rotates the refresh token: the presented one is revoked and
// a fresh pair is issued.
func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	tokenHash := services.HashToken(req.RefreshToken)
	ctx := c.Request.Context()

	storedUserID, err := h.tokenService.ValidateRefreshToken(ctx, tokenHash)
	if err != nil && !errors.Is(err, services.ErrRefreshTokenInvalid) {
		h.logger.Error("refresh token lookup failed", zap.Error(err))
		c.InternalServerError("failed to validate refresh token")
		return
	}
	if err != nil || storedUserID != userID {
		c.Unauthorized("refresh token not found or expired")
		return
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	if err := h.tokenService.RevokeRefreshToken(ctx, tokenHash); err != nil {
		c.InternalServerError("failed to revoke old token")
		return
	}

	h.issueTokens(c, user)
}

func (h *AuthHandler) issueTokens(c *drift.Context, user *models.User) {
	tokenPair, err := h.jwtService.GenerateTokenPair(user.ID, user.Email, user.GlobalRole)
	if err != nil {
		c.InternalServerError("failed to generate tokens")
		return
	}

	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	if err := h.tokenService.StoreRefreshToken(c.Request.Context(), user.ID, services.HashToken(tokenPair.RefreshToken), expiresAt); err != nil {
		h.logger.Error("failed to store refresh token", zap.String("user_id", user.ID.String()), zap.Error(err))
		c.InternalServerError("failed to store refresh token")
		return
	}

	_ = c.JSON(200, dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken != "" {
		if err := h.tokenService.RevokeRefreshToken(c.Request.Context(), services.HashToken(req.RefreshToken)); err != nil {
			h.logger.Warn("logout revoke failed", zap.Error(err))
		}
	}

	_ = c.JSON(200, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.tokenService.RevokeAllUserTokens(c.Request.Context(), userID); err != nil {
		c.InternalServerError("failed to revoke tokens")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "all sessions logged out"})
}

func (h *AuthHandler) redirectWithError(c *drift.Context, errMsg string) {
	redirectURL := fmt.Sprintf("%s?error=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(errMsg))
	h.renderCallbackPage(c, redirectURL, errMsg, true)
}

// renderCallbackPage shows a small page that forwards the browser to the
// app. On success it also prints the one-time code for manual paste.
func (h *AuthHandler) renderCallbackPage(c *drift.Context, redirectURL, detail string, failed bool) {
	title := "Signed in to Rosterdesk"
	heading := "You're signed in"
	subtitle := "Taking you back to Rosterdesk..."
	accent := "#1db954"
	status := 200
	codeBlock := fmt.Sprintf(`
    <p class="hint">Not redirected? Paste this code into Rosterdesk:</p>
    <code id="auth-code">%s</code>`, html.EscapeString(detail))

	if failed {
		title = "Rosterdesk sign-in failed"
		heading = "Sign-in failed"
		subtitle = html.EscapeString(detail)
		accent = "#b91c1c"
		status = 400
		codeBlock = ""
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; background: #121212; color: #e5e5e5; margin: 0; padding: 48px 16px; }
    .card { max-width: 420px; margin: 0 auto; background: #1e1e1e; border-top: 4px solid %s; border-radius: 8px; padding: 32px; text-align: center; }
    h1 { font-size: 20px; margin: 0 0 8px; }
    p { color: #a3a3a3; font-size: 14px; margin: 0 0 8px; }
    .hint { margin-top: 24px; font-size: 13px; }
    code { display: block; background: #2a2a2a; border-radius: 6px; padding: 10px; font-size: 13px; word-break: break-all; color: #fafafa; }
  </style>
</head>
<body>
  <div class="card">
    <h1>%s</h1>
    <p>%s</p>
    <p>You can close this window.</p>%s
  </div>
  <script>window.location.href = %q;</script>
</body>
</html>`, title, accent, heading, subtitle, codeBlock, redirectURL)

	_ = c.HTML(status, page)
}
