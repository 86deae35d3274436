package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string
	RedisURL    string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	FrontendURL         string
	FrontendCallbackURL string
	BaseURL             string

	Spotify SpotifyConfig
	Google  OAuthConfig

	// FunctionsKey guards /functions/* when set.
	FunctionsKey    string
	Metadata        MetadataConfig
	PerformanceSync PerformanceSyncConfig

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// SpotifyConfig is shared by the login provider and the client-credentials
// search client.
type SpotifyConfig struct {
	OAuthConfig
	AccountsURL string
	APIURL      string
	RateLimit   float64
}

func (s SpotifyConfig) HasCredentials() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

type MetadataConfig struct {
	Extractor    string
	ScrapeAPIKey string
	ScrapeAPIURL string
	CacheTTL     time.Duration
}

type PerformanceSyncConfig struct {
	URL    string
	APIKey string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"))
	if err != nil {
		refreshExpiry = 168 * time.Hour
	}

	cacheTTL, err := time.ParseDuration(getEnv("METADATA_CACHE_TTL", "6h"))
	if err != nil {
		cacheTTL = 6 * time.Hour
	}

	rateLimit, err := strconv.ParseFloat(getEnv("SPOTIFY_RATE_LIMIT", "0"), 64)
	if err != nil || rateLimit < 0 {
		rateLimit = 0
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		JWTSecret:        getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,

		FrontendCallbackURL: getEnv("FRONTEND_CALLBACK_URL", "http://localhost:5173/auth/callback"),
		BaseURL:             getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),

		Spotify: SpotifyConfig{
			OAuthConfig: OAuthConfig{
				ClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
				ClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("SPOTIFY_REDIRECT_URL", ""),
			},
			AccountsURL: getEnv("SPOTIFY_ACCOUNTS_URL", "https://accounts.spotify.com"),
			APIURL:      getEnv("SPOTIFY_API_URL", "https://api.spotify.com/v1"),
			RateLimit:   rateLimit,
		},
		Google: OAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},

		FunctionsKey: getEnv("FUNCTIONS_KEY", ""),
		Metadata: MetadataConfig{
			Extractor:    getEnv("METADATA_EXTRACTOR", "regex"),
			ScrapeAPIKey: getEnv("SCRAPE_API_KEY", ""),
			ScrapeAPIURL: getEnv("SCRAPE_API_URL", "https://api.firecrawl.dev/v1/scrape"),
			CacheTTL:     cacheTTL,
		},
		PerformanceSync: PerformanceSyncConfig{
			URL:    getEnv("PERFORMANCE_SYNC_URL", ""),
			APIKey: getEnv("PERFORMANCE_SYNC_KEY", ""),
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
