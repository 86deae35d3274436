package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer = "rosterdesk-api"

	useAccess  = "access"
	useRefresh = "refresh"
)

// ErrWrongTokenUse is returned when a refresh token is presented as an
// access token or the other way round.
var ErrWrongTokenUse = errors.New("token cannot be used here")

type JWTService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// Claims is the access-token payload. GlobalRole lets admin-only routes skip
// a user lookup.
type Claims struct {
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	GlobalRole string    `json:"global_role,omitempty"`
	Use        string    `json:"use"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	Use string `json:"use"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

func NewJWTService(secret string, accessExpiry, refreshExpiry time.Duration) *JWTService {
	return &JWTService{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

func (s *JWTService) registered(userID uuid.UUID, issuedAt time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		Issuer:    tokenIssuer,
		Subject:   userID.String(),
	}
}

// GenerateTokenPair signs a short-lived access token and a refresh token
// with a unique jti, so two pairs issued in the same second still differ.
func (s *JWTService) GenerateTokenPair(userID uuid.UUID, email, globalRole string) (*TokenPair, error) {
	issuedAt := s.now()

	access, err := s.sign(Claims{
		UserID:           userID,
		Email:            email,
		GlobalRole:       globalRole,
		Use:              useAccess,
		RegisteredClaims: s.registered(userID, issuedAt, s.accessExpiry),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	rc := refreshClaims{Use: useRefresh, RegisteredClaims: s.registered(userID, issuedAt, s.refreshExpiry)}
	rc.ID = uuid.NewString()
	refresh, err := s.sign(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessExpiry.Seconds()),
	}, nil
}

func (s *JWTService) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWTService) parse(raw string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	return err
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Use != useAccess {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}

// ValidateRefreshToken checks signature and expiry and returns the subject.
// Revocation is checked separately against the token store.
func (s *JWTService) ValidateRefreshToken(tokenString string) (uuid.UUID, error) {
	claims := &refreshClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse refresh token: %w", err)
	}
	if claims.Use != useRefresh {
		return uuid.Nil, ErrWrongTokenUse
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id in token: %w", err)
	}
	return userID, nil
}

func (s *JWTService) RefreshExpiry() time.Duration {
	return s.refreshExpiry
}

// HashToken is the form refresh tokens are stored and looked up in.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
