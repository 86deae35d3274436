package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-testing-only"

// TestJWTService signs with a fixed secret so tokens minted in tests verify
// against any router built from it.
func TestJWTService() *services.JWTService {
	return services.NewJWTService(testJWTSecret, 15*time.Minute, 24*time.Hour)
}

// GenerateTestToken returns an access token for a regular user.
func GenerateTestToken(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	return generateToken(t, userID, email, models.GlobalRoleUser)
}

func generateToken(t *testing.T, userID uuid.UUID, email, globalRole string) string {
	t.Helper()
	pair, err := TestJWTService().GenerateTokenPair(userID, email, globalRole)
	require.NoError(t, err, "failed to generate test token")
	return pair.AccessToken
}

func AuthHeader(token string) string {
	return "Bearer " + token
}

// HTTPTestClient drives a handler in-process. AsUser returns a copy that
// sends a bearer token on every request.
type HTTPTestClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func NewHTTPTestClient(t *testing.T, handler http.Handler) *HTTPTestClient {
	return &HTTPTestClient{t: t, handler: handler}
}

func (c *HTTPTestClient) AsUser(user *models.User) *HTTPTestClient {
	c.t.Helper()
	role := user.GlobalRole
	if role == "" {
		role = models.GlobalRoleUser
	}
	return &HTTPTestClient{t: c.t, handler: c.handler, token: generateToken(c.t, user.ID, user.Email, role)}
}

func (c *HTTPTestClient) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err, "failed to marshal request body")
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", AuthHeader(c.token))
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *HTTPTestClient) GET(path string) *httptest.ResponseRecorder {
	return c.Do(http.MethodGet, path, nil)
}

func (c *HTTPTestClient) POST(path string, body any) *httptest.ResponseRecorder {
	return c.Do(http.MethodPost, path, body)
}

func (c *HTTPTestClient) PATCH(path string, body any) *httptest.ResponseRecorder {
	return c.Do(http.MethodPatch, path, body)
}

func (c *HTTPTestClient) DELETE(path string) *httptest.ResponseRecorder {
	return c.Do(http.MethodDelete, path, nil)
}

func ParseJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v), "failed to parse response JSON")
}

// AssertStatus stops the test on a status mismatch; later steps usually
// depend on the body.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	require.Equal(t, expected, rec.Code, "body: %s", rec.Body.String())
}

// AssertJSON checks only the listed top-level fields.
func AssertJSON(t *testing.T, rec *httptest.ResponseRecorder, expected map[string]any) {
	t.Helper()
	var actual map[string]any
	ParseJSON(t, rec, &actual)
	for key, want := range expected {
		if assert.Contains(t, actual, key) {
			assert.Equal(t, want, actual[key], key)
		}
	}
}
