package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/middleware"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *services.JWTService {
	return services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
}

func generateTestToken(t *testing.T, jwtSvc *services.JWTService, userID uuid.UUID, email string) string {
	t.Helper()
	pair, err := jwtSvc.GenerateTokenPair(userID, email, models.GlobalRoleUser)
	require.NoError(t, err)
	return pair.AccessToken
}

// serveRoute mounts a single handler behind the same middleware the API
// uses and replays req against it. A nil jwtSvc mounts the route publicly.
func serveRoute(jwtSvc *services.JWTService, method, pattern string, h drift.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	app := drift.New()
	app.Use(driftmw.BodyParser())
	if jwtSvc != nil {
		app.Use(middleware.Auth(jwtSvc))
	}

	switch method {
	case http.MethodGet:
		app.Get(pattern, h)
	case http.MethodPost:
		app.Post(pattern, h)
	case http.MethodPatch:
		app.Patch(pattern, h)
	case http.MethodDelete:
		app.Delete(pattern, h)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func authedRequest(t *testing.T, jwtSvc *services.JWTService, userID uuid.UUID, method, path string, body any) *http.Request {
	t.Helper()
	req := jsonRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, jwtSvc, userID, "test@example.com"))
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// expectArtistAccess wires the lookups artistAccess performs for a caller
// holding role in the artist's team.
func expectArtistAccess(artists *testutil.MockArtistService, teams *testutil.MockTeamService, artist *models.Artist, userID uuid.UUID, role string) {
	artists.On("GetByID", mock.Anything, artist.ID).Return(artist, nil)
	teams.On("GetMemberRole", mock.Anything, artist.TeamID, userID).Return(role, nil)
}
