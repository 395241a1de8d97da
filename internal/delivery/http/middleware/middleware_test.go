package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skill-gap/internal/pkg/jwt"
	"skill-gap/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(auth *AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(zerolog.Nop()).Middleware())
	app.Use(NewErrorMiddleware(zerolog.Nop()).Middleware())
	app.Get("/me", auth.Middleware(), func(c fiber.Ctx) error {
		return response.Success(c, fiber.StatusOK, "", UserID(c))
	})
	app.Get("/fail/:kind", func(c fiber.Ctx) error {
		switch c.Params("kind") {
		case "bad":
			return NewAppError(fiber.StatusBadRequest, "Nope", fiber.Map{"field": "x"}, nil)
		case "internal":
			return NewAppError(fiber.StatusInternalServerError, "db exploded", nil, errors.New("boom"))
		case "unavailable":
			return NewAppError(fiber.StatusServiceUnavailable, "Embedding provider unavailable", nil, nil)
		case "fiber":
			return fiber.ErrNotFound
		case "plain":
			return errors.New("plain")
		default:
			panic("kaboom")
		}
	})
	return app
}

func call(t *testing.T, app *fiber.App, req *http.Request) (int, response.SemanticResponse) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var sr response.SemanticResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sr))
	return resp.StatusCode, sr
}

func TestErrorMiddleware(t *testing.T) {
	app := newApp(nil)

	cases := []struct {
		kind    string
		status  int
		message string
	}{
		{"bad", 400, "Nope"},
		{"internal", 500, response.MessageInternalServerError},
		{"unavailable", 503, "Embedding provider unavailable"},
		{"fiber", 404, "Not Found"},
		{"plain", 500, response.MessageInternalServerError},
		{"panic", 500, response.MessageInternalServerError},
	}
	for _, tc := range cases {
		status, sr := call(t, app, httptest.NewRequest(http.MethodGet, "/fail/"+tc.kind, nil))
		assert.Equal(t, tc.status, status, tc.kind)
		assert.Equal(t, tc.status, sr.Status, tc.kind)
		assert.Equal(t, tc.message, sr.Message, tc.kind)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	status, sr := call(t, newApp(NewAuthMiddleware(nil)), httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "", sr.Data)
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("secret", "skill-gap", time.Minute)
	app := newApp(NewAuthMiddleware(svc))
	tok, err := svc.GenerateAccessToken("user-7")
	require.NoError(t, err)

	status, _ := call(t, app, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, status)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	status, sr := call(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", sr.Message)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer "+tok)
	status, sr = call(t, app, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user-7", sr.Data)

	// Query tokens are only honoured on websocket upgrades.
	status, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/me?token="+tok, nil))
	assert.Equal(t, http.StatusUnauthorized, status)

	req = httptest.NewRequest(http.MethodGet, "/me?token="+tok, nil)
	req.Header.Set("Upgrade", "websocket")
	status, sr = call(t, app, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user-7", sr.Data)
}

func TestAccessLog_RequestID(t *testing.T) {
	app := newApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "rid-1", resp.Header.Get(HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
}

func TestBearerTokenFromHeader(t *testing.T) {
	tok, ok := bearerTokenFromHeader("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer   "} {
		_, ok := bearerTokenFromHeader(h)
		assert.False(t, ok, h)
	}
}
