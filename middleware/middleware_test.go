package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/apierr"
	"catalog/models"
)

type stubUsers map[string]*models.User

func (s stubUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, apierr.Unauthenticated()
}

func newApp(t *testing.T, handlers ...fiber.Handler) (*fiber.App, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	app := fiber.New(fiber.Config{ErrorHandler: apierr.Handler(log)})
	for _, h := range handlers {
		app.Use(h)
	}
	return app, hook
}

func TestAuthenticate(t *testing.T) {
	users := stubUsers{"good": {ID: 7, Email: "admin@example.com", Roles: []string{models.RoleAdmin}}}
	app, _ := newApp(t, Authenticate(users))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		caller := Caller(c)
		if caller == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(caller.Email)
	})

	tests := []struct {
		name   string
		token  string
		status int
		body   string
	}{
		{name: "no header", status: fiber.StatusOK, body: "anonymous"},
		{name: "valid token", token: "good", status: fiber.StatusOK, body: "admin@example.com"},
		{name: "unknown token", token: "bad", status: fiber.StatusUnauthorized, body: `{"message":"Invalid credentials."}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
			if tt.token != "" {
				req.Header.Set(TokenHeader, tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	app := fiber.New(fiber.Config{ErrorHandler: apierr.Handler(log)})
	app.Use(RequestID(), RequestLogger(log))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return apierr.NotFound(errors.New("gone")) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, fiber.StatusOK, entry.Data["status"])
	assert.Equal(t, "/ok", entry.Data["path"])
	assert.Equal(t, resp.Header.Get(fiber.HeaderXRequestID), entry.Data["request_id"])

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, fiber.StatusNotFound, hook.LastEntry().Data["status"])
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	log, _ := test.NewNullLogger()
	app := fiber.New(fiber.Config{ErrorHandler: apierr.Handler(log)})
	app.Use(m.Handler(), RequestLogger(log))
	app.Get("/metrics", m.Endpoint())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString(c.Params("id")) })

	for _, id := range []string{"1", "2"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/items/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	assert.True(t, strings.Contains(text, `catalog_http_requests_total{method="GET",route="/items/:id",status="200"} 2`), text)
	assert.Contains(t, text, "catalog_http_request_duration_seconds_bucket")
}

func TestMetrics_UnrenderedErrors(t *testing.T) {
	m := NewMetrics()
	app, _ := newApp(t, m.Handler())
	app.Get("/metrics", m.Endpoint())
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fmt.Errorf("lookup: %w", apierr.NotFound(errors.New("gone")))
	})
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.ErrTeapot })

	for _, target := range []string{"/missing", "/teapot"} {
		_, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
		require.NoError(t, err)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `catalog_http_requests_total{method="GET",route="/missing",status="404"} 1`)
	assert.Contains(t, string(body), `catalog_http_requests_total{method="GET",route="/teapot",status="418"} 1`)
}
