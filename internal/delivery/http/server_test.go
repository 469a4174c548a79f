package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/address-tiles/internal/config"
	"github.com/address-tiles/internal/delivery/http/handler"
	"github.com/address-tiles/internal/pkg/errors"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) Health(ctx context.Context) error { return f(ctx) }

func newTestServer(checks map[string]HealthChecker) *Server {
	return NewServer(&config.Config{}, zap.NewNop(), handler.NewTileHandler(nil, zap.NewNop()), checks)
}

func get(t *testing.T, s *Server, path string) (int, map[string]interface{}) {
	t.Helper()

	resp, err := s.App().Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestHealth_AllDependenciesUp(t *testing.T) {
	ok := checkFunc(func(context.Context) error { return nil })
	s := newTestServer(map[string]HealthChecker{"postgres": ok, "redis": ok})

	status, body := get(t, s, "/api/v1/health")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]interface{}{"postgres": "ok", "redis": "ok"}, body["dependencies"])
}

func TestHealth_DependencyDown(t *testing.T) {
	s := newTestServer(map[string]HealthChecker{
		"postgres": checkFunc(func(context.Context) error { return nil }),
		"redis":    checkFunc(func(context.Context) error { return fmt.Errorf("connection refused") }),
	})

	status, body := get(t, s, "/api/v1/health")

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "connection refused", body["dependencies"].(map[string]interface{})["redis"])
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(nil)

	status, body := get(t, s, "/api/v1/unknown")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]interface{})["code"])
}

func TestCustomErrorHandler_AppError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: customErrorHandler(zap.NewNop())})
	app.Get("/", func(c *fiber.Ctx) error {
		return fmt.Errorf("load street: %w", errors.ErrStreetNotFound)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInvalidIDRejectedBeforeService(t *testing.T) {
	s := newTestServer(nil)

	status, body := get(t, s, "/api/v1/voies/not-a-uuid/tiles")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REQUEST", body["error"].(map[string]interface{})["code"])
}
