package logger

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("Console Format", func(t *testing.T) {
		logg, err := New(&Config{Level: "info", Format: "console"})
		require.NoError(t, err)
		assert.NotNil(t, logg)
	})

	t.Run("Debug Level", func(t *testing.T) {
		logg, err := New(&Config{Level: "debug", Format: "json"})
		require.NoError(t, err)
		assert.True(t, logg.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("Unwritable Mirror File", func(t *testing.T) {
		cfg := &Config{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(t.TempDir(), "missing", "operations.log"),
		}
		_, err := New(cfg)
		assert.Error(t, err)
	})
}

func TestNewTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operations.log")

	logg, err := New(&Config{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	logg.Info("import started", zap.String("run_id", "run-1"))
	_ = logg.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"import started"`)
	assert.Contains(t, string(data), `"run_id":"run-1"`)
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("ray_id", "r-123")
		return c.Next()
	})
	app.Get("/", func(c *fiber.Ctx) error {
		WithRayID(base, c).Info("handled")
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "r-123", entries[0].ContextMap()["ray_id"])
}

func TestWithRayIDWithoutLocal(t *testing.T) {
	base := zap.NewNop()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Same(t, base, WithRayID(base, c))
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
