package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Gestion-api/internal/interfaces/http"
)

func TestUseMiddleware_LogsPanicAs500(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(zerolog.Nop())})
	apphttp.UseMiddleware(app, log)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("falla inesperada")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "request", entry["message"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.EqualValues(t, http.StatusInternalServerError, entry["status"])
}

func TestUseMiddleware_LogsClientErrorAsWarn(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(zerolog.Nop())})
	apphttp.UseMiddleware(app, zerolog.New(&buf))
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.EqualValues(t, http.StatusNotFound, entry["status"])
}
