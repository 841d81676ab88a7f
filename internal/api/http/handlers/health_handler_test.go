package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soportia/helpdesk/internal/config"
)

func healthConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "helpdesk-service", Version: "test"},
		Messaging: config.MessagingConfig{
			APIURL: "https://bot.example/v1/messages",
		},
	}
}

func TestLiveReportsServiceIdentity(t *testing.T) {
	handler := NewHealthHandler(healthConfig(), nil, nil)
	app := fiber.New()
	app.Get("/health/live", handler.Live)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "helpdesk-service", body["service"])
	assert.Equal(t, "test", body["version"])
}

func TestReadyReportsHardAndOptionalDependencies(t *testing.T) {
	// Nil wrappers behave like unreachable Postgres/Redis; messaging is
	// configured while blob storage is not.
	handler := NewHealthHandler(healthConfig(), nil, nil)
	app := fiber.New()
	app.Get("/health/ready", handler.Ready)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", body.Error.Code)
	assert.NotEqual(t, "ok", body.Error.Details["postgres"])
	assert.NotEqual(t, "ok", body.Error.Details["redis"])
	assert.Equal(t, "configured", body.Error.Details["messaging"])
	assert.Equal(t, "disabled", body.Error.Details["storage"])
}
