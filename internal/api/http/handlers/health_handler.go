package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soportia/helpdesk/internal/config"
	"github.com/soportia/helpdesk/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes. Postgres and
// Redis are hard dependencies; the messaging and storage collaborators are
// optional and only have their configuration state reported.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
	messagingOn bool
	storageOn   bool
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(cfg *config.Config, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{
		serviceName: cfg.App.Name,
		version:     cfg.App.Version,
		postgres:    postgres,
		redis:       redis,
		messagingOn: cfg.Messaging.APIURL != "",
		storageOn:   cfg.Storage.Endpoint != "" && cfg.Storage.Token != "",
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	checks := []struct {
		name string
		ping func(context.Context) error
	}{
		{"postgres", h.postgres.Ping},
		{"redis", h.redis.Ping},
	}
	for _, check := range checks {
		if err := check.ping(ctx); err != nil {
			depStatus[check.name] = err.Error()
			ready = false
		} else {
			depStatus[check.name] = "ok"
		}
	}

	depStatus["messaging"] = optionalState(h.messagingOn)
	depStatus["storage"] = optionalState(h.storageOn)

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

func optionalState(configured bool) string {
	if configured {
		return "configured"
	}
	return "disabled"
}
