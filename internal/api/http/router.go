package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soportia/helpdesk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Webhooks  *handlers.WebhookHandler
	Tickets   *handlers.TicketsHandler
	Dashboard *handlers.DashboardHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/webhooks/whatsapp", cfg.Webhooks.HandleWhatsApp)

	tickets := app.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)

	app.Get("/dashboard/stats", cfg.Dashboard.Stats)
}
