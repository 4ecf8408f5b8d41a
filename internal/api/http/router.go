package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repairdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/repairdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Board          *handlers.BoardHandler
	Storage        *handlers.StorageHandler
	Portal         *handlers.PortalHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Get("/portal/tickets/:barcodeData", cfg.Portal.GetTicketStatus)

	api := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/number/:number", cfg.Tickets.GetTicketByNumber)
	tickets.Get("/search/:barcode", cfg.Tickets.SearchByBarcode)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Patch("/:id/status", cfg.Tickets.TransitionTicket)
	tickets.Delete("/:id", auth.RequireRole(auth.RoleManager, auth.RoleAdmin), cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/notes", cfg.Tickets.AddNote)
	tickets.Post("/:id/time", cfg.Tickets.AddTimeEntry)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)
	tickets.Get("/:id/timeline", cfg.Tickets.Timeline)

	api.Get("/board", cfg.Board.GetBoard)
	api.Post("/board/move", cfg.Board.MoveTicket)

	api.Get("/storage-locations", cfg.Storage.ListLocations)
	api.Post("/storage-locations", auth.RequireRole(auth.RoleManager, auth.RoleAdmin), cfg.Storage.CreateLocation)
}
