package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentora-learn/mentora/internal/approval"
)

// RegisterAdminRoutes wires the administrative approval endpoints. The gate's
// authorizer enforces who may act; the routes only require a session.
func RegisterAdminRoutes(r fiber.Router, h *approval.Handler) {
	group := r.Group("/admin")
	group.Get("/users", h.List)
	group.Post("/users/:id/approve", h.Approve)
	group.Post("/users/:id/revoke", h.Revoke)
}
