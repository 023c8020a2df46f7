package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentora-learn/mentora/internal/chat"
)

// RegisterChatRoutes wires the AI assistant endpoint.
func RegisterChatRoutes(r fiber.Router, h *chat.Handler) {
	r.Post("/chat", h.Complete)
}
