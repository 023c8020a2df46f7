package chat

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mentora-learn/mentora/internal/account"
)

// Handler exposes the AI assistant endpoint.
type Handler struct {
	svc      *Service
	accounts *account.Service
}

// NewHandler builds a chat HTTP handler.
func NewHandler(svc *Service, accounts *account.Service) *Handler {
	return &Handler{svc: svc, accounts: accounts}
}

type chatRequest struct {
	Messages []Message `json:"messages"`
}

// Complete proxies the conversation to the LLM, personalizing the system
// prompt with the authenticated student's profile.
func (h *Handler) Complete(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "not authenticated")
	}

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if len(req.Messages) == 0 {
		return fiber.NewError(http.StatusBadRequest, "messages are required")
	}

	var profile account.Profile
	if acc, err := h.accounts.Get(c.UserContext(), uid); err == nil {
		profile = acc.Profile
	}

	reply, err := h.svc.Complete(c.UserContext(), req.Messages, profile)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return fiber.NewError(http.StatusServiceUnavailable, err.Error())
		}
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"response": reply})
}
