package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mentora-learn/mentora/internal/account"
)

// RegisterMeRoutes wires the profile endpoints for the authenticated student.
func RegisterMeRoutes(r fiber.Router, accounts *account.Service) {
	r.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		acc, err := accounts.Get(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "account not found")
		}
		return c.JSON(fiber.Map{
			"user_id":    acc.ID,
			"email":      acc.Email,
			"profile":    acc.Profile,
			"approved":   acc.Approved,
			"created_at": acc.CreatedAt,
			"last_login": acc.LastLogin,
		})
	})

	// Onboarding writes the education profile collected after sign-up.
	r.Put("/me/profile", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		var profile account.Profile
		if err := c.BodyParser(&profile); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := accounts.UpdateProfile(c.UserContext(), uid, profile); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "updated"})
	})
}
