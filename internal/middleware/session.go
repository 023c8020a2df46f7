package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mentora-learn/mentora/internal/account"
	"github.com/mentora-learn/mentora/internal/auth"
	"github.com/mentora-learn/mentora/internal/config"
)

// Session validates bearer access tokens and rejects tokens whose version was
// invalidated by a logout. On success the account id and email are stored in
// request locals.
func Session(cfg config.Config, repo account.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := auth.ParseAndVerify(tokenStr, cfg.JWTSecret)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		sub, _ := claims["sub"].(string)
		verFloat, _ := claims["ver"].(float64)

		acc, err := repo.FindByID(c.UserContext(), sub)
		if err != nil || acc.TokenVersion != int(verFloat) {
			return fiber.NewError(http.StatusUnauthorized, "token invalidated")
		}

		c.Locals("user_id", acc.ID)
		c.Locals("email", acc.Email)
		c.Locals("approved", acc.Approved)
		return c.Next()
	}
}

// RequireApproved blocks accounts still pending approval from protected
// application routes. Runs after Session.
func RequireApproved() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if approved, _ := c.Locals("approved").(bool); !approved {
			return fiber.NewError(http.StatusForbidden, "account pending approval")
		}
		return c.Next()
	}
}
