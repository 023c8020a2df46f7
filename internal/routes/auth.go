package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentora-learn/mentora/internal/auth"
)

// RegisterAuthRoutes wires the public authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/signup", h.SignUp)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
		group.Post("/otp/verify", rateLimiter, h.VerifyOTP)
	} else {
		group.Post("/login", h.Login)
		group.Post("/otp/verify", h.VerifyOTP)
	}
	group.Post("/otp/resend", h.ResendOTP)
	group.Post("/refresh", h.Refresh)
	group.Get("/oauth/:provider", h.OAuthRedirect)
}

// RegisterSessionRoutes wires the authenticated auth endpoints that must stay
// reachable for accounts still pending approval.
func RegisterSessionRoutes(r fiber.Router, h *auth.Handler) {
	group := r.Group("/auth")
	group.Get("/status", h.Status)
	group.Post("/logout", h.Logout)
	group.Post("/device/forget", h.ForgetDevice)
}
