package approval

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mentora-learn/mentora/internal/account"
)

// Handler exposes the administrative approval endpoints.
type Handler struct {
	gate *Gate
}

// NewHandler builds an approval HTTP handler.
func NewHandler(gate *Gate) *Handler {
	return &Handler{gate: gate}
}

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Approved  bool       `json:"approved"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// List returns every account with its approval state.
func (h *Handler) List(c *fiber.Ctx) error {
	accounts, err := h.gate.List(c.UserContext(), actorEmail(c))
	if err != nil {
		return toHTTPError(err)
	}
	users := make([]userResponse, 0, len(accounts))
	for _, acc := range accounts {
		u := userResponse{
			ID:        acc.ID,
			Email:     acc.Email,
			FullName:  acc.Profile.FullName,
			Approved:  acc.Approved,
			CreatedAt: acc.CreatedAt,
		}
		// Accounts that never completed a login have no last_login.
		if !acc.LastLogin.IsZero() {
			last := acc.LastLogin
			u.LastLogin = &last
		}
		users = append(users, u)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"users": users})
}

// Approve grants application access to the account in the path.
func (h *Handler) Approve(c *fiber.Ctx) error {
	if err := h.gate.Approve(c.UserContext(), actorEmail(c), c.Params("id")); err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "approved"})
}

// Revoke returns the account in the path to the pending state.
func (h *Handler) Revoke(c *fiber.Ctx) error {
	if err := h.gate.Revoke(c.UserContext(), actorEmail(c), c.Params("id")); err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "revoked"})
}

func actorEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("email").(string)
	return email
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNotAuthorized):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, account.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
