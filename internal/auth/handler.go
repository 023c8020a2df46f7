package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mentora-learn/mentora/internal/account"
	"github.com/mentora-learn/mentora/internal/config"
	"github.com/mentora-learn/mentora/internal/otp"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	svc *Service
	cfg config.Config
}

// NewHandler builds an auth HTTP handler.
func NewHandler(svc *Service, cfg config.Config) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

type signupRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	DeviceID string          `json:"device_id"`
	Profile  account.Profile `json:"profile"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"device_id"`
}

type verifyRequest struct {
	Email          string `json:"email"`
	Code           string `json:"code"`
	DeviceID       string `json:"device_id"`
	RememberDevice bool   `json:"remember_device"`
}

type resendRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Status       string `json:"status"`
	UserID       string `json:"user_id,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	DeviceID     string `json:"device_id,omitempty"`
}

func sessionBody(res Result) sessionResponse {
	return sessionResponse{
		Status:       res.Status,
		UserID:       res.Account.ID,
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		ExpiresIn:    res.Tokens.ExpiresIn,
		DeviceID:     res.DeviceID,
	}
}

// SignUp registers an account and starts the verification flow.
func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.SignUp(c.UserContext(), SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Profile:  req.Profile,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		return mapAuthError(err)
	}
	return c.Status(http.StatusCreated).JSON(sessionBody(res))
}

// Login verifies credentials; the response says whether a code was emailed or
// a session was granted directly.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.Login(c.UserContext(), req.Email, req.Password, req.DeviceID)
	if err != nil {
		return mapAuthError(err)
	}
	return c.Status(http.StatusOK).JSON(sessionBody(res))
}

// VerifyOTP exchanges a valid emailed code for a session.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.VerifyOTP(c.UserContext(), req.Email, req.Code, req.DeviceID, req.RememberDevice)
	if err != nil {
		return mapAuthError(err)
	}
	return c.Status(http.StatusOK).JSON(sessionBody(res))
}

// ResendOTP emails a fresh code for a pending verification.
func (h *Handler) ResendOTP(c *fiber.Ctx) error {
	var req resendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ResendOTP(c.UserContext(), req.Email); err != nil {
		return mapAuthError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "sent"})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh issues a new access token using a valid refresh token.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	token, exp, err := h.svc.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"access_token": token, "expires_in": exp})
}

// Logout invalidates existing tokens for the authenticated account.
func (h *Handler) Logout(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "not authenticated")
	}
	if err := h.svc.Logout(c.UserContext(), uid); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "logged_out"})
}

// Status re-runs the approval check for the authenticated account.
func (h *Handler) Status(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "not authenticated")
	}
	status, err := h.svc.Status(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": status})
}

type forgetDeviceRequest struct {
	DeviceID string `json:"device_id"`
}

// ForgetDevice revokes the remember-device opt-in for the authenticated
// account on the given device.
func (h *Handler) ForgetDevice(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)
	if email == "" {
		return fiber.NewError(http.StatusUnauthorized, "not authenticated")
	}
	var req forgetDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.DeviceID == "" {
		return fiber.NewError(http.StatusBadRequest, "device_id is required")
	}
	if err := h.svc.ForgetDevice(c.UserContext(), req.DeviceID, email); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "forgotten"})
}

// OAuthRedirect sends the client to the configured provider authorize URL.
// Providers are configuration; an unconfigured provider degrades to a labeled
// unavailable response instead of an error page.
func (h *Handler) OAuthRedirect(c *fiber.Ctx) error {
	var target string
	switch c.Params("provider") {
	case "google":
		target = h.cfg.OAuthGoogleURL
	case "apple":
		target = h.cfg.OAuthAppleURL
	default:
		return fiber.NewError(http.StatusNotFound, "unknown provider")
	}
	if target == "" {
		return fiber.NewError(http.StatusServiceUnavailable, "oauth sign-in is not configured")
	}
	return c.Redirect(target, http.StatusFound)
}

func mapAuthError(err error) error {
	switch {
	case errors.Is(err, account.ErrInvalidCredentials),
		errors.Is(err, account.ErrEmailUnconfirmed):
		// Credential store messages are surfaced verbatim; they carry the
		// remediation hint.
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, account.ErrEmailTaken):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, otp.ErrInvalidOrExpired), errors.Is(err, otp.ErrNoPending):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, otp.ErrTooManyAttempts):
		return fiber.NewError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, otp.ErrSendFailed):
		return fiber.NewError(http.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
}
