package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mentora-learn/mentora/internal/account"
	"github.com/mentora-learn/mentora/internal/approval"
	"github.com/mentora-learn/mentora/internal/auth"
	"github.com/mentora-learn/mentora/internal/chat"
	"github.com/mentora-learn/mentora/internal/config"
	"github.com/mentora-learn/mentora/internal/devicetrust"
	"github.com/mentora-learn/mentora/internal/mailer"
	"github.com/mentora-learn/mentora/internal/middleware"
	"github.com/mentora-learn/mentora/internal/otp"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce backing stores outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Repositories and stores: Postgres/Redis when configured, otherwise the
	// in-memory development fallbacks.
	var accountRepo account.Repository
	if d.DB != nil {
		accountRepo = account.NewPostgresRepository(d.DB)
	} else {
		accountRepo = account.NewMemoryRepository()
		d.Logger.Warn("no database configured, accounts are held in memory")
	}

	var challengeStore otp.ChallengeStore
	var trustStore devicetrust.TrustStore
	if d.Cache != nil {
		challengeStore = otp.NewRedisStore(d.Cache)
		trustStore = devicetrust.NewRedisStore(d.Cache, d.Cfg.DeviceTrustTTL)
	} else {
		challengeStore = otp.NewMemoryStore()
		trustStore = devicetrust.NewMemoryStore(d.Cfg.DeviceTrustTTL)
		d.Logger.Warn("no redis configured, otp challenges and device trust are held in memory")
	}

	var sender mailer.Sender
	if d.Cfg.OTPSenderURL != "" {
		sender = mailer.NewFunctionSender(d.Cfg.OTPSenderURL, d.Cfg.OTPSendTimeout)
	} else {
		sender = mailer.NewLogSender(d.Logger)
		d.Logger.Warn("no otp sender configured, codes are written to the log")
	}

	// Services and handlers.
	accountSvc := account.NewService(accountRepo, d.Cfg.RequireConfirmedMail)
	otpSvc := otp.NewService(challengeStore, sender, d.Cfg.OTPTTL, d.Cfg.OTPMaxAttempts)
	gate := approval.NewGate(accountRepo, d.Cfg.ApprovalPolicy, approval.NewAllowlist(d.Cfg.AdminEmails))
	authSvc := auth.NewService(d.Cfg, accountSvc, accountRepo, otpSvc, trustStore, gate, d.Logger)
	chatSvc := chat.NewService(d.Cfg)
	if !chatSvc.Enabled() {
		d.Logger.Warn("no chat api key configured, the ai assistant is disabled")
	}

	authHandler := auth.NewHandler(authSvc, d.Cfg)
	approvalHandler := approval.NewHandler(gate)
	chatHandler := chat.NewHandler(chatSvc, accountSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes.
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRatePerMinute)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Authenticated routes. The approval gate only guards the application
	// surface: auth status, logout and device management stay reachable for
	// pending accounts so the waiting screen can function.
	session := middleware.Session(d.Cfg, accountRepo)
	authed := api.Group("", session)
	RegisterSessionRoutes(authed, authHandler)

	// The admin surface is guarded by the gate's authorizer, not the approval
	// flag, so the first allowlisted administrator can approve accounts while
	// still pending itself.
	RegisterAdminRoutes(authed, approvalHandler)

	protected := authed.Group("", middleware.RequireApproved())
	RegisterMeRoutes(protected, accountSvc)
	RegisterChatRoutes(protected, chatHandler)

	return nil
}
