package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName       = "Mentora"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultShutdownDelay = 10 * time.Second

	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour

	defaultOTPTTL         = 5 * time.Minute
	defaultOTPMaxAttempts = 5
	defaultSendTimeout    = 15 * time.Second
	defaultTrustTTL       = 30 * 24 * time.Hour

	defaultChatAPIURL = "https://api.openai.com/v1/chat/completions"
	defaultChatModel  = "gpt-4o-mini"
)

// ApprovalPolicy selects how new accounts obtain access.
type ApprovalPolicy string

const (
	// AutoApprove grants access to every account at sign-up.
	AutoApprove ApprovalPolicy = "auto"
	// AdminApprove holds accounts in a pending state until an administrator
	// approves them.
	AdminApprove ApprovalPolicy = "admin"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration

	JWTSecret       string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	ApprovalPolicy       ApprovalPolicy
	AdminEmails          []string
	RequireConfirmedMail bool

	OTPTTL         time.Duration
	OTPMaxAttempts int
	OTPSenderURL   string
	OTPSendTimeout time.Duration
	DeviceTrustTTL time.Duration

	LoginRatePerMinute int

	ChatAPIKey string
	ChatAPIURL string
	ChatModel  string

	OAuthGoogleURL string
	OAuthAppleURL  string
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,

		JWTSecret:       os.Getenv("JWT_SECRET"),
		RefreshSecret:   os.Getenv("REFRESH_SECRET"),
		AccessTokenTTL:  defaultAccessTokenTTL,
		RefreshTokenTTL: defaultRefreshTokenTTL,

		ApprovalPolicy:       AdminApprove,
		RequireConfirmedMail: getEnv("REQUIRE_CONFIRMED_EMAIL", "false") == "true",

		OTPTTL:         defaultOTPTTL,
		OTPMaxAttempts: defaultOTPMaxAttempts,
		OTPSenderURL:   os.Getenv("OTP_SENDER_URL"),
		OTPSendTimeout: defaultSendTimeout,
		DeviceTrustTTL: defaultTrustTTL,

		LoginRatePerMinute: 5,

		ChatAPIKey: os.Getenv("CHAT_API_KEY"),
		ChatAPIURL: getEnv("CHAT_API_URL", defaultChatAPIURL),
		ChatModel:  getEnv("CHAT_MODEL", defaultChatModel),

		OAuthGoogleURL: os.Getenv("OAUTH_GOOGLE_URL"),
		OAuthAppleURL:  os.Getenv("OAUTH_APPLE_URL"),
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownPeriod = d
	}

	for _, pair := range []struct {
		env string
		dst *time.Duration
	}{
		{"ACCESS_TOKEN_TTL", &cfg.AccessTokenTTL},
		{"REFRESH_TOKEN_TTL", &cfg.RefreshTokenTTL},
		{"OTP_TTL", &cfg.OTPTTL},
		{"OTP_SEND_TIMEOUT", &cfg.OTPSendTimeout},
		{"DEVICE_TRUST_TTL", &cfg.DeviceTrustTTL},
	} {
		if v := os.Getenv(pair.env); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", pair.env, err)
			}
			*pair.dst = d
		}
	}

	if v := os.Getenv("OTP_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid OTP_MAX_ATTEMPTS: %q", v)
		}
		cfg.OTPMaxAttempts = n
	}

	if v := os.Getenv("LOGIN_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE: %q", v)
		}
		cfg.LoginRatePerMinute = n
	}

	switch p := ApprovalPolicy(strings.ToLower(getEnv("APPROVAL_POLICY", string(AdminApprove)))); p {
	case AutoApprove, AdminApprove:
		cfg.ApprovalPolicy = p
	default:
		return Config{}, fmt.Errorf("invalid APPROVAL_POLICY: %q (want %q or %q)", p, AutoApprove, AdminApprove)
	}

	if v := os.Getenv("ADMIN_EMAILS"); v != "" {
		for _, email := range strings.Split(v, ",") {
			if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
				cfg.AdminEmails = append(cfg.AdminEmails, email)
			}
		}
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", cfg.AppEnv)
		}
		cfg.JWTSecret = "dev-insecure-access-secret"
	}
	if cfg.RefreshSecret == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("REFRESH_SECRET must be set when APP_ENV=%s", cfg.AppEnv)
		}
		cfg.RefreshSecret = "dev-insecure-refresh-secret"
	}

	// Postgres and Redis are mandatory outside development; in development the
	// service falls back to in-memory stores so it can run without them.
	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
