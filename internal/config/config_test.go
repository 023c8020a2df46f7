package config

import (
	"testing"
	"time"
)

func TestLoadDevDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ApprovalPolicy != AdminApprove {
		t.Fatalf("expected admin-approve default, got %s", cfg.ApprovalPolicy)
	}
	if cfg.OTPTTL != 5*time.Minute {
		t.Fatalf("expected 5m otp ttl, got %s", cfg.OTPTTL)
	}
	if cfg.OTPMaxAttempts != 5 {
		t.Fatalf("expected 5 otp attempts, got %d", cfg.OTPMaxAttempts)
	}
	if cfg.JWTSecret == "" || cfg.RefreshSecret == "" {
		t.Fatalf("expected dev fallback secrets")
	}
	if !cfg.IsDev() {
		t.Fatalf("expected dev environment")
	}
}

func TestLoadProductionRequiresBackingStores(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s1")
	t.Setenv("REFRESH_SECRET", "s2")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/mentora")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without REDIS_URL")
	}

	t.Setenv("REDIS_URL", "redis://localhost:6379")
	if _, err := Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoadApprovalPolicy(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	t.Setenv("APPROVAL_POLICY", "auto")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ApprovalPolicy != AutoApprove {
		t.Fatalf("expected auto-approve, got %s", cfg.ApprovalPolicy)
	}

	t.Setenv("APPROVAL_POLICY", "whenever")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestLoadAdminEmails(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("ADMIN_EMAILS", "Admin@X.com, second@x.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.AdminEmails) != 2 {
		t.Fatalf("expected 2 admin emails, got %v", cfg.AdminEmails)
	}
	if cfg.AdminEmails[0] != "admin@x.com" {
		t.Fatalf("expected lowercased email, got %s", cfg.AdminEmails[0])
	}
}
