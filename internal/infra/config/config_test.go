package config

import (
	"net/http"
	"testing"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
)

func setCognitoEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("TOKEN_PROVIDER", "cognito")
	t.Setenv("COGNITO_USER_POOL_ID", "us-east-2_pool")
	t.Setenv("COGNITO_CLIENT_ID", "client")
	t.Setenv("COGNITO_REGION", "us-east-2")
}

func TestLoad_Success(t *testing.T) {
	setCognitoEnv(t)
	t.Setenv("JWT_ACCESS_EXPIRY", "2m")
	t.Setenv("JWT_REFRESH_EXPIRY", "3h")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("COOKIE_SAME_SITE", "strict")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("PRODUCTION", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AccessTokenTTL != 2*time.Minute {
		t.Fatalf("AccessTokenTTL want 2m, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 3*time.Hour {
		t.Fatalf("RefreshTokenTTL want 3h, got %v", cfg.RefreshTokenTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("AllowedOrigins: %v", cfg.AllowedOrigins)
	}
	if cfg.CookieSameSite != http.SameSiteStrictMode || !cfg.CookieSecure {
		t.Fatalf("cookie settings: %v %v", cfg.CookieSameSite, cfg.CookieSecure)
	}
	if !cfg.Production || !cfg.AllowCredentials {
		t.Fatal("expected production and credentials enabled")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setCognitoEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddress != ":3000" || cfg.DBPoolSize != 10 {
		t.Fatalf("defaults: %q %d", cfg.HTTPAddress, cfg.DBPoolSize)
	}
	if cfg.ProviderTimeout != 10*time.Second {
		t.Fatalf("ProviderTimeout: %v", cfg.ProviderTimeout)
	}
	if cfg.RedisAddress != "" {
		t.Fatal("redis must be optional")
	}
}

func TestLoad_JSONOrigins(t *testing.T) {
	setCognitoEnv(t)
	t.Setenv("ALLOWED_ORIGINS", `["https://app.example.com"]`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 1 {
		t.Fatalf("AllowedOrigins: %v", cfg.AllowedOrigins)
	}
}

func TestLoad_MissingCognito(t *testing.T) {
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("TOKEN_PROVIDER", "cognito")
	t.Setenv("COGNITO_USER_POOL_ID", "")
	t.Setenv("COGNITO_CLIENT_ID", "client")
	t.Setenv("COGNITO_REGION", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error due to missing cognito settings, got nil")
	}
	if !customErrors.IsInvalidArgument(err) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}

func TestLoad_MissingDatabase(t *testing.T) {
	setCognitoEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error due to missing DATABASE_URL, got nil")
	}
}

func TestLoad_LocalProviderNeedsSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("TOKEN_PROVIDER", "local")
	t.Setenv("JWT_ACCESS_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "")
	t.Setenv("JWT_ISSUER", "iss")
	t.Setenv("JWT_AUDIENCE", "aud")

	if _, err := Load(); err == nil {
		t.Fatal("expected error due to missing JWT_REFRESH_SECRET, got nil")
	}

	t.Setenv("JWT_REFRESH_SECRET", "r")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TokenProvider != ProviderLocal {
		t.Fatalf("provider: %s", cfg.TokenProvider)
	}
}

func TestLoad_BadValues(t *testing.T) {
	setCognitoEnv(t)
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected duration error")
	}

	t.Setenv("JWT_ACCESS_EXPIRY", "15m")
	t.Setenv("COOKIE_SAME_SITE", "sometimes")
	if _, err := Load(); err == nil {
		t.Fatal("expected same-site error")
	}

	t.Setenv("COOKIE_SAME_SITE", "lax")
	t.Setenv("TOKEN_PROVIDER", "ldap")
	if _, err := Load(); err == nil {
		t.Fatal("expected provider error")
	}
}
