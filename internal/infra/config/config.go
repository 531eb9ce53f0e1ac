package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderCognito = "cognito"
	ProviderLocal   = "local"
)

type Config struct {
	HTTPAddress string
	Production  bool
	LogLevel    string

	DatabaseURL       string
	DBPoolSize        int
	DBConnMaxLifetime time.Duration

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	AllowedOrigins   []string
	AllowCredentials bool
	CookieDomain     string
	CookieSecure     bool
	CookieSameSite   http.SameSite

	TokenProvider       string
	CognitoUserPoolID   string
	CognitoClientID     string
	CognitoClientSecret string
	CognitoRegion       string
	ProviderTimeout     time.Duration

	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	Issuer           string
	Audience         string
	PasswordPepper   string

	RateLimitRPS   int
	RateLimitBurst int
}

// Load reads .env (if any), then config.json (if any), then the environment.
// Missing required settings are reported together as one invalid-argument
// error; the caller must not start.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDRESS", ":3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_POOL_SIZE", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("ALLOW_CREDENTIALS", true)
	v.SetDefault("COOKIE_SAME_SITE", "lax")
	v.SetDefault("TOKEN_PROVIDER", ProviderCognito)
	v.SetDefault("PROVIDER_TIMEOUT", "10s")
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRY", "168h")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("Error reading config file, %w", err)
		}
	}

	cfg := &Config{
		HTTPAddress:         v.GetString("HTTP_ADDRESS"),
		Production:          v.GetBool("PRODUCTION"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		DBPoolSize:          v.GetInt("DB_POOL_SIZE"),
		RedisAddress:        v.GetString("REDIS_ADDRESS"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		AllowCredentials:    v.GetBool("ALLOW_CREDENTIALS"),
		CookieDomain:        v.GetString("COOKIE_DOMAIN"),
		CookieSecure:        v.GetBool("COOKIE_SECURE"),
		TokenProvider:       strings.ToLower(v.GetString("TOKEN_PROVIDER")),
		CognitoUserPoolID:   v.GetString("COGNITO_USER_POOL_ID"),
		CognitoClientID:     v.GetString("COGNITO_CLIENT_ID"),
		CognitoClientSecret: v.GetString("COGNITO_CLIENT_SECRET"),
		CognitoRegion:       v.GetString("COGNITO_REGION"),
		JWTAccessSecret:     v.GetString("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:    v.GetString("JWT_REFRESH_SECRET"),
		Issuer:              v.GetString("JWT_ISSUER"),
		Audience:            v.GetString("JWT_AUDIENCE"),
		PasswordPepper:      v.GetString("PASSWORD_PEPPER"),
		RateLimitRPS:        v.GetInt("RATE_LIMIT_RPS"),
		RateLimitBurst:      v.GetInt("RATE_LIMIT_BURST"),
	}

	var err error
	if cfg.AllowedOrigins, err = parseList(v.GetString("ALLOWED_ORIGINS")); err != nil {
		return nil, customErrors.NewInvalidArgument("ALLOWED_ORIGINS: " + err.Error())
	}
	if cfg.CookieSameSite, err = parseSameSite(v.GetString("COOKIE_SAME_SITE")); err != nil {
		return nil, err
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"DB_CONN_MAX_LIFETIME", &cfg.DBConnMaxLifetime},
		{"PROVIDER_TIMEOUT", &cfg.ProviderTimeout},
		{"JWT_ACCESS_EXPIRY", &cfg.AccessTokenTTL},
		{"JWT_REFRESH_EXPIRY", &cfg.RefreshTokenTTL},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil || parsed <= 0 {
			return nil, customErrors.NewInvalidArgument(fmt.Sprintf("%s must be a positive duration", d.key))
		}
		*d.dst = parsed
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	require := func(key, val string) {
		if val == "" {
			missing = append(missing, key)
		}
	}

	require("DATABASE_URL", c.DatabaseURL)

	switch c.TokenProvider {
	case ProviderCognito:
		require("COGNITO_USER_POOL_ID", c.CognitoUserPoolID)
		require("COGNITO_CLIENT_ID", c.CognitoClientID)
		require("COGNITO_REGION", c.CognitoRegion)
	case ProviderLocal:
		require("JWT_ACCESS_SECRET", c.JWTAccessSecret)
		require("JWT_REFRESH_SECRET", c.JWTRefreshSecret)
		require("JWT_ISSUER", c.Issuer)
		require("JWT_AUDIENCE", c.Audience)
	default:
		return customErrors.NewInvalidArgument(fmt.Sprintf("TOKEN_PROVIDER %q is not one of %s, %s", c.TokenProvider, ProviderCognito, ProviderLocal))
	}

	if len(missing) > 0 {
		return customErrors.NewInvalidArgument("missing required settings: " + strings.Join(missing, ", "))
	}
	if c.DBPoolSize <= 0 {
		return customErrors.NewInvalidArgument("DB_POOL_SIZE must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return customErrors.NewInvalidArgument("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// parseList accepts either a JSON array or a comma separated list.
func parseList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func parseSameSite(raw string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, customErrors.NewInvalidArgument(fmt.Sprintf("COOKIE_SAME_SITE %q is not lax, strict or none", raw))
	}
}
