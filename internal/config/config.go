package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DatabaseURL string
	RedisAddr   string

	JWTIssuer            string
	JWTAudience          string
	JWTAccessSecret      string
	JWTRefreshSecret     string
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	ResetPasswordTTL     time.Duration
	VerifyEmailTTL       time.Duration
	BlacklistCleanupTick time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	FrontendURL  string

	CORSOrigins                []string
	APIRateLimitRPM            int
	AuthRateLimitRPM           int
	PasswordForgotRateLimitRPM int

	OTELServiceName           string
	OTELEnvironment           string
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELMetricsEnabled        bool
	OTELTracesEnabled         bool
	OTELLogsEnabled           bool
	OTELMetricsExportInterval time.Duration

	ShutdownTimeout              time.Duration
	ShutdownHTTPDrainTimeout     time.Duration
	ShutdownObservabilityTimeout time.Duration
}

// Load reads configuration from the environment, with an optional .env file
// for local development. Every value the token issuer and verification token
// manager need is carried here explicitly and injected at construction.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnvInt("PORT", 8080),

		DatabaseURL: getEnv("DATABASE_URL", "file:dev.db?cache=shared"),
		RedisAddr:   getEnv("REDIS_ADDR", ""),

		JWTIssuer:            getEnv("JWT_ISSUER", "go-rest-auth-starter"),
		JWTAudience:          getEnv("JWT_AUDIENCE", "go-rest-auth-starter"),
		JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret:     getEnv("JWT_REFRESH_SECRET", ""),
		AccessTokenTTL:       time.Duration(getEnvInt("JWT_ACCESS_EXPIRATION_MINUTES", 30)) * time.Minute,
		RefreshTokenTTL:      time.Duration(getEnvInt("JWT_REFRESH_EXPIRATION_DAYS", 30)) * 24 * time.Hour,
		ResetPasswordTTL:     time.Duration(getEnvInt("JWT_RESET_PASSWORD_EXPIRATION_MINUTES", 10)) * time.Minute,
		VerifyEmailTTL:       time.Duration(getEnvInt("JWT_VERIFY_EMAIL_EXPIRATION_MINUTES", 10)) * time.Minute,
		BlacklistCleanupTick: getEnvDuration("BLACKLIST_CLEANUP_INTERVAL", time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "support@example.com"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),

		CORSOrigins:                getEnvList("CORS_ORIGINS", []string{"*"}),
		APIRateLimitRPM:            getEnvInt("API_RATE_LIMIT_RPM", 600),
		AuthRateLimitRPM:           getEnvInt("AUTH_RATE_LIMIT_RPM", 60),
		PasswordForgotRateLimitRPM: getEnvInt("PASSWORD_FORGOT_RATE_LIMIT_RPM", 10),

		OTELServiceName:           getEnv("OTEL_SERVICE_NAME", "go-rest-auth-starter"),
		OTELEnvironment:           getEnv("OTEL_ENVIRONMENT", "development"),
		OTELExporterOTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELExporterOTLPInsecure:  getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELMetricsEnabled:        getEnvBool("OTEL_METRICS_ENABLED", false),
		OTELTracesEnabled:         getEnvBool("OTEL_TRACES_ENABLED", false),
		OTELLogsEnabled:           getEnvBool("OTEL_LOGS_ENABLED", false),
		OTELMetricsExportInterval: getEnvDuration("OTEL_METRICS_EXPORT_INTERVAL", 30*time.Second),

		ShutdownTimeout:              getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		ShutdownHTTPDrainTimeout:     getEnvDuration("SHUTDOWN_HTTP_DRAIN_TIMEOUT", 5*time.Second),
		ShutdownObservabilityTimeout: getEnvDuration("SHUTDOWN_OBSERVABILITY_TIMEOUT", 5*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTAccessSecret == "" || c.JWTRefreshSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	if len(c.JWTAccessSecret) < 32 || len(c.JWTRefreshSecret) < 32 {
		return fmt.Errorf("JWT secrets must be at least 32 bytes")
	}
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return fmt.Errorf("JWT access and refresh secrets must differ")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if c.ResetPasswordTTL <= 0 || c.VerifyEmailTTL <= 0 {
		return fmt.Errorf("verification token lifetimes must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func (c *Config) IsProduction() bool { return strings.EqualFold(c.Env, "production") }

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
