package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-rest-auth-starter/internal/config"
	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/health"
	"go-rest-auth-starter/internal/http/handler"
	"go-rest-auth-starter/internal/http/router"
	"go-rest-auth-starter/internal/observability"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/security"
	"go-rest-auth-starter/internal/service"
)

func provideObservability(ctx context.Context, cfg *config.Config) (*observability.Runtime, error) {
	return observability.InitRuntime(ctx, cfg)
}

func provideLogger(runtime *observability.Runtime) *slog.Logger {
	slog.SetDefault(runtime.Logger)
	return runtime.Logger
}

func provideDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.RevokedToken{}, &domain.VerificationToken{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database ready", "driver", dialector.Name())
	return db, nil
}

// provideRedis returns nil when no address is configured; the blacklist then
// falls back to its database implementation.
func provideRedis(cfg *config.Config) redis.UniversalClient {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

func provideBlacklist(client redis.UniversalClient, repo repository.BlacklistRepository) service.TokenBlacklist {
	if client != nil {
		return service.NewRedisTokenBlacklist(client, "token_blacklist")
	}
	return service.NewDBTokenBlacklist(repo)
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
}

func provideMailSender(cfg *config.Config, logger *slog.Logger) service.MailSender {
	if cfg.SMTPHost == "" {
		return service.NewLogSender(logger)
	}
	return service.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
}

func provideEmailService(cfg *config.Config, sender service.MailSender, logger *slog.Logger) *service.EmailService {
	return service.NewEmailService(sender, cfg.FrontendURL, logger)
}

func provideAuthService(
	cfg *config.Config,
	users repository.UserRepository,
	verification *service.VerificationTokenService,
	email *service.EmailService,
	logger *slog.Logger,
) *service.AuthService {
	return service.NewAuthService(users, verification, email, cfg.ResetPasswordTTL, cfg.VerifyEmailTTL, logger)
}

func provideTokenService(
	cfg *config.Config,
	jwtMgr *security.JWTManager,
	blacklist service.TokenBlacklist,
	users repository.UserRepository,
) *service.TokenService {
	return service.NewTokenService(jwtMgr, blacklist, users, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

func provideReadiness(db *gorm.DB, client redis.UniversalClient) *health.ProbeRunner {
	checks := []health.Check{health.DatabaseCheck(db)}
	if client != nil {
		checks = append(checks, health.RedisCheck(client))
	}
	return health.NewProbeRunner(2*time.Second, checks...)
}

func provideJanitor(cfg *config.Config, repo repository.BlacklistRepository, logger *slog.Logger) *Janitor {
	return NewJanitor(cfg.BlacklistCleanupTick, repo, logger)
}

func provideRouter(
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	jwtMgr *security.JWTManager,
	users repository.UserRepository,
	readiness *health.ProbeRunner,
) http.Handler {
	return router.NewRouter(router.Dependencies{
		AuthHandler:                authHandler,
		UserHandler:                userHandler,
		JWTManager:                 jwtMgr,
		Users:                      users,
		CORSOrigins:                cfg.CORSOrigins,
		APIRateLimitRPM:            cfg.APIRateLimitRPM,
		AuthRateLimitRPM:           cfg.AuthRateLimitRPM,
		PasswordForgotRateLimitRPM: cfg.PasswordForgotRateLimitRPM,
		Readiness:                  readiness,
		EnableOTelHTTP:             cfg.OTELTracesEnabled,
	})
}

func provideServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
