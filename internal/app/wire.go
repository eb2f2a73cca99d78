//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"go-rest-auth-starter/internal/config"
	"go-rest-auth-starter/internal/http/handler"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/service"
)

func InitializeApp(ctx context.Context) (*App, error) {
	wire.Build(
		config.Load,
		provideObservability,
		provideLogger,
		provideDB,
		provideRedis,
		repository.NewUserRepository,
		repository.NewBlacklistRepository,
		repository.NewVerificationTokenRepository,
		provideBlacklist,
		provideJWTManager,
		provideMailSender,
		provideEmailService,
		service.NewVerificationTokenService,
		provideAuthService,
		provideTokenService,
		service.NewUserService,
		handler.NewAuthHandler,
		handler.NewUserHandler,
		provideReadiness,
		provideJanitor,
		provideRouter,
		provideServer,
		New,
	)
	return nil, nil
}
