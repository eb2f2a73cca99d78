package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"go-rest-auth-starter/internal/health"
	"go-rest-auth-starter/internal/http/handler"
	"go-rest-auth-starter/internal/http/middleware"
	"go-rest-auth-starter/internal/http/response"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/security"
)

type Dependencies struct {
	AuthHandler                *handler.AuthHandler
	UserHandler                *handler.UserHandler
	JWTManager                 *security.JWTManager
	Users                      repository.UserRepository
	CORSOrigins                []string
	APIRateLimitRPM            int
	AuthRateLimitRPM           int
	PasswordForgotRateLimitRPM int
	Readiness                  *health.ProbeRunner
	EnableOTelHTTP             bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute).Middleware())

	authLimiter := middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute).Middleware()
	forgotLimiter := middleware.NewRateLimiter(dep.PasswordForgotRateLimitRPM, time.Minute).Middleware()
	requireAuth := middleware.AuthMiddleware(dep.JWTManager, dep.Users)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.JSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "unready", "checks": results})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/register", dep.AuthHandler.Register)
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(authLimiter).Post("/logout", dep.AuthHandler.Logout)
			r.With(authLimiter).Post("/refresh-tokens", dep.AuthHandler.RefreshTokens)
			r.With(forgotLimiter).Post("/forgot-password", dep.AuthHandler.ForgotPassword)
			r.With(authLimiter).Post("/reset-password", dep.AuthHandler.ResetPassword)
			r.With(requireAuth, authLimiter).Post("/send-verification-email", dep.AuthHandler.SendVerificationEmail)
			r.With(authLimiter).Post("/verify-email", dep.AuthHandler.VerifyEmail)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", dep.UserHandler.Create)
			r.Get("/", dep.UserHandler.List)
			r.Get("/{id}", dep.UserHandler.Get)
			r.Patch("/{id}", dep.UserHandler.Update)
			r.Delete("/{id}", dep.UserHandler.Delete)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
