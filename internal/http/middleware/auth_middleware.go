package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/http/response"
	"go-rest-auth-starter/internal/observability"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/security"
)

type contextKey string

const (
	ClaimsContextKey contextKey = "claims"
	UserContextKey   contextKey = "user"
)

// AuthMiddleware validates the bearer access token and loads the account it
// belongs to. Every failure collapses into a single 401 so callers cannot
// probe which step rejected them.
func AuthMiddleware(jwtMgr *security.JWTManager, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				raw = strings.TrimSpace(auth[7:])
			}
			if raw == "" {
				observability.RecordAccessTokenValidation("missing")
				response.Error(w, r, http.StatusUnauthorized, "Please authenticate")
				return
			}
			claims, err := jwtMgr.ParseAccessToken(raw)
			if err != nil {
				observability.RecordAccessTokenValidation("invalid")
				response.Error(w, r, http.StatusUnauthorized, "Please authenticate")
				return
			}
			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				observability.RecordAccessTokenValidation("invalid")
				response.Error(w, r, http.StatusUnauthorized, "Please authenticate")
				return
			}
			user, err := users.FindByID(userID)
			if err != nil {
				observability.RecordAccessTokenValidation("unknown_user")
				response.Error(w, r, http.StatusUnauthorized, "Please authenticate")
				return
			}
			observability.RecordAccessTokenValidation("valid")
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			ctx = context.WithValue(ctx, UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	c, ok := ctx.Value(ClaimsContextKey).(*security.Claims)
	return c, ok
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*domain.User)
	return u, ok
}
