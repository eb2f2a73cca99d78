package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/security"
)

type emptyUserRepo struct{}

func (emptyUserRepo) FindByID(uuid.UUID) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

func (emptyUserRepo) FindByEmail(string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

func (emptyUserRepo) Create(*domain.User) error { return nil }
func (emptyUserRepo) Update(*domain.User) error { return nil }
func (emptyUserRepo) Delete(uuid.UUID) error    { return nil }

func (emptyUserRepo) ListPaged(repository.UserListQuery) (repository.PageResult[domain.User], error) {
	return repository.PageResult[domain.User]{}, nil
}

func newTestRouter() http.Handler {
	jwtMgr := security.NewJWTManager(
		"iss",
		"aud",
		"abcdefghijklmnopqrstuvwxyz123456",
		"abcdefghijklmnopqrstuvwxyz654321",
	)
	return NewRouter(Dependencies{
		JWTManager:                 jwtMgr,
		Users:                      emptyUserRepo{},
		CORSOrigins:                []string{"*"},
		APIRateLimitRPM:            1000,
		AuthRateLimitRPM:           1000,
		PasswordForgotRateLimitRPM: 1000,
	})
}

func TestHealthLiveRoute(t *testing.T) {
	h := newTestRouter()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestHealthReadyWithoutRunner(t *testing.T) {
	h := newTestRouter()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	h := newTestRouter()
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/users"},
		{http.MethodGet, "/v1/users/" + uuid.NewString()},
		{http.MethodPost, "/v1/auth/send-verification-email"},
	}
	for _, p := range paths {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(p.method, p.path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, rr.Code)
		}
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	h := newTestRouter()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	h := newTestRouter()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected security headers on every route")
	}
}
