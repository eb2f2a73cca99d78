package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/http/handler"
	"go-rest-auth-starter/internal/http/router"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/security"
	"go-rest-auth-starter/internal/service"
)

type outboxSender struct {
	mu     sync.Mutex
	bodies []string
	tos    []string
}

func (s *outboxSender) Send(_ context.Context, to, _, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tos = append(s.tos, to)
	s.bodies = append(s.bodies, body)
	return nil
}

// lastToken pulls the opaque token out of the most recent email's link.
func (s *outboxSender) lastToken(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bodies) == 0 {
		t.Fatal("outbox is empty")
	}
	body := s.bodies[len(s.bodies)-1]
	i := strings.Index(body, "token=")
	if i < 0 {
		t.Fatalf("no token link in email body: %q", body)
	}
	token := body[i+len("token="):]
	if j := strings.IndexAny(token, " \n"); j >= 0 {
		token = token[:j]
	}
	return token
}

type testEnv struct {
	BaseURL string
	Client  *http.Client
	DB      *gorm.DB
	Users   repository.UserRepository
	Outbox  *outboxSender
}

func newTestServer(t *testing.T, blacklist service.TokenBlacklist) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.RevokedToken{}, &domain.VerificationToken{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	users := repository.NewUserRepository(db)
	blacklistRepo := repository.NewBlacklistRepository(db)
	verificationRepo := repository.NewVerificationTokenRepository(db)
	if blacklist == nil {
		blacklist = service.NewDBTokenBlacklist(blacklistRepo)
	}

	jwtMgr := security.NewJWTManager(
		"test-issuer",
		"test-audience",
		"integration-access-secret-0123456789ab",
		"integration-refresh-secret-0123456789a",
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	outbox := &outboxSender{}
	email := service.NewEmailService(outbox, "http://localhost:3000", logger)
	verification := service.NewVerificationTokenService(verificationRepo)
	auth := service.NewAuthService(users, verification, email, 10*time.Minute, 10*time.Minute, logger)
	tokens := service.NewTokenService(jwtMgr, blacklist, users, 15*time.Minute, 24*time.Hour)
	userSvc := service.NewUserService(users)

	h := router.NewRouter(router.Dependencies{
		AuthHandler:                handler.NewAuthHandler(auth, tokens),
		UserHandler:                handler.NewUserHandler(userSvc),
		JWTManager:                 jwtMgr,
		Users:                      users,
		CORSOrigins:                []string{"*"},
		APIRateLimitRPM:            10000,
		AuthRateLimitRPM:           10000,
		PasswordForgotRateLimitRPM: 10000,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &testEnv{
		BaseURL: srv.URL,
		Client:  srv.Client(),
		DB:      db,
		Users:   users,
		Outbox:  outbox,
	}
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, bearer string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) apiError {
	t.Helper()
	var e apiError
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("decode error payload %q: %v", raw, err)
	}
	return e
}

type tokenDetail struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type tokenPair struct {
	Access  tokenDetail `json:"access"`
	Refresh tokenDetail `json:"refresh"`
}

type userView struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

type authResponse struct {
	User   userView  `json:"user"`
	Tokens tokenPair `json:"tokens"`
}

func register(t *testing.T, env *testEnv, name, email, password string) authResponse {
	t.Helper()
	resp, raw := doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed: status=%d body=%s", resp.StatusCode, raw)
	}
	var out authResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return out
}

func registerAdmin(t *testing.T, env *testEnv, email, password string) authResponse {
	t.Helper()
	out := register(t, env, "Admin", email, password)
	if err := env.DB.Model(&domain.User{}).Where("email = ?", email).Update("role", domain.RoleAdmin).Error; err != nil {
		t.Fatalf("promote admin: %v", err)
	}
	// Re-login so the role claim reflects the promotion.
	resp, raw := doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login failed: status=%d body=%s", resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode admin login: %v", err)
	}
	return out
}
