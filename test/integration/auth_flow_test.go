package integration

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestRegisterLoginRefreshLogoutFlow(t *testing.T) {
	env := newTestServer(t, nil)

	reg := register(t, env, "Flow User", "flow@example.com", "secret123")
	if reg.User.Email != "flow@example.com" || reg.User.Role != "user" || reg.User.IsEmailVerified {
		t.Fatalf("unexpected registered user: %+v", reg.User)
	}
	if reg.Tokens.Access.Token == "" || reg.Tokens.Refresh.Token == "" {
		t.Fatal("expected both tokens in register response")
	}
	if !reg.Tokens.Refresh.Expires.After(reg.Tokens.Access.Expires) {
		t.Fatal("expected refresh token to outlive access token")
	}

	resp, raw := doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/login", map[string]string{
		"email":    "flow@example.com",
		"password": "secret123",
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: status=%d body=%s", resp.StatusCode, raw)
	}
	var login authResponse
	if err := json.Unmarshal(raw, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Fatal("login returned a different user")
	}

	// Rotate once.
	resp, raw = doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/refresh-tokens", map[string]string{
		"refreshToken": login.Tokens.Refresh.Token,
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh failed: status=%d body=%s", resp.StatusCode, raw)
	}
	var rotated tokenPair
	if err := json.Unmarshal(raw, &rotated); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	if rotated.Refresh.Token == login.Tokens.Refresh.Token {
		t.Fatal("expected a fresh refresh token after rotation")
	}

	// The consumed token is dead.
	resp, raw = doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/refresh-tokens", map[string]string{
		"refreshToken": login.Tokens.Refresh.Token,
	}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 on reused refresh token, got %d body=%s", resp.StatusCode, raw)
	}
	if e := decodeError(t, raw); e.Message != "Please authenticate" {
		t.Fatalf("unexpected refresh error: %+v", e)
	}

	// Logout kills the rotated-in token too.
	resp, _ = doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/logout", map[string]string{
		"refreshToken": rotated.Refresh.Token,
	}, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout failed: status=%d", resp.StatusCode)
	}
	resp, _ = doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/refresh-tokens", map[string]string{
		"refreshToken": rotated.Refresh.Token,
	}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestServer(t, nil)
	register(t, env, "Someone", "someone@example.com", "secret123")

	for _, body := range []map[string]string{
		{"email": "someone@example.com", "password": "wrong-pass1"},
		{"email": "nobody@example.com", "password": "secret123"},
	} {
		resp, raw := doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/login", body, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d body=%s", resp.StatusCode, raw)
		}
		e := decodeError(t, raw)
		if e.Code != 401 || e.Message != "Incorrect email or password" {
			t.Fatalf("unexpected login error: %+v", e)
		}
	}
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	env := newTestServer(t, nil)

	resp, raw := doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/register", map[string]string{
		"name":     "Bad",
		"email":    "not-an-email",
		"password": "short",
	}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", resp.StatusCode, raw)
	}

	register(t, env, "First", "dup@example.com", "secret123")
	resp, raw = doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/register", map[string]string{
		"name":     "Second",
		"email":    "dup@example.com",
		"password": "secret123",
	}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if e := decodeError(t, raw); e.Message != "Email already taken" {
		t.Fatalf("unexpected duplicate error: %+v", e)
	}
}

func TestLogoutWithGarbledTokenIsNotFound(t *testing.T) {
	env := newTestServer(t, nil)

	resp, raw := doJSON(t, env.Client, http.MethodPost, env.BaseURL+"/v1/auth/logout", map[string]string{
		"refreshToken": "garbled",
	}, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", resp.StatusCode, raw)
	}
	if e := decodeError(t, raw); e.Message != "Not found" {
		t.Fatalf("unexpected logout error: %+v", e)
	}
}
