package handler

import (
	"testing"

	"go-rest-auth-starter/internal/service"
)

func TestParseSortBy(t *testing.T) {
	tests := []struct {
		raw   string
		field string
		order string
	}{
		{"", "", ""},
		{"name", "name", "asc"},
		{"name:asc", "name", "asc"},
		{"createdAt:desc", "createdAt", "desc"},
		{"role:DESC", "role", "desc"},
		{"name:sideways", "name", "asc"},
	}
	for _, tc := range tests {
		field, order := parseSortBy(tc.raw)
		if field != tc.field || order != tc.order {
			t.Fatalf("parseSortBy(%q)=(%q,%q) want (%q,%q)", tc.raw, field, order, tc.field, tc.order)
		}
	}
}

func TestQueryInt(t *testing.T) {
	if got := queryInt("", 7); got != 7 {
		t.Fatalf("empty: got %d", got)
	}
	if got := queryInt("12", 7); got != 12 {
		t.Fatalf("number: got %d", got)
	}
	if got := queryInt("twelve", 7); got != 7 {
		t.Fatalf("garbage: got %d", got)
	}
}

func TestValidateFieldsJoinsProblems(t *testing.T) {
	err := validateFields(
		requireField("name", ""),
		validEmail("nope"),
		validPassword("short"),
	)
	e, ok := service.AsError(err)
	if !ok || e.Code != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
	want := "\"name\" is required, \"email\" must be a valid email, password must be at least 8 characters and contain at least 1 letter and 1 number"
	if e.Message != want {
		t.Fatalf("message=%q want %q", e.Message, want)
	}

	if err := validateFields(requireField("name", "ok"), validEmail("a@b.com"), validPassword("secret123")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidEmail(t *testing.T) {
	if msg := validEmail("user@example.com"); msg != "" {
		t.Fatalf("valid email rejected: %q", msg)
	}
	for _, bad := range []string{"", "plain", "a@", "@b.com"} {
		if msg := validEmail(bad); msg == "" {
			t.Fatalf("expected %q rejected", bad)
		}
	}
}
