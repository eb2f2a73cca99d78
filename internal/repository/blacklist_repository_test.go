package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"go-rest-auth-starter/internal/domain"
)

func TestBlacklistAddIsConditional(t *testing.T) {
	repo := NewBlacklistRepository(newTestDB(t))

	entry := &domain.RevokedToken{
		TokenID:   "jti-1",
		UserID:    uuid.New(),
		Reason:    "rotated",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	inserted, err := repo.Add(entry)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !inserted {
		t.Fatal("expected first add to insert")
	}

	again := &domain.RevokedToken{
		TokenID:   "jti-1",
		UserID:    entry.UserID,
		Reason:    "rotated",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	inserted, err = repo.Add(again)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if inserted {
		t.Fatal("expected second add of same jti to lose the insert")
	}
}

func TestBlacklistContains(t *testing.T) {
	repo := NewBlacklistRepository(newTestDB(t))

	if ok, err := repo.Contains("absent"); err != nil || ok {
		t.Fatalf("expected absent jti, got ok=%v err=%v", ok, err)
	}

	if _, err := repo.Add(&domain.RevokedToken{
		TokenID:   "jti-2",
		UserID:    uuid.New(),
		Reason:    "logout",
		ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	ok, err := repo.Contains("jti-2")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if !ok {
		t.Fatal("expected jti-2 to be blacklisted")
	}
}

func TestBlacklistCleanupExpired(t *testing.T) {
	repo := NewBlacklistRepository(newTestDB(t))

	if _, err := repo.Add(&domain.RevokedToken{
		TokenID:   "live",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("add live: %v", err)
	}
	if _, err := repo.Add(&domain.RevokedToken{
		TokenID:   "stale",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("add stale: %v", err)
	}

	removed, err := repo.CleanupExpired()
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if ok, _ := repo.Contains("live"); !ok {
		t.Fatal("expected live entry to survive cleanup")
	}
	if ok, _ := repo.Contains("stale"); ok {
		t.Fatal("expected stale entry removed")
	}
}
