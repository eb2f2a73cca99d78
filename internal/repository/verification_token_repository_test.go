package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"go-rest-auth-starter/internal/domain"
)

func TestVerificationTokenFindByValueAndKind(t *testing.T) {
	repo := NewVerificationTokenRepository(newTestDB(t))
	userID := uuid.New()

	if err := repo.Create(&domain.VerificationToken{
		Token:     "reset-value",
		UserID:    userID,
		Kind:      domain.TokenKindResetPassword,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindByValueAndKind("reset-value", domain.TokenKindResetPassword)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.UserID != userID {
		t.Fatalf("unexpected owner: %s", got.UserID)
	}

	if _, err := repo.FindByValueAndKind("reset-value", domain.TokenKindVerifyEmail); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected kind mismatch to be not found, got %v", err)
	}
	if _, err := repo.FindByValueAndKind("unknown", domain.TokenKindResetPassword); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected unknown value to be not found, got %v", err)
	}
}

func TestVerificationTokenBlacklistedExcluded(t *testing.T) {
	repo := NewVerificationTokenRepository(newTestDB(t))

	if err := repo.Create(&domain.VerificationToken{
		Token:       "burned",
		UserID:      uuid.New(),
		Kind:        domain.TokenKindVerifyEmail,
		ExpiresAt:   time.Now().Add(10 * time.Minute),
		Blacklisted: true,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.FindByValueAndKind("burned", domain.TokenKindVerifyEmail); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected blacklisted token to be invisible, got %v", err)
	}
}

func TestVerificationTokenDeleteByUserAndKind(t *testing.T) {
	repo := NewVerificationTokenRepository(newTestDB(t))
	userID := uuid.New()

	for _, value := range []string{"one", "two"} {
		if err := repo.Create(&domain.VerificationToken{
			Token:     value,
			UserID:    userID,
			Kind:      domain.TokenKindResetPassword,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}); err != nil {
			t.Fatalf("create %s: %v", value, err)
		}
	}
	if err := repo.Create(&domain.VerificationToken{
		Token:     "other-kind",
		UserID:    userID,
		Kind:      domain.TokenKindVerifyEmail,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}); err != nil {
		t.Fatalf("create other kind: %v", err)
	}

	deleted, err := repo.DeleteByUserAndKind(userID, domain.TokenKindResetPassword)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	if _, err := repo.FindByValueAndKind("one", domain.TokenKindResetPassword); !errors.Is(err, ErrTokenNotFound) {
		t.Fatal("expected reset tokens gone")
	}
	if _, err := repo.FindByValueAndKind("other-kind", domain.TokenKindVerifyEmail); err != nil {
		t.Fatalf("expected verify token untouched, got %v", err)
	}
}
