package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/repository"
)

// TokenBlacklist is the set of revoked refresh-token ids. Add reports
// whether this call inserted the entry: a false return means the jti was
// already present, which Refresh treats as reuse.
type TokenBlacklist interface {
	Add(ctx context.Context, tokenID string, userID uuid.UUID, reason string, expiresAt time.Time) (bool, error)
	Contains(ctx context.Context, tokenID string) (bool, error)
}

type DBTokenBlacklist struct {
	repo repository.BlacklistRepository
}

func NewDBTokenBlacklist(repo repository.BlacklistRepository) *DBTokenBlacklist {
	return &DBTokenBlacklist{repo: repo}
}

func (b *DBTokenBlacklist) Add(_ context.Context, tokenID string, userID uuid.UUID, reason string, expiresAt time.Time) (bool, error) {
	return b.repo.Add(&domain.RevokedToken{
		TokenID:   tokenID,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
	})
}

func (b *DBTokenBlacklist) Contains(_ context.Context, tokenID string) (bool, error) {
	return b.repo.Contains(tokenID)
}

type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{entries: make(map[string]time.Time)}
}

func (b *InMemoryTokenBlacklist) Add(_ context.Context, tokenID string, _ uuid.UUID, _ string, expiresAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[tokenID]; ok {
		return false, nil
	}
	b.entries[tokenID] = expiresAt
	return true, nil
}

func (b *InMemoryTokenBlacklist) Contains(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[tokenID]
	return ok, nil
}
