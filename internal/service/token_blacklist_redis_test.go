package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newRedisClientForTest(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})
	return server, client
}

func TestRedisTokenBlacklistAddAndContains(t *testing.T) {
	_, client := newRedisClientForTest(t)
	bl := NewRedisTokenBlacklist(client, "")
	ctx := context.Background()

	inserted, err := bl.Add(ctx, "jti-a", uuid.New(), "rotated", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !inserted {
		t.Fatal("expected first add to insert")
	}

	inserted, err = bl.Add(ctx, "jti-a", uuid.New(), "rotated", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if inserted {
		t.Fatal("expected SET NX to lose on existing jti")
	}

	ok, err := bl.Contains(ctx, "jti-a")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if !ok {
		t.Fatal("expected jti-a present")
	}
	if ok, _ := bl.Contains(ctx, "jti-b"); ok {
		t.Fatal("expected jti-b absent")
	}
}

func TestRedisTokenBlacklistEntriesExpireWithToken(t *testing.T) {
	server, client := newRedisClientForTest(t)
	bl := NewRedisTokenBlacklist(client, "")
	ctx := context.Background()

	if _, err := bl.Add(ctx, "jti-ttl", uuid.New(), "logout", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("add: %v", err)
	}

	server.FastForward(2 * time.Minute)

	ok, err := bl.Contains(ctx, "jti-ttl")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if ok {
		t.Fatal("expected entry garbage collected after token expiry")
	}
}

func TestRedisTokenBlacklistPastExpiryIsNoop(t *testing.T) {
	server, client := newRedisClientForTest(t)
	bl := NewRedisTokenBlacklist(client, "")

	inserted, err := bl.Add(context.Background(), "jti-old", uuid.New(), "logout", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !inserted {
		t.Fatal("expected past-expiry add to report success")
	}
	if server.Exists("token_blacklist:jti-old") {
		t.Fatal("expected no key written for already-expired token")
	}
}
