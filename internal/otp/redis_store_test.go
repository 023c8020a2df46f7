package otp

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	ch := Challenge{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}
	if err := store.Put(ctx, "A@x.com", ch); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Lookup is case-insensitive on email.
	got, ok, err := store.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected challenge to exist")
	}
	if got.Code != ch.Code {
		t.Fatalf("expected code %s, got %s", ch.Code, got.Code)
	}

	if err := store.Delete(ctx, "a@x.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "a@x.com"); ok {
		t.Fatalf("expected challenge to be gone after delete")
	}
}

func TestRedisStoreExpiresWithTTL(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	ch := Challenge{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}
	if err := store.Put(ctx, "a@x.com", ch); err != nil {
		t.Fatalf("put: %v", err)
	}

	// The record survives expiry for the resend window...
	mr.FastForward(6 * time.Minute)
	if _, ok, _ := store.Get(ctx, "a@x.com"); !ok {
		t.Fatalf("expected record to survive into the resend window")
	}

	// ...and is gone once the grace window passes.
	mr.FastForward(time.Hour)
	if _, ok, _ := store.Get(ctx, "a@x.com"); ok {
		t.Fatalf("expected record to be dropped after the grace window")
	}
}

func TestRedisStorePutOverwrites(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "a@x.com", Challenge{Code: "111111", ExpiresAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := store.Put(ctx, "a@x.com", Challenge{Code: "222222", ExpiresAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("put second: %v", err)
	}

	got, ok, err := store.Get(ctx, "a@x.com")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Code != "222222" {
		t.Fatalf("expected superseding code, got %s", got.Code)
	}
}
