package devicetrust

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStoreTrustLifecycle(t *testing.T) {
	store := NewMemoryStore(30 * 24 * time.Hour)
	ctx := context.Background()

	trusted, err := store.Trusted(ctx, "device-1", "a@x.com")
	if err != nil {
		t.Fatalf("trusted: %v", err)
	}
	if trusted {
		t.Fatalf("expected fresh device to be untrusted")
	}

	if err := store.Trust(ctx, "device-1", "a@x.com"); err != nil {
		t.Fatalf("trust: %v", err)
	}
	// Idempotent.
	if err := store.Trust(ctx, "device-1", "a@x.com"); err != nil {
		t.Fatalf("trust again: %v", err)
	}

	if trusted, _ = store.Trusted(ctx, "device-1", "a@x.com"); !trusted {
		t.Fatalf("expected device to be trusted after opt-in")
	}

	// Trust is scoped per (device, email) pair.
	if trusted, _ = store.Trusted(ctx, "device-1", "b@x.com"); trusted {
		t.Fatalf("expected other account to stay untrusted")
	}
	if trusted, _ = store.Trusted(ctx, "device-2", "a@x.com"); trusted {
		t.Fatalf("expected other device to stay untrusted")
	}

	if err := store.Revoke(ctx, "device-1", "a@x.com"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if trusted, _ = store.Trusted(ctx, "device-1", "a@x.com"); trusted {
		t.Fatalf("expected device to be untrusted after revoke")
	}
}

func TestMemoryStoreTrustExpires(t *testing.T) {
	store := NewMemoryStore(time.Hour).(*memoryStore)
	ctx := context.Background()

	if err := store.Trust(ctx, "device-1", "a@x.com"); err != nil {
		t.Fatalf("trust: %v", err)
	}

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if trusted, _ := store.Trusted(ctx, "device-1", "a@x.com"); trusted {
		t.Fatalf("expected trust to expire after TTL")
	}
}

func TestRedisStoreTrust(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	if err := store.Trust(ctx, "device-1", "A@x.com"); err != nil {
		t.Fatalf("trust: %v", err)
	}
	trusted, err := store.Trusted(ctx, "device-1", "a@x.com")
	if err != nil {
		t.Fatalf("trusted: %v", err)
	}
	if !trusted {
		t.Fatalf("expected trusted device")
	}

	mr.FastForward(2 * time.Hour)

	if trusted, _ := store.Trusted(ctx, "device-1", "a@x.com"); trusted {
		t.Fatalf("expected trust to expire with the redis TTL")
	}
}
