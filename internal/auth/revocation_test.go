package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryRevocationsRevokeAndCheck(t *testing.T) {
	store := NewMemoryRevocations()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("fresh store: IsRevoked = %v, %v", revoked, err)
	}
	if err := store.Revoke(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	// Idempotent.
	if err := store.Revoke(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	revoked, err = store.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("after revoke: IsRevoked = %v, %v", revoked, err)
	}
	revoked, err = store.IsRevoked(ctx, "jti-2")
	if err != nil || revoked {
		t.Fatalf("unrelated jti: IsRevoked = %v, %v", revoked, err)
	}
}

func TestMemoryRevocationsSweep(t *testing.T) {
	store := NewMemoryRevocations()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.Revoke(ctx, "stale", -time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := store.Revoke(ctx, "live", time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if removed := store.Sweep(now); removed != 1 {
		t.Fatalf("Sweep removed %d entries, want 1", removed)
	}
	if revoked, _ := store.IsRevoked(ctx, "stale"); revoked {
		t.Fatal("stale entry survived the sweep")
	}
	if revoked, _ := store.IsRevoked(ctx, "live"); !revoked {
		t.Fatal("live entry was swept too early")
	}
	if removed := store.Sweep(now); removed != 0 {
		t.Fatalf("second Sweep removed %d entries, want 0", removed)
	}
}

func TestMemoryRevocationsConcurrent(t *testing.T) {
	store := NewMemoryRevocations()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			jti := fmt.Sprintf("jti-%d", i)
			if err := store.Revoke(ctx, jti, time.Hour); err != nil {
				t.Errorf("revoke %s: %v", jti, err)
			}
			if revoked, err := store.IsRevoked(ctx, jti); err != nil || !revoked {
				t.Errorf("IsRevoked %s = %v, %v", jti, revoked, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 64; i++ {
		jti := fmt.Sprintf("jti-%d", i)
		if revoked, _ := store.IsRevoked(ctx, jti); !revoked {
			t.Fatalf("%s missing after concurrent revokes", jti)
		}
	}
}
