package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dockside/truck-management/internal/core/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, ttl), mr
}

func sampleSession(owner string) *domain.ImportSession {
	return &domain.ImportSession{
		Token: "sess-1",
		Owner: owner,
		Candidates: []domain.Truck{
			{TruckNo: "TRK001", Terminal: "A", DockCode: "D1", TruckRoute: "R1"},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSessionStore_PutAndTake(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Put(ctx, sampleSession("alice")); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	session, err := store.Take(ctx, "sess-1", "alice")
	if err != nil {
		t.Fatalf("Take returned error: %v", err)
	}
	if session.Owner != "alice" || len(session.Candidates) != 1 {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.Candidates[0].TruckNo != "TRK001" {
		t.Fatalf("candidates not round-tripped: %+v", session.Candidates)
	}
}

func TestSessionStore_TakeConsumes(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	_ = store.Put(ctx, sampleSession("alice"))
	if _, err := store.Take(ctx, "sess-1", "alice"); err != nil {
		t.Fatalf("first take failed: %v", err)
	}
	if _, err := store.Take(ctx, "sess-1", "alice"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second take, got %v", err)
	}
}

func TestSessionStore_WrongOwnerPreserves(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	_ = store.Put(ctx, sampleSession("alice"))

	if _, err := store.Take(ctx, "sess-1", "mallory"); !errors.Is(err, domain.ErrNotSessionOwner) {
		t.Fatalf("expected ErrNotSessionOwner, got %v", err)
	}

	// The rejected attempt must leave the session for the owner.
	if _, err := store.Take(ctx, "sess-1", "alice"); err != nil {
		t.Fatalf("owner take after rejected attempt failed: %v", err)
	}
}

func TestSessionStore_UnknownToken(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	if _, err := store.Take(context.Background(), "nope", "alice"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	store, mr := newTestStore(t, 30*time.Minute)
	ctx := context.Background()

	_ = store.Put(ctx, sampleSession("alice"))
	mr.FastForward(31 * time.Minute)

	if _, err := store.Take(ctx, "sess-1", "alice"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}
