package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	sess := New("sess-1", "cust-9", ChannelWeb, now)
	sess.Append(Message{Role: RoleCustomer, Text: "hello", Channel: ChannelWeb, Timestamp: now})
	sess.SetContext("cart", []any{"SKU-1"})

	if err := store.Set(context.Background(), sess); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "sess-1" || got.CustomerID != "cust-9" {
		t.Fatalf("Get() = %+v, identity mismatch", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Text != "hello" {
		t.Fatalf("Get() messages = %+v, want one hello", got.Messages)
	}
	if _, ok := got.Context["cart"]; !ok {
		t.Fatalf("Get() lost context, got %+v", got.Context)
	}
}

func TestMemoryStoreMissingSession(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get() error = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStoreEmptySessionID(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "  "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Get() error = %v, want ErrInvalidSession", err)
	}
	if err := store.Set(context.Background(), &ConversationSession{}); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Set() error = %v, want ErrInvalidSession", err)
	}
	if err := store.Set(context.Background(), nil); !errors.Is(err, ErrNilSession) {
		t.Fatalf("Set(nil) error = %v, want ErrNilSession", err)
	}
}

func TestMemoryStoreSlidingTTL(t *testing.T) {
	t.Parallel()

	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore(
		WithMemoryTTL(time.Hour),
		WithMemoryClock(func() time.Time { return clock }),
	)

	sess := New("sess-ttl", "cust", ChannelMobile, clock)
	if err := store.Set(context.Background(), sess); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Rewrite 50 minutes in; the TTL window restarts from here.
	clock = clock.Add(50 * time.Minute)
	if err := store.Set(context.Background(), sess); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// 50 more minutes puts us past the original expiry but inside the
	// restarted window.
	clock = clock.Add(50 * time.Minute)
	if _, err := store.Get(context.Background(), "sess-ttl"); err != nil {
		t.Fatalf("Get() inside restarted window error = %v", err)
	}

	clock = clock.Add(61 * time.Minute)
	if _, err := store.Get(context.Background(), "sess-ttl"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get() after expiry error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRecentWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sess := New("s", "c", ChannelWeb, now)
	for i := 0; i < 5; i++ {
		sess.Append(Message{Role: RoleCustomer, Text: string(rune('a' + i)), Timestamp: now.Add(time.Duration(i) * time.Minute)})
	}

	recent := sess.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("Recent(3) len = %d, want 3", len(recent))
	}
	if recent[0].Text != "c" || recent[2].Text != "e" {
		t.Fatalf("Recent(3) = %+v, want c..e", recent)
	}
	if got := sess.Recent(10); len(got) != 5 {
		t.Fatalf("Recent(10) len = %d, want all 5", len(got))
	}
	if got := sess.Recent(0); got != nil {
		t.Fatalf("Recent(0) = %+v, want nil", got)
	}
}
