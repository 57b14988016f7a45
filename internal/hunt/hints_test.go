package hunt

import (
	"errors"
	"testing"
	"time"

	"github.com/JosueZ99/treasure-hunt-app/internal/database"
	"github.com/JosueZ99/treasure-hunt-app/internal/hunt/hunttest"
	"github.com/google/uuid"
)

func newHintFixture(t *testing.T, hints ...string) (*hunttest.Store, *Dispenser, string) {
	t.Helper()

	store := hunttest.NewStore()
	store.AddUser(1, "alice@example.com", "Alice", "Lopez")
	store.AddLocation(42, "Central Park", "LOC42")
	store.AddHints(42, hints...)

	token := uuid.NewString()
	now := time.Now()
	store.AddToken(&database.AccessToken{
		Token: token, UserID: 1, LocationID: 42,
		CreatedAt: now, ExpiresAt: now.Add(15 * time.Minute),
	})

	dispenser := NewDispenser(store, store, store)
	return store, dispenser, token
}

func TestGetNextHintSequence(t *testing.T) {
	hints := []string{"Look north", "Near the fountain", "Under the bench"}
	store, dispenser, token := newHintFixture(t, hints...)

	for i, want := range hints {
		result, err := dispenser.GetNextHint(token)
		if err != nil {
			t.Fatalf("hint %d failed: %v", i+1, err)
		}
		if result.NoMoreHints {
			t.Fatalf("hint %d: unexpected no-more-hints sentinel", i+1)
		}
		if result.Hint != want {
			t.Errorf("hint %d: expected %q, got %q", i+1, want, result.Hint)
		}
	}

	// After N hints, every call returns the sentinel and the cursor stays put.
	for i := 0; i < 3; i++ {
		result, err := dispenser.GetNextHint(token)
		if err != nil {
			t.Fatalf("sentinel call %d failed: %v", i, err)
		}
		if !result.NoMoreHints {
			t.Fatal("expected no-more-hints sentinel")
		}
	}

	if cursor := store.Progress(1, 42).CurrentHint; cursor != len(hints)+1 {
		t.Errorf("cursor should rest at %d, got %d", len(hints)+1, cursor)
	}
}

func TestGetNextHintNoHintsDefined(t *testing.T) {
	store, dispenser, token := newHintFixture(t)

	result, err := dispenser.GetNextHint(token)
	if err != nil {
		t.Fatalf("GetNextHint failed: %v", err)
	}
	if !result.NoMoreHints {
		t.Fatal("location without hints should report the sentinel immediately")
	}
	if cursor := store.Progress(1, 42).CurrentHint; cursor != 1 {
		t.Errorf("cursor should not advance past the sentinel, got %d", cursor)
	}
}

func TestGetNextHintTokenErrors(t *testing.T) {
	store, dispenser, _ := newHintFixture(t, "Look north")

	expired := uuid.NewString()
	store.AddToken(&database.AccessToken{
		Token: expired, UserID: 1, LocationID: 42,
		CreatedAt: time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-45 * time.Minute),
	})

	if _, err := dispenser.GetNextHint("not-a-uuid"); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("expected ErrMalformedToken, got %v", err)
	}
	if _, err := dispenser.GetNextHint(uuid.NewString()); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := dispenser.GetNextHint(expired); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestGetNextHintCursorNeverDecreases(t *testing.T) {
	_, dispenser, token := newHintFixture(t, "Look north", "Near the fountain")

	if _, err := dispenser.GetNextHint(token); err != nil {
		t.Fatal(err)
	}

	second, err := dispenser.GetNextHint(token)
	if err != nil {
		t.Fatal(err)
	}
	if second.Hint != "Near the fountain" {
		t.Errorf("cursor went backwards: got %q", second.Hint)
	}
}
