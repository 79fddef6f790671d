package oauth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vowsuite/vowsuite/internal/clock"
)

func TestMemoryStateSingleUse(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStateStore(clk)

	state := State{
		Nonce:     "nonce-1",
		EventID:   42,
		Provider:  "gmail",
		ExpiresAt: clk.Now().Add(10 * time.Minute),
	}
	if err := store.Put(context.Background(), state); err != nil {
		t.Fatalf("failed to put state: %v", err)
	}

	got, ok, err := store.TakeIfValid(context.Background(), "nonce-1", "gmail")
	if err != nil || !ok {
		t.Fatalf("expected valid state, got ok=%v err=%v", ok, err)
	}
	if got.EventID != 42 {
		t.Fatalf("expected event 42, got %v", got.EventID)
	}

	if _, ok, _ := store.TakeIfValid(context.Background(), "nonce-1", "gmail"); ok {
		t.Fatal("expected second redemption to fail")
	}
}

func TestMemoryStateExpiry(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStateStore(clk)

	state := State{
		Nonce:     "nonce-1",
		EventID:   42,
		Provider:  "gmail",
		ExpiresAt: clk.Now().Add(10 * time.Minute),
	}
	if err := store.Put(context.Background(), state); err != nil {
		t.Fatalf("failed to put state: %v", err)
	}

	clk.Advance(11 * time.Minute)

	if _, ok, _ := store.TakeIfValid(context.Background(), "nonce-1", "gmail"); ok {
		t.Fatal("expected expired state to be rejected")
	}
}

func TestMemoryStateProviderMismatch(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStateStore(clk)

	state := State{
		Nonce:     "nonce-1",
		EventID:   42,
		Provider:  "gmail",
		ExpiresAt: clk.Now().Add(10 * time.Minute),
	}
	if err := store.Put(context.Background(), state); err != nil {
		t.Fatalf("failed to put state: %v", err)
	}

	if _, ok, _ := store.TakeIfValid(context.Background(), "nonce-1", "outlook"); ok {
		t.Fatal("expected provider mismatch to be rejected")
	}
	// The mismatch still consumed the nonce.
	if _, ok, _ := store.TakeIfValid(context.Background(), "nonce-1", "gmail"); ok {
		t.Fatal("expected nonce to be consumed")
	}
}

func TestMemoryStateConcurrentRedemption(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStateStore(clk)

	state := State{
		Nonce:     "nonce-1",
		EventID:   42,
		Provider:  "gmail",
		ExpiresAt: clk.Now().Add(10 * time.Minute),
	}
	if err := store.Put(context.Background(), state); err != nil {
		t.Fatalf("failed to put state: %v", err)
	}

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, _ := store.TakeIfValid(context.Background(), "nonce-1", "gmail")
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for ok := range results {
		if ok {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one redemption, got %d", succeeded)
	}
}
