package random

import (
	"errors"
	"testing"
)

func TestNewSeedVaries(t *testing.T) {
	first, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed returned error: %v", err)
	}
	second, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed returned error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct seeds, got %d twice", first)
	}
}

func TestNewRandIsDeterministic(t *testing.T) {
	a := NewRand(77)
	b := NewRand(77)
	for i := 0; i < 50; i++ {
		if x, y := a.Intn(6), b.Intn(6); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestResolveSeedUsesRequestedSeed(t *testing.T) {
	called := false
	seed, source, err := ResolveSeed(77, func() (int64, error) {
		called = true
		return 123, nil
	})
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if seed != 77 {
		t.Fatalf("seed = %d, want 77", seed)
	}
	if source != SeedSourceFixed {
		t.Fatalf("seed source = %q, want %q", source, SeedSourceFixed)
	}
	if called {
		t.Fatal("generator should not run for a fixed seed")
	}
}

func TestResolveSeedGeneratesWhenZero(t *testing.T) {
	seed, source, err := ResolveSeed(0, func() (int64, error) {
		return 123, nil
	})
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if seed != 123 {
		t.Fatalf("seed = %d, want 123", seed)
	}
	if source != SeedSourceGenerated {
		t.Fatalf("seed source = %q, want %q", source, SeedSourceGenerated)
	}
}

func TestResolveSeedDefaultsToCryptoGenerator(t *testing.T) {
	_, source, err := ResolveSeed(0, nil)
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if source != SeedSourceGenerated {
		t.Fatalf("seed source = %q, want %q", source, SeedSourceGenerated)
	}
}

func TestResolveSeedWrapsGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := ResolveSeed(0, func() (int64, error) {
		return 0, boom
	})
	if !errors.Is(err, ErrSeedGenerator) {
		t.Fatalf("ResolveSeed error = %v, want %v", err, ErrSeedGenerator)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("ResolveSeed error = %v, want wrapped %v", err, boom)
	}
}
