package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/louisbranch/loadeddie/internal/random"
)

func TestOpenWithoutJournal(t *testing.T) {
	table, err := Open(context.Background(), Options{Seed: 42, Cheat: true, SessionID: "t1"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer table.Close()

	if table.Seed != 42 || table.SeedSource != random.SeedSourceFixed {
		t.Fatalf("seed = %d (%s), want 42 (FIXED)", table.Seed, table.SeedSource)
	}
	if table.Journal != nil {
		t.Fatal("expected no journal")
	}
	state := table.Session.State()
	if state.ID != "t1" || !state.Cheating || state.HasThrown {
		t.Fatalf("state = %+v, want cheating unthrown t1", state)
	}
}

func TestOpenGeneratesSeed(t *testing.T) {
	table, err := Open(context.Background(), Options{SeedGenerator: func() (int64, error) { return 9, nil }})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if table.Seed != 9 || table.SeedSource != random.SeedSourceGenerated {
		t.Fatalf("seed = %d (%s), want 9 (GENERATED)", table.Seed, table.SeedSource)
	}
}

func TestOpenPropagatesSeedError(t *testing.T) {
	_, err := Open(context.Background(), Options{SeedGenerator: func() (int64, error) { return 0, errors.New("no entropy") }})
	if !errors.Is(err, random.ErrSeedGenerator) {
		t.Fatalf("open error = %v, want %v", err, random.ErrSeedGenerator)
	}
}

func TestOpenWithJournalRecordsRolls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	table, err := Open(context.Background(), Options{Seed: 3, JournalPath: path, SessionID: "journaled"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer table.Close()

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := table.Session.Roll(ctx); err != nil {
			t.Fatalf("roll: %v", err)
		}
	}
	tally, err := table.Journal.FaceCounts(ctx, "journaled")
	if err != nil {
		t.Fatalf("face counts: %v", err)
	}
	if tally.Total() != 4 {
		t.Fatalf("journaled rolls = %d, want 4", tally.Total())
	}
}

func TestCloseNilTable(t *testing.T) {
	var table *Table
	if err := table.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
