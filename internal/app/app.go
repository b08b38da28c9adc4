// Package app assembles a die session from command configuration.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/loadeddie/internal/core/die"
	"github.com/louisbranch/loadeddie/internal/random"
	"github.com/louisbranch/loadeddie/internal/session"
	"github.com/louisbranch/loadeddie/internal/storage/sqlite"
	"github.com/louisbranch/loadeddie/internal/telemetry"
)

// Options selects the seed, initial cheat mode, and journal of a table.
type Options struct {
	// Seed fixes the die's random source; zero draws a fresh seed.
	Seed  int64
	Cheat bool
	// JournalPath enables the SQLite roll journal when non-empty.
	JournalPath string
	SessionID   string
	// SeedGenerator overrides random.NewSeed.
	SeedGenerator func() (int64, error)
}

// Table is a ready-to-roll session plus the resources behind it.
type Table struct {
	Session    *session.Session
	Seed       int64
	SeedSource random.SeedSource
	Journal    *sqlite.Store
}

// Open builds a Table from opts.
func Open(ctx context.Context, opts Options) (*Table, error) {
	seed, source, err := random.ResolveSeed(opts.Seed, opts.SeedGenerator)
	if err != nil {
		return nil, err
	}

	d := die.New(random.NewRand(seed))
	sessionOpts := []session.Option{}
	if id := strings.TrimSpace(opts.SessionID); id != "" {
		sessionOpts = append(sessionOpts, session.WithID(id))
	}

	var journal *sqlite.Store
	if path := strings.TrimSpace(opts.JournalPath); path != "" {
		journal, err = sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		sessionOpts = append(sessionOpts, session.WithRecorder(telemetry.NewRecorder(journal)))
	}

	s, err := session.New(d, sessionOpts...)
	if err != nil {
		if journal != nil {
			_ = journal.Close()
		}
		return nil, err
	}
	if opts.Cheat {
		s.ToggleCheating(ctx)
	}

	return &Table{
		Session:    s,
		Seed:       seed,
		SeedSource: source,
		Journal:    journal,
	}, nil
}

// Close releases the journal, if any.
func (t *Table) Close() error {
	if t == nil || t.Journal == nil {
		return nil
	}
	return t.Journal.Close()
}
