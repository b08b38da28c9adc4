package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/louisbranch/loadeddie/internal/core/die"
)

// ErrInvalidRoll indicates a roll record failed validation.
var ErrInvalidRoll = errors.New("invalid roll record")

// ErrAlreadyExists indicates a roll with the same session and sequence exists.
var ErrAlreadyExists = errors.New("record already exists")

// RollRecord is one journaled throw.
type RollRecord struct {
	SessionID string
	// Seq is the 1-based position of the roll within its session.
	Seq      int64
	Face     int
	Cheating bool
	RolledAt time.Time
}

// Validate reports ErrInvalidRoll for records a journal must reject.
func (r RollRecord) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return errors.Join(ErrInvalidRoll, errors.New("session id is required"))
	}
	if r.Seq <= 0 {
		return errors.Join(ErrInvalidRoll, errors.New("sequence must be positive"))
	}
	if r.Face < 1 || r.Face > die.Sides {
		return errors.Join(ErrInvalidRoll, errors.New("face must be between 1 and 6"))
	}
	return nil
}

// RollStore persists journaled rolls.
type RollStore interface {
	AppendRoll(ctx context.Context, record RollRecord) error
	// ListRolls returns the rolls of a session in sequence order. A limit of
	// zero or less returns every roll.
	ListRolls(ctx context.Context, sessionID string, limit int) ([]RollRecord, error)
	// FaceCounts tallies faces for a session, or for every session when
	// sessionID is empty.
	FaceCounts(ctx context.Context, sessionID string) (die.Tally, error)
}
