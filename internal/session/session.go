package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/loadeddie/internal/core/die"
	"github.com/louisbranch/loadeddie/internal/platform/id"
	"github.com/louisbranch/loadeddie/internal/platform/otel"
	"github.com/louisbranch/loadeddie/internal/storage"
	"github.com/louisbranch/loadeddie/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ErrDieRequired indicates a session was created without a die.
var ErrDieRequired = errors.New("die is required")

// State is a read-only snapshot of a session.
type State struct {
	ID        string
	Rolls     int64
	Result    int
	HasThrown bool
	Cheating  bool
}

// Session drives one die for a host program.
type Session struct {
	id       string
	die      *die.Die
	recorder *telemetry.Recorder
	clock    func() time.Time
	seq      int64
	fair     die.Tally
	loaded   die.Tally
}

// Option configures a Session.
type Option func(*Session)

// WithID fixes the session ID instead of generating one.
func WithID(value string) Option {
	return func(s *Session) {
		s.id = strings.TrimSpace(value)
	}
}

// WithRecorder journals every roll through recorder.
func WithRecorder(recorder *telemetry.Recorder) Option {
	return func(s *Session) {
		s.recorder = recorder
	}
}

// WithClock overrides the clock used to stamp rolls.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New creates a session around d.
func New(d *die.Die, opts ...Option) (*Session, error) {
	if d == nil {
		return nil, ErrDieRequired
	}
	s := &Session{die: d, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		generated, err := id.NewID()
		if err != nil {
			return nil, fmt.Errorf("session id: %w", err)
		}
		s.id = generated
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Roll throws the die and journals the face.
//
// The face is valid even when the returned error is non-nil; the error only
// reports a journal failure.
func (s *Session) Roll(ctx context.Context) (int, error) {
	_, span := otel.Tracer().Start(ctx, "die.roll")
	defer span.End()

	s.die.Roll()
	face, _ := s.die.Result()
	s.seq++
	cheating := s.die.IsCheating()
	if cheating {
		s.loaded.Add(face)
	} else {
		s.fair.Add(face)
	}

	span.SetAttributes(
		attribute.String("session.id", s.id),
		attribute.Int64("die.seq", s.seq),
		attribute.Int("die.face", face),
		attribute.Bool("die.cheating", cheating),
	)

	err := s.recorder.Record(ctx, storage.RollRecord{
		SessionID: s.id,
		Seq:       s.seq,
		Face:      face,
		Cheating:  cheating,
		RolledAt:  s.clock().UTC(),
	})
	if err != nil {
		span.RecordError(err)
		return face, fmt.Errorf("journal roll %d: %w", s.seq, err)
	}
	return face, nil
}

// ToggleCheating flips cheat mode and returns the new value.
func (s *Session) ToggleCheating(ctx context.Context) bool {
	_, span := otel.Tracer().Start(ctx, "die.toggle_cheating")
	defer span.End()

	s.die.ToggleCheating()
	cheating := s.die.IsCheating()
	span.SetAttributes(
		attribute.String("session.id", s.id),
		attribute.Bool("die.cheating", cheating),
	)
	return cheating
}

// State returns a snapshot of the session. Result is 0 until the first roll.
func (s *Session) State() State {
	result, thrown := s.die.Result()
	return State{
		ID:        s.id,
		Rolls:     s.seq,
		Result:    result,
		HasThrown: thrown,
		Cheating:  s.die.IsCheating(),
	}
}

// Tally returns the faces rolled in this session.
func (s *Session) Tally() die.Tally {
	var tally die.Tally
	for i := range tally {
		tally[i] = s.fair[i] + s.loaded[i]
	}
	return tally
}

// ModeTally returns the faces rolled in this session split by cheat mode.
func (s *Session) ModeTally() (fair, loaded die.Tally) {
	return s.fair, s.loaded
}
