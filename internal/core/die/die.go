// Package die implements a single six-sided die with a cheat mode.
package die

import (
	"math/rand"
	"time"
)

// Sides is the number of faces on the die.
const Sides = 6

// LoadedFace is the face a cheating die favors.
const LoadedFace = Sides

// Source produces uniform integers in the half-open range [0, n).
//
// *rand.Rand satisfies Source.
type Source interface {
	Intn(n int) int
}

// Die holds the state of one six-sided die.
//
// A Die is not safe for concurrent use. Callers that share one across
// goroutines must serialize access.
type Die struct {
	rng      Source
	result   int
	thrown   bool
	cheating bool
}

// New creates a die that draws from rng.
//
// A nil rng falls back to a time-seeded source; pass a seeded source when
// rolls must be reproducible.
func New(rng Source) *Die {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Die{rng: rng}
}

// Roll throws the die and stores the face it lands on.
//
// # Fair rolls
//
// With cheat mode off every face is equally likely.
//
// # Loaded rolls
//
// With cheat mode on, half of all throws are forced to LoadedFace and the
// other half are fair. LoadedFace therefore lands 7/12 of the time and each
// other face 1/12 of the time.
func (d *Die) Roll() {
	if d.cheating {
		d.result = rollLoaded(d.rng)
	} else {
		d.result = rollFair(d.rng)
	}
	d.thrown = true
}

// ToggleCheating flips cheat mode.
func (d *Die) ToggleCheating() {
	d.cheating = !d.cheating
}

// IsCheating reports whether cheat mode is on.
func (d *Die) IsCheating() bool {
	return d.cheating
}

// HasThrown reports whether Roll has been called at least once.
func (d *Die) HasThrown() bool {
	return d.thrown
}

// Result returns the last rolled face. The boolean is false until the first
// Roll, in which case the face is 0.
func (d *Die) Result() (int, bool) {
	if !d.thrown {
		return 0, false
	}
	return d.result, true
}

func rollFair(rng Source) int {
	return rng.Intn(Sides) + 1
}

func rollLoaded(rng Source) int {
	if rng.Intn(2) == 0 {
		return LoadedFace
	}
	return rollFair(rng)
}
