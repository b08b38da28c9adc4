package die

import (
	"math"
	"math/rand"
	"testing"
)

// scriptedSource replays fixed values and records the bounds it was asked for.
type scriptedSource struct {
	values []int
	bounds []int
}

func (s *scriptedSource) Intn(n int) int {
	s.bounds = append(s.bounds, n)
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v
}

func TestNewDieStartsUnthrown(t *testing.T) {
	d := New(rand.New(rand.NewSource(1)))

	if d.HasThrown() {
		t.Fatal("expected fresh die to be unthrown")
	}
	if d.IsCheating() {
		t.Fatal("expected fresh die to be fair")
	}
	face, ok := d.Result()
	if ok {
		t.Fatalf("Result() ok = true before first roll, face = %d", face)
	}
	if face != 0 {
		t.Fatalf("Result() face = %d before first roll, want 0", face)
	}
}

func TestNewDieWithNilSource(t *testing.T) {
	d := New(nil)
	d.Roll()

	face, ok := d.Result()
	if !ok {
		t.Fatal("expected result after roll")
	}
	if face < 1 || face > Sides {
		t.Fatalf("face = %d, out of range [1, %d]", face, Sides)
	}
}

func TestRollFair(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  int
	}{
		{"lowest", 0, 1},
		{"middle", 2, 3},
		{"highest", 5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{values: []int{tt.value}}
			d := New(src)
			d.Roll()

			face, _ := d.Result()
			if face != tt.want {
				t.Fatalf("face = %d, want %d", face, tt.want)
			}
			if len(src.bounds) != 1 || src.bounds[0] != Sides {
				t.Fatalf("source bounds = %v, want [%d]", src.bounds, Sides)
			}
		})
	}
}

func TestRollLoaded(t *testing.T) {
	tests := []struct {
		name       string
		values     []int
		want       int
		wantBounds []int
	}{
		{"forced six", []int{0}, LoadedFace, []int{2}},
		{"fair fallback low", []int{1, 0}, 1, []int{2, Sides}},
		{"fair fallback six", []int{1, 5}, 6, []int{2, Sides}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{values: tt.values}
			d := New(src)
			d.ToggleCheating()
			d.Roll()

			face, _ := d.Result()
			if face != tt.want {
				t.Fatalf("face = %d, want %d", face, tt.want)
			}
			if len(src.bounds) != len(tt.wantBounds) {
				t.Fatalf("source bounds = %v, want %v", src.bounds, tt.wantBounds)
			}
			for i := range tt.wantBounds {
				if src.bounds[i] != tt.wantBounds[i] {
					t.Fatalf("source bounds = %v, want %v", src.bounds, tt.wantBounds)
				}
			}
		})
	}
}

func TestHasThrownIsMonotonic(t *testing.T) {
	d := New(rand.New(rand.NewSource(7)))
	d.Roll()
	if !d.HasThrown() {
		t.Fatal("expected die to be thrown after one roll")
	}

	for i := 0; i < 10; i++ {
		d.ToggleCheating()
		d.Roll()
		if !d.HasThrown() {
			t.Fatalf("die reported unthrown after roll %d", i+2)
		}
	}
	d.ToggleCheating()
	if !d.HasThrown() {
		t.Fatal("toggle reset thrown state")
	}
}

func TestToggleCheating(t *testing.T) {
	d := New(rand.New(rand.NewSource(3)))

	d.ToggleCheating()
	if !d.IsCheating() {
		t.Fatal("expected single toggle to enable cheating")
	}
	d.ToggleCheating()
	if d.IsCheating() {
		t.Fatal("expected second toggle to restore fair mode")
	}
}

func TestCheatingSurvivesRolls(t *testing.T) {
	d := New(rand.New(rand.NewSource(3)))
	d.ToggleCheating()
	for i := 0; i < 20; i++ {
		d.Roll()
	}
	if !d.IsCheating() {
		t.Fatal("rolling changed cheat mode")
	}
}

func TestToggleRollScenario(t *testing.T) {
	d := New(rand.New(rand.NewSource(99)))

	if d.IsCheating() {
		t.Fatal("expected fair die")
	}
	d.ToggleCheating()
	if !d.IsCheating() {
		t.Fatal("expected cheating die")
	}
	d.Roll()
	if !d.HasThrown() {
		t.Fatal("expected thrown die")
	}
	face, ok := d.Result()
	if !ok || face < 1 || face > Sides {
		t.Fatalf("Result() = (%d, %v), want face in [1, %d]", face, ok, Sides)
	}
}

func TestFairRollsStayInRange(t *testing.T) {
	d := New(rand.New(rand.NewSource(2024)))
	for i := 0; i < 1000; i++ {
		d.Roll()
		face, _ := d.Result()
		if face < 1 || face > Sides {
			t.Fatalf("roll %d: face = %d, out of range [1, %d]", i, face, Sides)
		}
	}
}

func TestRollDeterminism(t *testing.T) {
	first := New(rand.New(rand.NewSource(12345)))
	second := New(rand.New(rand.NewSource(12345)))
	first.ToggleCheating()
	second.ToggleCheating()

	for i := 0; i < 100; i++ {
		first.Roll()
		second.Roll()
		a, _ := first.Result()
		b, _ := second.Result()
		if a != b {
			t.Fatalf("roll %d differs: %d vs %d", i, a, b)
		}
	}
}

func TestDistribution(t *testing.T) {
	const (
		rolls     = 120000
		tolerance = 0.01
	)

	tests := []struct {
		name     string
		cheating bool
		seed     int64
	}{
		{"fair", false, 42},
		{"cheating", true, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(rand.New(rand.NewSource(tt.seed)))
			if tt.cheating {
				d.ToggleCheating()
			}

			var tally Tally
			for i := 0; i < rolls; i++ {
				d.Roll()
				face, _ := d.Result()
				tally.Add(face)
			}

			if tally.Total() != rolls {
				t.Fatalf("tally total = %d, want %d", tally.Total(), rolls)
			}
			for face := 1; face <= Sides; face++ {
				got := tally.Frequency(face)
				want := Probability(face, tt.cheating)
				if math.Abs(got-want) > tolerance {
					t.Errorf("face %d frequency = %.4f, want %.4f ± %.2f", face, got, want, tolerance)
				}
			}
		})
	}
}
