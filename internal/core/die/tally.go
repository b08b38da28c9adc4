package die

// Probability returns the chance of landing on face.
// Faces outside [1, Sides] have probability 0.
func Probability(face int, cheating bool) float64 {
	if face < 1 || face > Sides {
		return 0
	}
	fair := 1.0 / Sides
	if !cheating {
		return fair
	}
	if face == LoadedFace {
		return 0.5 + 0.5*fair
	}
	return 0.5 * fair
}

// Tally counts how often each face came up.
type Tally [Sides]int

// Add counts one occurrence of face. Out-of-range faces are ignored.
func (t *Tally) Add(face int) {
	if face < 1 || face > Sides {
		return
	}
	t[face-1]++
}

// Count returns how many times face was added.
func (t Tally) Count(face int) int {
	if face < 1 || face > Sides {
		return 0
	}
	return t[face-1]
}

// Total returns the number of faces added.
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Frequency returns the observed share of face, or 0 for an empty tally.
func (t Tally) Frequency(face int) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.Count(face)) / float64(total)
}
