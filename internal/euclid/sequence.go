package euclid

import (
	"iter"
	"slices"
)

// All returns the sequence made of st and every row that follows it.
// The sequence is finite: it stops after the row whose remainder is zero.
func (st Step) All() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for cur, ok := st, true; ok; cur, ok = cur.Next() {
			if !yield(cur) {
				return
			}
		}
	}
}

// Sequence validates a and b and returns the lazy sequence of rows of the
// extended Euclidean algorithm, starting with the initial row.
func Sequence(a, b int64) (iter.Seq[Step], error) {
	first, err := New(a, b)
	if err != nil {
		return nil, err
	}
	return first.All(), nil
}

// Trace returns every row of the algorithm for a and b. The last element is
// the final row.
func Trace(a, b int64) ([]Step, error) {
	seq, err := Sequence(a, b)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// Stepper walks the rows one at a time, in the style of an iterator that
// advances in place.
type Stepper struct {
	first Step
	cur   Step
	index int
}

// NewStepper returns a Stepper positioned on the initial row.
func NewStepper(a, b int64) (*Stepper, error) {
	first, err := New(a, b)
	if err != nil {
		return nil, err
	}
	return &Stepper{first: first, cur: first}, nil
}

// Current returns the row the Stepper is positioned on.
func (sp *Stepper) Current() Step { return sp.cur }

// Index returns the position of the current row, starting at 0.
func (sp *Stepper) Index() int { return sp.index }

// Advance moves to the next row. It returns false, leaving the Stepper on
// the final row, once the sequence is exhausted; further calls keep
// returning false.
func (sp *Stepper) Advance() bool {
	next, ok := sp.cur.Next()
	if !ok {
		return false
	}
	sp.cur = next
	sp.index++
	return true
}

// Reset moves the Stepper back to the initial row.
func (sp *Stepper) Reset() {
	sp.cur = sp.first
	sp.index = 0
}
