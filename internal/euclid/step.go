package euclid

import (
	"errors"
	"fmt"

	apperrors "github.com/agbru/euclid/internal/errors"
)

// ErrInvalidInput classifies construction failures: both inputs must be
// positive and distinct.
var ErrInvalidInput = errors.New("the numbers must not be 0, negative, or equal to one another")

// Step is one row of the extended Euclidean algorithm.
//
// The zero value is not a valid row; use [New].
type Step struct {
	// originals, kept only for validation
	a, b int64

	x, y int64
	q, r int64
	u, s int64
	v, t int64
}

// New builds the first row for the inputs a and b.
//
// The inputs are not reordered: when a < b the first row has q == 0 and
// r == a, and the second row swaps the operands.
func New(a, b int64) (Step, error) {
	if err := validateInputs(a, b); err != nil {
		return Step{}, err
	}
	st := Step{a: a, b: b, x: a, y: b, u: 1, s: 0, v: 0, t: 1}
	st.q, st.r = divide(st.x, st.y)
	return st, nil
}

func validateInputs(a, b int64) error {
	switch {
	case a <= 0:
		return apperrors.ValidationError{Field: "a", Message: fmt.Sprintf("must be positive, got %d", a), Err: ErrInvalidInput}
	case b <= 0:
		return apperrors.ValidationError{Field: "b", Message: fmt.Sprintf("must be positive, got %d", b), Err: ErrInvalidInput}
	case a == b:
		return apperrors.ValidationError{Field: "b", Message: fmt.Sprintf("must differ from a (both are %d)", a), Err: ErrInvalidInput}
	}
	return nil
}

// divide returns the quotient and remainder of x / y for positive operands.
func divide(x, y int64) (q, r int64) {
	q = x / y
	return q, x - q*y
}

// Next returns the row following st. The boolean is false once st is the
// final row (r == 0); calling Next on a final row any number of times keeps
// returning false.
//
// Next panics with an *apperrors.InvariantError if the computed row breaks
// the recurrence. That can only happen through a defect in this package,
// never through input.
func (st Step) Next() (Step, bool) {
	if st.Done() {
		return Step{}, false
	}

	next := Step{
		a: st.a,
		b: st.b,
		x: st.y,
		y: st.r,
		u: st.s,
		s: st.u - st.q*st.s,
		v: st.t,
		t: st.v - st.q*st.t,
	}
	next.q, next.r = divide(next.x, next.y)

	if err := next.Verify(); err != nil {
		panic(err)
	}
	return next, true
}

// Done reports whether st is the final row.
func (st Step) Done() bool { return st.r == 0 }

// A returns the first original input.
func (st Step) A() int64 { return st.a }

// B returns the second original input.
func (st Step) B() int64 { return st.b }

// X returns the dividend of this row.
func (st Step) X() int64 { return st.x }

// Y returns the divisor of this row.
func (st Step) Y() int64 { return st.y }

// Q returns the quotient x / y.
func (st Step) Q() int64 { return st.q }

// R returns the remainder x mod y.
func (st Step) R() int64 { return st.r }

// U returns the cofactor of a in x.
func (st Step) U() int64 { return st.u }

// S returns the cofactor of a in y.
func (st Step) S() int64 { return st.s }

// V returns the cofactor of b in x.
func (st Step) V() int64 { return st.v }

// T returns the cofactor of b in y.
func (st Step) T() int64 { return st.t }

// Summary returns the closing line of a trace. It is only meaningful on the
// final row.
func (st Step) Summary() string {
	return fmt.Sprintf("The GCD of %d and %d is %d", st.a, st.b, st.y)
}

// String renders the row as space separated name=value pairs.
func (st Step) String() string {
	return fmt.Sprintf("x=%d y=%d q=%d r=%d u=%d s=%d v=%d t=%d",
		st.x, st.y, st.q, st.r, st.u, st.s, st.v, st.t)
}
