package euclid

import (
	"fmt"
	"math/big"
	"math/bits"

	apperrors "github.com/agbru/euclid/internal/errors"
)

// Verify checks the row invariants:
//
//	r == x mod y
//	y == s*a + t*b
//	x == u*a + v*b
//
// and, on the final row, that y == gcd(a, b) and that t is the inverse of b
// modulo a whenever y == 1.
//
// The cofactor products may wrap around for inputs near the int64 limit. The
// true sums fit in int64, and wrapping arithmetic is exact modulo 2^64, so the
// comparisons remain correct.
func (st Step) Verify() error {
	if st.y <= 0 || st.r < 0 || st.r >= st.y || st.r != st.x%st.y {
		return invariantError("r == x mod y", st)
	}
	if st.y != st.s*st.a+st.t*st.b {
		return invariantError("y == s*a + t*b", st)
	}
	if st.x != st.u*st.a+st.v*st.b {
		return invariantError("x == u*a + v*b", st)
	}
	if !st.Done() {
		return nil
	}

	if g := GCD(st.a, st.b); st.y != g {
		return invariantError(fmt.Sprintf("y == gcd(a, b) == %d", g), st)
	}
	// Every residue mod 1 is 0, so a == 1 has no meaningful inverse.
	if st.y == 1 && st.a > 1 && !isInverse(st.t, st.b, st.a) {
		return invariantError("t*b mod a == 1", st)
	}
	return nil
}

func invariantError(check string, st Step) error {
	return &apperrors.InvariantError{
		Check:  check,
		Detail: fmt.Sprintf("a=%d b=%d %s", st.a, st.b, st),
	}
}

// isInverse reports whether t*b ≡ 1 (mod m).
func isInverse(t, b, m int64) bool {
	prod := new(big.Int).Mul(big.NewInt(t), big.NewInt(b))
	prod.Mod(prod, big.NewInt(m))
	return prod.IsInt64() && prod.Int64() == 1
}

// GCD returns the greatest common divisor of two positive integers using the
// binary algorithm. It shares no code with the division recurrence so it can
// serve as an independent check of it.
func GCD(a, b int64) int64 {
	m, n := uint64(a), uint64(b)
	if m == 0 {
		return int64(n)
	}
	if n == 0 {
		return int64(m)
	}
	shift := bits.TrailingZeros64(m | n)
	m >>= bits.TrailingZeros64(m)
	for n != 0 {
		n >>= bits.TrailingZeros64(n)
		if m > n {
			m, n = n, m
		}
		n -= m
	}
	return int64(m << shift)
}
