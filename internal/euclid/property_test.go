package euclid

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// inputGen produces operands up to 2^62 so products of cofactors and inputs
// exercise the wrapping path in Verify.
func inputGen() gopter.Gen {
	return gen.Int64Range(1, 1<<62)
}

func distinct(a, b int64) (int64, int64) {
	if a == b {
		b++
	}
	return a, b
}

// TestFinalDivisorIsGCD_PropertyBased verifies that the last row's divisor
// is gcd(a, b) as computed by math/big.
func TestFinalDivisorIsGCD_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("final y equals gcd(a, b)", prop.ForAll(
		func(a, b int64) bool {
			a, b = distinct(a, b)
			rows, err := Trace(a, b)
			if err != nil {
				t.Logf("Trace(%d, %d): %v", a, b, err)
				return false
			}
			want := new(big.Int).GCD(nil, nil, big.NewInt(a), big.NewInt(b))
			return rows[len(rows)-1].Y() == want.Int64()
		},
		inputGen(), inputGen(),
	))

	properties.TestingRun(t)
}

// TestRowInvariants_PropertyBased verifies r == x mod y and the Bézout
// identities on every row, using exact big.Int arithmetic.
func TestRowInvariants_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("every row satisfies r == x mod y and y == s*a + t*b", prop.ForAll(
		func(a, b int64) bool {
			a, b = distinct(a, b)
			seq, err := Sequence(a, b)
			if err != nil {
				return false
			}
			bigA, bigB := big.NewInt(a), big.NewInt(b)
			for st := range seq {
				if st.R() != st.X()%st.Y() {
					return false
				}
				y := new(big.Int).Mul(big.NewInt(st.S()), bigA)
				y.Add(y, new(big.Int).Mul(big.NewInt(st.T()), bigB))
				if !y.IsInt64() || y.Int64() != st.Y() {
					return false
				}
				x := new(big.Int).Mul(big.NewInt(st.U()), bigA)
				x.Add(x, new(big.Int).Mul(big.NewInt(st.V()), bigB))
				if !x.IsInt64() || x.Int64() != st.X() {
					return false
				}
			}
			return true
		},
		gen.Int64Range(1, 1<<40), gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t)
}

// TestModularInverse_PropertyBased verifies that for coprime inputs with
// a > 1 the final t is the inverse of b modulo a.
func TestModularInverse_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("t*b mod a == 1 when gcd is 1", prop.ForAll(
		func(a, b int64) bool {
			a, b = distinct(a, b)
			rows, err := Trace(a, b)
			if err != nil {
				return false
			}
			final := rows[len(rows)-1]
			if final.Y() != 1 || a == 1 {
				return true
			}
			prod := new(big.Int).Mul(big.NewInt(final.T()), big.NewInt(b))
			return prod.Mod(prod, big.NewInt(a)).Int64() == 1
		},
		gen.Int64Range(2, 1<<31), gen.Int64Range(1, 1<<31),
	))

	properties.TestingRun(t)
}

// TestStepperMatchesSequence_PropertyBased verifies that the in-place
// Stepper visits the same rows as the value sequence.
func TestStepperMatchesSequence_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Stepper and Trace agree", prop.ForAll(
		func(a, b int64) bool {
			a, b = distinct(a, b)
			rows, err := Trace(a, b)
			if err != nil {
				return false
			}
			sp, err := NewStepper(a, b)
			if err != nil {
				return false
			}
			for i, row := range rows {
				if sp.Current() != row {
					return false
				}
				if advanced := sp.Advance(); advanced != (i < len(rows)-1) {
					return false
				}
			}
			return !sp.Advance()
		},
		gen.Int64Range(1, 1<<20), gen.Int64Range(1, 1<<20),
	))

	properties.TestingRun(t)
}
