// Package euclid implements the extended Euclidean algorithm as a sequence of
// rows. Each row records the dividend and divisor of one division step, its
// quotient and remainder, and the Bézout cofactors expressing the dividend and
// divisor as integer combinations of the original inputs:
//
//	x == u*a + v*b
//	y == s*a + t*b
//
// Rows are immutable values: [Step.Next] derives the successor from the
// current row without modifying it, so a trace can be shared, replayed or
// inspected at any point. The sequence ends with the row whose remainder is
// zero; its divisor is gcd(a, b).
package euclid
