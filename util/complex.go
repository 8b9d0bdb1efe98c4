package util

import "math/cmplx"

// DefaultEpsilon is the single tolerance used everywhere an amplitude,
// probability, or eigenvalue needs to be treated as "zero". The original
// implementation this debugger is modeled on used two different values
// (1e-10 and 1e-8) depending on the call site; this module centralizes on
// one, as spec.md's open questions recommend.
const DefaultEpsilon = 1e-10

// AddComplex adds two complex numbers.
func AddComplex(a, b complex128) complex128 { return a + b }

// MulComplex multiplies two complex numbers.
func MulComplex(a, b complex128) complex128 { return a * b }

// Conjugate returns the complex conjugate of a.
func Conjugate(a complex128) complex128 { return cmplx.Conj(a) }

// Magnitude returns |a|.
func Magnitude(a complex128) float64 { return cmplx.Abs(a) }

// NegligibleAmplitude reports whether both components of a are within
// DefaultEpsilon of zero.
func NegligibleAmplitude(a complex128) bool {
	return real(a) > -DefaultEpsilon && real(a) < DefaultEpsilon &&
		imag(a) > -DefaultEpsilon && imag(a) < DefaultEpsilon
}

// ApproxEqual reports whether a and b are within DefaultEpsilon of each other.
func ApproxEqual(a, b float64) bool {
	d := a - b
	return d > -DefaultEpsilon && d < DefaultEpsilon
}
