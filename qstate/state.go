// Package qstate is the debugger's concrete stand-in for the quantum
// decision-diagram package the specification treats as an external black
// box: a statevector-based simulator exposing gate application and
// inversion, collapse onto a caller-chosen outcome, and the handful of
// DD-level queries (amplitude lookup, single-qubit zero probability) the
// engine and checker need; the engine builds measurement and reset from
// these. Its amplitude-slice design and gate dispatch are grounded on
// kegliz-qplay's qsim.QuantumState; this package generalizes that fixed
// gate switch into a named, reversible-aware gate table and adds the
// debugger-specific invariant that every collapse is reported back to the
// caller instead of being hidden inside the simulator.
package qstate

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// State is a pure-statevector quantum state over NumQubits qubits.
type State struct {
	NumQubits  int
	Amplitudes []complex128
}

// NewState creates the all-zero state |0...0>.
func NewState(numQubits int) *State {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &State{NumQubits: numQubits, Amplitudes: amps}
}

// Clone returns an independent deep copy.
func (s *State) Clone() *State {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &State{NumQubits: s.NumQubits, Amplitudes: amps}
}

// Normalize rescales the amplitudes to unit norm; a no-op near-zero state
// is left untouched to avoid dividing by zero.
func (s *State) Normalize() {
	var norm float64
	for _, a := range s.Amplitudes {
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	if norm <= util.DefaultEpsilon {
		return
	}
	norm = math.Sqrt(norm)
	inv := complex(1/norm, 0)
	for i := range s.Amplitudes {
		s.Amplitudes[i] *= inv
	}
}

// ProbabilityZero returns P(qubit == 0) under the current state.
func (s *State) ProbabilityZero(qubit int) float64 {
	mask := 1 << qubit
	var p float64
	for i, a := range s.Amplitudes {
		if i&mask == 0 {
			p += real(a * cmplx.Conj(a))
		}
	}
	return p
}

// Collapse projects the state onto the subspace where qubit equals
// outcome, and renormalizes. It does not draw any randomness itself — the
// caller (the engine, honoring the specification's RNG-is-implementation-
// defined non-goal) decides the outcome and only asks the state to apply
// it.
func (s *State) Collapse(qubit int, outcome bool) {
	mask := 1 << qubit
	want := 0
	if outcome {
		want = mask
	}
	var norm float64
	for i, a := range s.Amplitudes {
		if i&mask == want {
			norm += real(a * cmplx.Conj(a))
		} else {
			s.Amplitudes[i] = 0
		}
	}
	if norm <= util.DefaultEpsilon {
		return
	}
	inv := complex(1/math.Sqrt(norm), 0)
	for i := range s.Amplitudes {
		if i&mask == want {
			s.Amplitudes[i] *= inv
		}
	}
}

// DensityMatrix returns the full pure-state density matrix, for use by
// the checker and diagnostics' entanglement/purity tests.
func (s *State) DensityMatrix() util.Matrix {
	return util.DensityMatrix(s.Amplitudes)
}

// AmplitudeAt returns the amplitude of computational basis state index i
// (LSB-first: bit b of i is qubit b).
func (s *State) AmplitudeAt(i int) (complex128, error) {
	if i < 0 || i >= len(s.Amplitudes) {
		return 0, fmt.Errorf("amplitude index %d out of range [0,%d)", i, len(s.Amplitudes))
	}
	return s.Amplitudes[i], nil
}

// AmplitudeAtBitstring returns the amplitude addressed by an LSB-first
// bitstring such as "01" (qubit 0 = '1', qubit 1 = '0').
func (s *State) AmplitudeAtBitstring(bits string) (complex128, error) {
	if len(bits) != s.NumQubits {
		return 0, fmt.Errorf("bitstring length %d does not match %d qubits", len(bits), s.NumQubits)
	}
	idx := 0
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '1':
			idx |= 1 << i
		case '0':
		default:
			return 0, fmt.Errorf("invalid bit %q in bitstring %q", bits[i], bits)
		}
	}
	return s.AmplitudeAt(idx)
}
