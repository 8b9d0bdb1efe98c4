package qstate

import (
	"fmt"
	"math"
)

// invSqrt2 is the Hadamard's normalization constant.
var invSqrt2 = complex(1/math.Sqrt(2), 0)

// Apply dispatches a named intrinsic gate to the given (already
// global-index-resolved) qubit list. Unknown names are reported rather
// than silently ignored, matching the teacher's habit of returning a
// typed error from every operand-shape mismatch instead of panicking.
func (s *State) Apply(name string, qubits []int) error {
	switch name {
	case "h":
		return s.apply1(qubits, applyH)
	case "x":
		return s.apply1(qubits, applyX)
	case "y":
		return s.apply1(qubits, applyY)
	case "z":
		return s.apply1(qubits, applyZ)
	case "s":
		return s.apply1(qubits, applyS)
	case "sdg":
		return s.apply1(qubits, applySdg)
	case "t":
		return s.apply1(qubits, applyT)
	case "tdg":
		return s.apply1(qubits, applyTdg)
	case "cx", "cnot":
		return s.apply2(qubits, applyCX)
	case "cz":
		return s.apply2(qubits, applyCZ)
	case "swap":
		return s.apply2(qubits, applySwap)
	case "ccx", "toffoli":
		return s.apply3(qubits, applyCCX)
	case "barrier", "id":
		return nil
	default:
		return fmt.Errorf("unsupported gate %q", name)
	}
}

// Inverse returns the gate name whose application undoes name. Every gate
// this debugger simulates is drawn from the Clifford+T set, each
// self-inverse except s/sdg and t/tdg.
func Inverse(name string) (string, error) {
	switch name {
	case "h", "x", "y", "z", "cx", "cnot", "cz", "swap", "ccx", "toffoli", "barrier", "id":
		return name, nil
	case "s":
		return "sdg", nil
	case "sdg":
		return "s", nil
	case "t":
		return "tdg", nil
	case "tdg":
		return "t", nil
	default:
		return "", fmt.Errorf("gate %q has no known inverse", name)
	}
}

// ApplyInverse applies the inverse of the named gate.
func (s *State) ApplyInverse(name string, qubits []int) error {
	inv, err := Inverse(name)
	if err != nil {
		return err
	}
	return s.Apply(inv, qubits)
}

func (s *State) apply1(qubits []int, fn func(*State, int)) error {
	if len(qubits) != 1 {
		return fmt.Errorf("single-qubit gate requires 1 target, got %d", len(qubits))
	}
	if err := s.checkQubit(qubits[0]); err != nil {
		return err
	}
	fn(s, qubits[0])
	return nil
}

func (s *State) apply2(qubits []int, fn func(*State, int, int)) error {
	if len(qubits) != 2 {
		return fmt.Errorf("two-qubit gate requires 2 targets, got %d", len(qubits))
	}
	if err := s.checkQubit(qubits[0]); err != nil {
		return err
	}
	if err := s.checkQubit(qubits[1]); err != nil {
		return err
	}
	fn(s, qubits[0], qubits[1])
	return nil
}

func (s *State) apply3(qubits []int, fn func(*State, int, int, int)) error {
	if len(qubits) != 3 {
		return fmt.Errorf("three-qubit gate requires 3 targets, got %d", len(qubits))
	}
	for _, q := range qubits {
		if err := s.checkQubit(q); err != nil {
			return err
		}
	}
	fn(s, qubits[0], qubits[1], qubits[2])
	return nil
}

func (s *State) checkQubit(q int) error {
	if q < 0 || q >= s.NumQubits {
		return fmt.Errorf("qubit %d out of range for %d-qubit state", q, s.NumQubits)
	}
	return nil
}

func applyH(s *State, qubit int) {
	mask := 1 << qubit
	for i := 0; i < len(s.Amplitudes); i++ {
		if i&mask == 0 {
			j := i | mask
			a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = invSqrt2 * (a0 + a1)
			s.Amplitudes[j] = invSqrt2 * (a0 - a1)
		}
	}
}

func applyX(s *State, qubit int) {
	mask := 1 << qubit
	for i := range s.Amplitudes {
		if i&mask == 0 {
			j := i | mask
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func applyY(s *State, qubit int) {
	mask := 1 << qubit
	i1 := complex(0, 1)
	for idx := range s.Amplitudes {
		if idx&mask == 0 {
			j := idx | mask
			a0 := s.Amplitudes[idx]
			a1 := s.Amplitudes[j]
			s.Amplitudes[idx] = -i1 * a1
			s.Amplitudes[j] = i1 * a0
		}
	}
}

func applyZ(s *State, qubit int) {
	mask := 1 << qubit
	for i := range s.Amplitudes {
		if i&mask != 0 {
			s.Amplitudes[i] = -s.Amplitudes[i]
		}
	}
}

func applyS(s *State, qubit int) {
	mask := 1 << qubit
	i1 := complex(0, 1)
	for i := range s.Amplitudes {
		if i&mask != 0 {
			s.Amplitudes[i] *= i1
		}
	}
}

func applySdg(s *State, qubit int) {
	mask := 1 << qubit
	negI := complex(0, -1)
	for i := range s.Amplitudes {
		if i&mask != 0 {
			s.Amplitudes[i] *= negI
		}
	}
}

func applyT(s *State, qubit int) {
	mask := 1 << qubit
	phase := complex(math.Sqrt2/2, math.Sqrt2/2)
	for i := range s.Amplitudes {
		if i&mask != 0 {
			s.Amplitudes[i] *= phase
		}
	}
}

func applyTdg(s *State, qubit int) {
	mask := 1 << qubit
	phase := complex(math.Sqrt2/2, -math.Sqrt2/2)
	for i := range s.Amplitudes {
		if i&mask != 0 {
			s.Amplitudes[i] *= phase
		}
	}
}

func applyCX(s *State, control, target int) {
	controlMask := 1 << control
	targetMask := 1 << target
	for i := 0; i < len(s.Amplitudes); i++ {
		if i&controlMask != 0 && i&targetMask == 0 {
			j := i | targetMask
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func applyCZ(s *State, control, target int) {
	controlMask := 1 << control
	targetMask := 1 << target
	for i := range s.Amplitudes {
		if i&controlMask != 0 && i&targetMask != 0 {
			s.Amplitudes[i] = -s.Amplitudes[i]
		}
	}
}

func applySwap(s *State, q1, q2 int) {
	mask1 := 1 << q1
	mask2 := 1 << q2
	for i := range s.Amplitudes {
		if i&mask1 != 0 && i&mask2 == 0 {
			j := (i &^ mask1) | mask2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func applyCCX(s *State, c1, c2, target int) {
	controlMask := (1 << c1) | (1 << c2)
	targetMask := 1 << target
	for i := range s.Amplitudes {
		if i&controlMask == controlMask && i&targetMask == 0 {
			j := i | targetMask
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}
