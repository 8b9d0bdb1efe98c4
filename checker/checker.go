// Package checker evaluates the three runtime assertion kinds against the
// current quantum state, including partial-trace sub-state extraction and
// the mutual-information entanglement test. It is consulted by the
// execution engine at every ASSERTION instruction; grounded on the
// teacher's separation of "owns the state" (vm/executor.go) from "reads
// the state to answer a question" (vm/stack_trace.go).
package checker

import (
	"fmt"

	"github.com/lookbusy1344/qasm-assert-debugger/assertion"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// Context is the narrow slice of engine state the checker needs. The
// engine implements it directly; the checker never imports the engine
// package, avoiding an import cycle (the engine already imports checker
// to invoke it at ASSERTION nodes).
type Context interface {
	// NumQubits is the total number of qubits in the current program.
	NumQubits() int
	// Amplitudes returns the full state vector, indexed LSB-first.
	Amplitudes() []complex128
	// DensityMatrix returns the full pure-state density matrix rho=|psi><psi|.
	DensityMatrix() util.Matrix
	// ResolveQubit maps a (possibly call-substituted) target reference to
	// its global qubit index.
	ResolveQubit(ref string) (int, error)
}

// CircuitRunner simulates a reference circuit's source to completion and
// returns its resulting state, for Equality/Circuit assertions. The
// engine supplies this as a closure over its own Load+run-all, since
// package checker cannot import package engine.
type CircuitRunner func(source string) (Context, error)

// Checker evaluates assertions. RunCircuit may be nil if the caller never
// evaluates a circuit-bodied equality assertion.
type Checker struct {
	RunCircuit CircuitRunner
}

// New creates a Checker. runCircuit may be nil.
func New(runCircuit CircuitRunner) *Checker {
	return &Checker{RunCircuit: runCircuit}
}

// Check evaluates a against ctx's current state. The bool result is the
// assertion's pass/fail outcome; a non-nil error indicates a structural
// problem (unresolvable target, non-separable sub-state, nested
// assertions in a circuit body) rather than a false assertion.
func (c *Checker) Check(ctx Context, a *assertion.Assertion) (bool, error) {
	switch a.Kind {
	case assertion.KindEntanglement:
		return c.checkEntanglement(ctx, a)
	case assertion.KindSuperposition:
		return c.checkSuperposition(ctx, a)
	case assertion.KindEquality:
		return c.checkEquality(ctx, a)
	default:
		return false, fmt.Errorf("unknown assertion kind %v", a.Kind)
	}
}
