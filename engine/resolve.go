package engine

import (
	"fmt"

	"github.com/lookbusy1344/qasm-assert-debugger/checker"
	"github.com/lookbusy1344/qasm-assert-debugger/program"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// resolveRef substitutes a reference used inside the currently executing
// function scope back to a globally-declared register reference, walking
// the active call stack from the innermost frame outward. Each frame's
// Substitution map is keyed by the callee's bare parameter name, so a
// reference that isn't a parameter of the current frame is already fully
// resolved and substitution stops.
func (e *Engine) resolveRef(ref string) string {
	for i := len(e.callStack) - 1; i >= 0; i-- {
		call := e.Program.Instructions[e.callStack[i]]
		sub, ok := call.Substitution[ref]
		if !ok {
			break
		}
		ref = sub
	}
	return ref
}

// resolveQubitIndices resolves a list of (possibly call-substituted)
// qubit references to global qubit indices.
func (e *Engine) resolveQubitIndices(refs []string) ([]int, error) {
	out := make([]int, len(refs))
	for i, r := range refs {
		idx, err := e.Program.Registers.GlobalQubitIndex(e.resolveRef(r))
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// The following methods implement checker.Context, letting the engine
// pass itself directly to Checker.Check.

func (e *Engine) NumQubits() int { return e.Program.Registers.NumQubits() }

func (e *Engine) Amplitudes() []complex128 { return e.State.Amplitudes }

func (e *Engine) DensityMatrix() util.Matrix { return e.State.DensityMatrix() }

func (e *Engine) ResolveQubit(ref string) (int, error) {
	return e.Program.Registers.GlobalQubitIndex(e.resolveRef(ref))
}

// runCircuit is the checker.CircuitRunner this engine supplies for
// circuit-bodied assert-eq: it loads source into a fresh child Engine,
// rejects nested assertions (a circuit-equality reference body must be
// assertion-free), runs it to completion, and hands back the child as a
// checker.Context.
func (e *Engine) runCircuit(source string) (checker.Context, error) {
	child := New()
	if err := child.Load(source); err != nil {
		return nil, fmt.Errorf("loading assert-eq reference circuit: %w", err)
	}
	for _, in := range child.Program.Instructions {
		if in.Kind == program.KindAssertion {
			return nil, fmt.Errorf("assert-eq reference circuit may not contain nested assertions")
		}
	}
	var failed int
	if err := child.RunAll(&failed); err != nil {
		return nil, fmt.Errorf("running assert-eq reference circuit: %w", err)
	}
	return child, nil
}
