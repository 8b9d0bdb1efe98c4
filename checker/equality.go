package checker

import (
	"fmt"
	"math/cmplx"

	"github.com/lookbusy1344/qasm-assert-debugger/assertion"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// checkEquality resolves the targets to a reduced density matrix, extracts
// its pure sub-state (failing with an error if the sub-state is mixed, per
// spec), and compares it against either a literal amplitude list or a
// freshly-simulated reference circuit by inner-product magnitude against
// the assertion's threshold.
func (c *Checker) checkEquality(ctx Context, a *assertion.Assertion) (bool, error) {
	indices := make([]int, len(a.Targets))
	for i, t := range a.Targets {
		idx, err := ctx.ResolveQubit(t)
		if err != nil {
			return false, err
		}
		indices[i] = idx
	}

	rho := ctx.DensityMatrix()
	sub := util.PartialTrace(rho, ctx.NumQubits(), indices)
	if !util.IsPure(sub) {
		return false, fmt.Errorf("assert-eq target qubits are not in a pure sub-state (entangled with qubits outside the target set)")
	}
	subVec := util.DominantEigenvector(sub)

	target, err := c.equalityTarget(a)
	if err != nil {
		return false, err
	}
	if len(target) != len(subVec) {
		return false, fmt.Errorf("assert-eq dimension mismatch: target sub-state has %d amplitudes, comparison has %d", len(subVec), len(target))
	}

	var overlap complex128
	for i := range subVec {
		overlap += util.Conjugate(subVec[i]) * target[i]
	}
	return cmplx.Abs(overlap) >= a.Threshold-util.DefaultEpsilon, nil
}

// equalityTarget produces the comparison amplitude vector for either body
// kind. A circuit body is run to completion through the injected
// CircuitRunner, which is responsible for rejecting circuits that contain
// nested assertions before ever invoking this checker on the result.
func (c *Checker) equalityTarget(a *assertion.Assertion) ([]complex128, error) {
	switch a.Body {
	case assertion.BodyStatevector:
		return a.Amplitudes, nil
	case assertion.BodyCircuit:
		if c.RunCircuit == nil {
			return nil, fmt.Errorf("assert-eq circuit body requires a circuit runner")
		}
		refCtx, err := c.RunCircuit(a.CircuitSource)
		if err != nil {
			return nil, fmt.Errorf("running assert-eq reference circuit: %w", err)
		}
		return refCtx.Amplitudes(), nil
	default:
		return nil, fmt.Errorf("assert-eq has no comparison body")
	}
}
