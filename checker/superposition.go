package checker

import (
	"github.com/lookbusy1344/qasm-assert-debugger/assertion"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// checkSuperposition enumerates every basis state with non-negligible
// amplitude and extracts each one's bit pattern over the target qubits;
// the assertion holds iff at least two distinct patterns occur (the
// targets are not pinned to one product basis state).
func (c *Checker) checkSuperposition(ctx Context, a *assertion.Assertion) (bool, error) {
	indices := make([]int, len(a.Targets))
	for i, t := range a.Targets {
		idx, err := ctx.ResolveQubit(t)
		if err != nil {
			return false, err
		}
		indices[i] = idx
	}

	patterns := make(map[int]bool)
	for basis, amp := range ctx.Amplitudes() {
		if util.NegligibleAmplitude(amp) {
			continue
		}
		pattern := 0
		for i, q := range indices {
			if basis&(1<<q) != 0 {
				pattern |= 1 << i
			}
		}
		patterns[pattern] = true
		if len(patterns) >= 2 {
			return true, nil
		}
	}
	return false, nil
}
