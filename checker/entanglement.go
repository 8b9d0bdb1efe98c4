package checker

import (
	"github.com/lookbusy1344/qasm-assert-debugger/assertion"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// checkEntanglement builds the full density matrix once, then for every
// ordered pair of distinct targets marginalizes to their 4x4 reduced
// density matrix and tests mutual-information positivity. Any unentangled
// pair fails the assertion.
func (c *Checker) checkEntanglement(ctx Context, a *assertion.Assertion) (bool, error) {
	indices := make([]int, len(a.Targets))
	for i, t := range a.Targets {
		idx, err := ctx.ResolveQubit(t)
		if err != nil {
			return false, err
		}
		indices[i] = idx
	}

	rho := ctx.DensityMatrix()
	n := ctx.NumQubits()

	for i := 0; i < len(indices); i++ {
		for j := i + 1; j < len(indices); j++ {
			pair := util.PartialTrace(rho, n, []int{indices[i], indices[j]})
			if !util.MutualInformationPositive(pair) {
				return false, nil
			}
		}
	}
	return true, nil
}
