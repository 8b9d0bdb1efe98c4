package util_test

import (
	"math"
	"testing"

	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

func TestVariablesEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical indexed", "q[0]", "q[0]", true},
		{"different index", "q[0]", "q[1]", false},
		{"register aliases index", "q", "q[3]", true},
		{"index aliases register", "q[3]", "q", true},
		{"different registers", "q", "r", false},
		{"bare registers equal", "q", "q", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := util.VariablesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("VariablesEqual(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestVariableBaseAndIndex(t *testing.T) {
	if got := util.VariableBase("q[2]"); got != "q" {
		t.Errorf("VariableBase = %q, want q", got)
	}
	idx, ok := util.VariableIndex("q[2]")
	if !ok || idx != 2 {
		t.Errorf("VariableIndex = (%d, %v), want (2, true)", idx, ok)
	}
	if _, ok := util.VariableIndex("q"); ok {
		t.Error("VariableIndex on bare register should report false")
	}
}

func TestDensityMatrixOfBellPairIsPure(t *testing.T) {
	amp := 1 / math.Sqrt2
	psi := []complex128{complex(amp, 0), 0, 0, complex(amp, 0)}
	rho := util.DensityMatrix(psi)
	if !util.IsPure(rho) {
		t.Errorf("expected Bell state density matrix to be pure, purity=%v", util.Purity(rho))
	}
}

func TestPartialTraceOfBellPairIsMixed(t *testing.T) {
	amp := 1 / math.Sqrt2
	psi := []complex128{complex(amp, 0), 0, 0, complex(amp, 0)}
	rho := util.DensityMatrix(psi)

	sub := util.PartialTrace(rho, 2, []int{0})
	if util.IsPure(sub) {
		t.Errorf("expected single-qubit reduction of a Bell pair to be mixed, purity=%v", util.Purity(sub))
	}
}

func TestPartialTraceOfProductStateIsPure(t *testing.T) {
	// |+0> = (|00> + |10>)/sqrt(2): qubit 0 always |0>, qubit 1 in superposition, unentangled.
	amp := 1 / math.Sqrt2
	psi := []complex128{complex(amp, 0), 0, complex(amp, 0), 0}
	rho := util.DensityMatrix(psi)

	sub := util.PartialTrace(rho, 2, []int{0})
	if !util.IsPure(sub) {
		t.Errorf("expected product-state reduction to be pure, purity=%v", util.Purity(sub))
	}
}

func TestMutualInformationDetectsEntanglement(t *testing.T) {
	amp := 1 / math.Sqrt2
	bell := util.DensityMatrix([]complex128{complex(amp, 0), 0, 0, complex(amp, 0)})
	if !util.MutualInformationPositive(bell) {
		t.Error("expected Bell pair to show positive mutual information")
	}

	product := util.DensityMatrix([]complex128{complex(amp, 0), 0, complex(amp, 0), 0})
	if util.MutualInformationPositive(product) {
		t.Error("expected product state to show zero mutual information")
	}
}

func TestDominantEigenvectorRecoversPureSubstate(t *testing.T) {
	amp := 1 / math.Sqrt2
	psi := []complex128{complex(amp, 0), 0, complex(amp, 0), 0}
	rho := util.DensityMatrix(psi)
	sub := util.PartialTrace(rho, 2, []int{1}) // qubit 1 is in |+>

	vec := util.DominantEigenvector(sub)
	// |+> = (|0>+|1>)/sqrt(2), up to global phase: both amplitudes equal magnitude.
	if math.Abs(util.Magnitude(vec[0])-util.Magnitude(vec[1])) > 1e-6 {
		t.Errorf("expected equal-magnitude amplitudes for |+>, got %v", vec)
	}
}
