package diagnostics_test

import (
	"testing"

	"github.com/lookbusy1344/qasm-assert-debugger/diagnostics"
	"github.com/lookbusy1344/qasm-assert-debugger/program"
)

func load(t *testing.T, src string) *program.Program {
	t.Helper()
	prog, errs := program.Load(src)
	if errs != nil {
		t.Fatalf("Load(%q): %v", src, errs)
	}
	return prog
}

func TestDataDependenciesFindsDirectProducer(t *testing.T) {
	src := "qreg q[2]; h q[0]; cx q[0], q[1]; assert-ent q[0], q[1];"
	prog := load(t, src)
	d := diagnostics.New(prog)

	deps := d.DataDependencies(3, false)
	if len(deps) == 0 {
		t.Fatal("expected at least one dependency for the assertion")
	}
	found := false
	for _, dep := range deps {
		in, _ := prog.InstructionAt(dep)
		if in.GateName == "cx" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the cx instruction among dependencies, got %v", deps)
	}
}

func TestDataDependenciesFollowsThroughCall(t *testing.T) {
	src := "gate bell a, b { h a; cx a, b; } qreg q[2]; bell q[0], q[1]; assert-ent q[0], q[1];"
	prog := load(t, src)
	d := diagnostics.New(prog)

	assertionIdx := -1
	for i, in := range prog.Instructions {
		if in.Kind == program.KindAssertion {
			assertionIdx = i
		}
	}
	if assertionIdx < 0 {
		t.Fatal("no assertion found")
	}

	deps := d.DataDependencies(assertionIdx, false)
	foundCx := false
	for _, dep := range deps {
		in, _ := prog.InstructionAt(dep)
		if in.GateName == "cx" {
			foundCx = true
		}
	}
	if !foundCx {
		t.Errorf("expected the dependency search to descend into the callee body, got %v", deps)
	}
}

func TestInteractionsGrowsAcrossSharedQubits(t *testing.T) {
	src := "qreg q[3]; h q[0]; cx q[0], q[1]; cx q[1], q[2]; assert-ent q[0], q[2];"
	prog := load(t, src)
	d := diagnostics.New(prog)

	assertionIdx := prog.Count() - 1
	reach := d.Interactions(assertionIdx, 0)
	set := map[int]bool{}
	for _, q := range reach {
		set[q] = true
	}
	if !set[0] || !set[1] || !set[2] {
		t.Errorf("expected qubits 0,1,2 to all be reachable, got %v", reach)
	}
}

func TestInteractionsDoesNotCrossUnrelatedQubits(t *testing.T) {
	src := "qreg q[3]; h q[0]; cx q[0], q[1]; x q[2]; assert-ent q[0], q[1];"
	prog := load(t, src)
	d := diagnostics.New(prog)

	assertionIdx := prog.Count() - 1
	reach := d.Interactions(assertionIdx, 0)
	for _, q := range reach {
		if q == 2 {
			t.Errorf("qubit 2 should not be reachable from qubit 0, got %v", reach)
		}
	}
}

func TestZeroControlTrackingAndOverrule(t *testing.T) {
	src := "qreg q[2]; cx q[0], q[1];"
	prog := load(t, src)
	d := diagnostics.New(prog)

	d.RecordControl(1, 0, true)
	zeros := d.ZeroControlInstructions()
	if len(zeros) != 1 || zeros[0] != 1 {
		t.Fatalf("ZeroControlInstructions = %v, want [1]", zeros)
	}

	d.RecordControl(1, 0, false)
	zeros = d.ZeroControlInstructions()
	if len(zeros) != 0 {
		t.Errorf("non-zero observation should overrule zero, got %v", zeros)
	}
}

func TestPotentialErrorCausesReportsMissingInteraction(t *testing.T) {
	src := "qreg q[2]; h q[0]; x q[1]; assert-ent q[0], q[1];"
	prog := load(t, src)
	d := diagnostics.New(prog)

	assertionIdx := prog.Count() - 1
	d.RecordActualQubits(1, []int{0}) // h q[0]
	d.RecordActualQubits(2, []int{1}) // x q[1]

	causes := d.PotentialErrorCauses(assertionIdx, 0)
	found := false
	for _, c := range causes {
		if c.Kind == diagnostics.CauseMissingInteraction && c.QubitA == 0 && c.QubitB == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a MissingInteraction cause for q[0],q[1], got %+v", causes)
	}
}

func TestPotentialErrorCausesReportsControlAlwaysZero(t *testing.T) {
	src := "qreg q[2]; cx q[0], q[1]; assert-ent q[0], q[1];"
	prog := load(t, src)
	d := diagnostics.New(prog)

	d.RecordControl(1, 0, true)
	assertionIdx := prog.Count() - 1

	causes := d.PotentialErrorCauses(assertionIdx, 0)
	found := false
	for _, c := range causes {
		if c.Kind == diagnostics.CauseControlAlwaysZero && c.Instr == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a ControlAlwaysZero cause at instruction 1, got %+v", causes)
	}
}

func TestSuggestAssertionMovementsOverDisjointGate(t *testing.T) {
	src := "qreg q[3]; h q[0]; cx q[0], q[1]; cx q[0], q[2]; x q[2]; assert-eq 0.9, q[0], q[1] { 1,0,0,0 };"
	prog := load(t, src)
	d := diagnostics.New(prog)

	moves := d.SuggestAssertionMovements(0)
	if len(moves) != 1 {
		t.Fatalf("SuggestAssertionMovements = %+v, want exactly one suggestion", moves)
	}
	assertionIdx := prog.Count() - 1
	if moves[0].OriginalIndex != assertionIdx {
		t.Errorf("OriginalIndex = %d, want %d", moves[0].OriginalIndex, assertionIdx)
	}
	xIdx := -1
	for i, in := range prog.Instructions {
		if in.GateName == "x" {
			xIdx = i
		}
	}
	if moves[0].NewIndex != xIdx {
		t.Errorf("NewIndex = %d, want %d (right before the disjoint x q[2])", moves[0].NewIndex, xIdx)
	}
}

func TestSuggestAssertionMovementsStopsAtMeasurement(t *testing.T) {
	src := "qreg q[1]; creg c[1]; h q[0]; measure q[0] -> c[0]; assert-sup q[0];"
	prog := load(t, src)
	d := diagnostics.New(prog)

	assertionIdx := prog.Count() - 1
	moves := d.SuggestAssertionMovements(0)
	for _, m := range moves {
		if m.OriginalIndex == assertionIdx {
			t.Errorf("measurement is irreversible and should block movement, got move to %d", m.NewIndex)
		}
	}
}

func TestSuggestAssertionMovementsFixedPoint(t *testing.T) {
	src := "qreg q[3]; h q[0]; cx q[0], q[1]; cx q[0], q[2]; x q[2]; assert-eq 0.9, q[0], q[1] { 1,0,0,0 };"
	prog := load(t, src)
	d := diagnostics.New(prog)

	first := d.SuggestAssertionMovements(0)
	if len(first) != 1 {
		t.Fatalf("expected one suggestion, got %+v", first)
	}

	moved := "qreg q[3]; h q[0]; cx q[0], q[1]; assert-eq 0.9, q[0], q[1] { 1,0,0,0 }; cx q[0], q[2]; x q[2];"
	prog2 := load(t, moved)
	d2 := diagnostics.New(prog2)
	second := d2.SuggestAssertionMovements(0)
	if len(second) != 0 {
		t.Errorf("re-analysing after applying the move should yield no further suggestions, got %+v", second)
	}
}

func TestSuggestNewAssertionsPairwiseBreakdown(t *testing.T) {
	src := "qreg q[3]; h q[0]; cx q[0], q[1]; cx q[1], q[2]; assert-ent q[0], q[1], q[2];"
	prog := load(t, src)
	d := diagnostics.New(prog)

	assertionIdx := prog.Count() - 1
	suggestions := d.SuggestNewAssertions(assertionIdx, 0)
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 pairwise suggestions for 3 targets, got %+v", suggestions)
	}
	for _, s := range suggestions {
		if s.Position != assertionIdx+1 {
			t.Errorf("suggestion position = %d, want %d", s.Position, assertionIdx+1)
		}
	}
}

func TestSuggestNewAssertionsPathWitness(t *testing.T) {
	src := "qreg q[3]; h q[0]; cx q[0], q[1]; cx q[1], q[2]; assert-ent q[0], q[2];"
	prog := load(t, src)
	d := diagnostics.New(prog)

	d.RecordActualQubits(1, []int{0})
	d.RecordActualQubits(2, []int{0, 1})
	d.RecordActualQubits(3, []int{1, 2})

	assertionIdx := prog.Count() - 1
	suggestions := d.SuggestNewAssertions(assertionIdx, 0)
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 edge suggestions along the witnessed path, got %+v", suggestions)
	}
	if suggestions[0].Position != 3 || suggestions[1].Position != 4 {
		t.Errorf("unexpected witness positions: %+v", suggestions)
	}
}

func TestSuggestNewAssertionsEqualitySeparableSplit(t *testing.T) {
	// q[0] is |+>, independent of a Bell pair across q[1],q[2]: one
	// separable qubit plus a non-trivial two-qubit remainder.
	src := "qreg q[3]; h q[0]; h q[1]; cx q[1], q[2]; " +
		"assert-eq 0.9, q[0], q[1], q[2] { 0.5, 0.5, 0, 0, 0, 0, 0.5, 0.5 };"
	prog := load(t, src)
	d := diagnostics.New(prog)

	assertionIdx := prog.Count() - 1
	suggestions := d.SuggestNewAssertions(assertionIdx, 0)
	if len(suggestions) != 2 {
		t.Fatalf("expected one single-qubit suggestion plus one covering the entangled remainder, got %+v", suggestions)
	}
}

func TestSuggestNewAssertionsSkipsFullyEntangledEquality(t *testing.T) {
	src := "qreg q[2]; h q[0]; cx q[0], q[1]; assert-eq 0.9, q[0], q[1] { 0.70710678, 0, 0, 0.70710678 };"
	prog := load(t, src)
	d := diagnostics.New(prog)

	assertionIdx := prog.Count() - 1
	suggestions := d.SuggestNewAssertions(assertionIdx, 0)
	if len(suggestions) != 0 {
		t.Errorf("a Bell state has no separable qubits; expected no suggestions, got %+v", suggestions)
	}
}

func TestSuggestNewAssertionsSkipsFullySeparableEquality(t *testing.T) {
	src := "qreg q[2]; h q[0]; x q[1]; assert-eq 0.9, q[0], q[1] { 0, 0, 0.70710678, 0.70710678 };"
	prog := load(t, src)
	d := diagnostics.New(prog)

	assertionIdx := prog.Count() - 1
	suggestions := d.SuggestNewAssertions(assertionIdx, 0)
	if len(suggestions) != 0 {
		t.Errorf("a fully separable 2-qubit state has no remainder and should be skipped, got %+v", suggestions)
	}
}
