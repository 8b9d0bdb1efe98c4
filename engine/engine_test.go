package engine_test

import (
	"math/cmplx"
	"testing"

	"github.com/lookbusy1344/qasm-assert-debugger/engine"
)

func newLoaded(t *testing.T, src string) *engine.Engine {
	t.Helper()
	e := engine.New()
	if err := e.Load(src); err != nil {
		t.Fatalf("Load(%q): %v", src, err)
	}
	return e
}

func TestBellStateEntanglementPasses(t *testing.T) {
	e := newLoaded(t, "qreg q[2]; h q[0]; cx q[0], q[1]; assert-ent q[0], q[1];")

	var failed int
	if err := e.RunAll(&failed); err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if failed != 0 {
		t.Errorf("failed-count = %d, want 0", failed)
	}
	if !e.IsFinished() {
		t.Error("expected IsFinished() == true")
	}
}

func TestFailedEntanglementReportsMissingInteraction(t *testing.T) {
	e := newLoaded(t, "qreg q[2]; h q[0]; assert-ent q[0], q[1];")

	var failed int
	if err := e.RunAll(&failed); err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if failed != 1 {
		t.Fatalf("failed-count = %d, want 1", failed)
	}

	assertionIdx := e.GetInstructionCount() - 1
	causes := e.GetDiagnostics().PotentialErrorCauses(assertionIdx, 0)
	if len(causes) != 1 {
		t.Fatalf("PotentialErrorCauses = %+v, want exactly 1", causes)
	}
	if causes[0].Instr != assertionIdx {
		t.Errorf("cause points at instruction %d, want %d", causes[0].Instr, assertionIdx)
	}
}

func TestZeroControlDetectionWithLaterOverrule(t *testing.T) {
	e := newLoaded(t, "qreg q[3]; x q[0]; cx q[1], q[0]; cx q[0], q[1]; assert-sup q[0];")

	var failed int
	if err := e.RunAll(&failed); err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	zeros := e.GetDiagnostics().ZeroControlInstructions()
	if len(zeros) != 1 || zeros[0] != 2 {
		t.Errorf("ZeroControlInstructions = %v, want [2] (the cx q[1],q[0] instruction)", zeros)
	}

	assertionIdx := e.GetInstructionCount() - 1
	causes := e.GetDiagnostics().PotentialErrorCauses(assertionIdx, 0)
	if len(causes) != 0 {
		t.Errorf("expected no error causes once the control reads non-zero later, got %+v", causes)
	}
}

func TestIrreversibleMeasurementBlocksStepBackward(t *testing.T) {
	e := newLoaded(t, "qreg q[1]; creg c[1]; x q[0]; measure q[0] -> c[0];")

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !e.IsFinished() {
		t.Fatal("expected IsFinished() == true after run")
	}

	if err := e.StepBackward(); err == nil {
		t.Error("expected StepBackward to fail after an irreversible measurement")
	}

	v, err := e.GetClassicalVariable("c[0]")
	if err != nil {
		t.Fatalf("GetClassicalVariable: %v", err)
	}
	if !v {
		t.Error("expected c[0] == true after measuring |1>")
	}
}

func TestBreakpointInsideGateBodyLandsOnInnerInstruction(t *testing.T) {
	src := "gate my q { x q; } qreg q[1]; my q[0];"
	e := newLoaded(t, src)

	xOffset := -1
	for i := 0; i < len(src)-2; i++ {
		if src[i] == 'x' && src[i+1] == ' ' && src[i+2] == 'q' {
			xOffset = i
			break
		}
	}
	if xOffset < 0 {
		t.Fatal("could not locate \"x q\" in source")
	}

	target, err := e.SetBreakpoint(xOffset)
	if err != nil {
		t.Fatalf("SetBreakpoint: %v", err)
	}
	if target != 1 {
		t.Errorf("breakpoint resolved to instruction %d, want 1 (the inner x)", target)
	}

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !e.WasBreakpointHit() {
		t.Error("expected the breakpoint to be hit")
	}
	if e.LastBreakpointHit() != 1 {
		t.Errorf("LastBreakpointHit = %d, want 1", e.LastBreakpointHit())
	}
}

func TestAssertionMovementScenario(t *testing.T) {
	e := newLoaded(t, "qreg q[3]; h q[0]; cx q[0], q[1]; cx q[0], q[2]; x q[2]; assert-eq 0.9, q[0], q[1] { 1,0,0,0 };")

	moves := e.GetDiagnostics().SuggestAssertionMovements(0)
	if len(moves) != 1 {
		t.Fatalf("SuggestAssertionMovements = %+v, want exactly one suggestion", moves)
	}
}

func TestStepForwardThenBackwardRestoresStateBeforeMeasurement(t *testing.T) {
	e := newLoaded(t, "qreg q[2]; h q[0]; cx q[0], q[1];")

	before := e.GetStateVectorFull()
	if err := e.StepForward(); err != nil {
		t.Fatalf("StepForward: %v", err)
	}
	if err := e.StepForward(); err != nil {
		t.Fatalf("StepForward: %v", err)
	}
	if err := e.StepBackward(); err != nil {
		t.Fatalf("StepBackward: %v", err)
	}
	if err := e.StepBackward(); err != nil {
		t.Fatalf("StepBackward: %v", err)
	}

	after := e.GetStateVectorFull()
	if len(before) != len(after) {
		t.Fatalf("state vector length changed: %d vs %d", len(before), len(after))
	}
	// Undoing h re-applies h, which restores the state up to floating-point
	// rounding (1/sqrt(2) squared and doubled is 0.9999999999999998).
	for i := range before {
		if cmplx.Abs(after[i]-before[i]) > 1e-9 {
			t.Errorf("amplitude %d = %v after round trip, want %v", i, after[i], before[i])
		}
	}
}

func TestRunAllFailedCountInvariantUnderPause(t *testing.T) {
	src := "qreg q[2]; h q[0]; assert-ent q[0], q[1]; x q[1]; assert-ent q[0], q[1];"

	straight := newLoaded(t, src)
	var straightFailed int
	if err := straight.RunAll(&straightFailed); err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	// A run interrupted partway through (standing in for a user pressing
	// pause) and resumed with a second run-all must report the same total
	// failed-count as one uninterrupted run-all.
	split := newLoaded(t, src)
	if err := split.StepForward(); err != nil { // qreg
		t.Fatalf("StepForward: %v", err)
	}
	if err := split.StepForward(); err != nil { // h q[0]
		t.Fatalf("StepForward: %v", err)
	}
	var splitFailed int
	if err := split.RunAll(&splitFailed); err != nil {
		t.Fatalf("RunAll: %v", err)
	}

	if splitFailed != straightFailed {
		t.Errorf("failed-count after an interrupted start = %d, want %d", splitFailed, straightFailed)
	}
}

func TestStackDepthInvariant(t *testing.T) {
	e := newLoaded(t, "gate my q { x q; } qreg q[1]; my q[0];")

	if e.GetStackDepth() != 1 {
		t.Fatalf("GetStackDepth = %d, want 1 before any call", e.GetStackDepth())
	}
	if err := e.StepForward(); err != nil { // gate-definition header, skips straight past its own body
		t.Fatalf("StepForward: %v", err)
	}
	if err := e.StepForward(); err != nil { // NOP(qreg)
		t.Fatalf("StepForward: %v", err)
	}
	if err := e.StepForward(); err != nil { // CALL, enters the callee body
		t.Fatalf("StepForward: %v", err)
	}
	if e.GetStackDepth() != 2 {
		t.Errorf("GetStackDepth = %d, want 2 inside the call", e.GetStackDepth())
	}
}

func TestStepBackwardAtInstructionZeroErrors(t *testing.T) {
	e := newLoaded(t, "qreg q[1]; x q[0];")
	if err := e.StepBackward(); err == nil {
		t.Error("expected StepBackward to fail with no history")
	}
}

func TestRunPastEndIsNoOp(t *testing.T) {
	e := newLoaded(t, "qreg q[1]; x q[0];")
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := e.Run(); err != nil {
		t.Fatalf("second Run past end: %v", err)
	}
	if !e.IsFinished() {
		t.Error("expected IsFinished() == true")
	}
}
