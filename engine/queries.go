package engine

import (
	"fmt"

	"github.com/lookbusy1344/qasm-assert-debugger/diagnostics"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// CanStepForward reports whether a StepForward call would not immediately
// fail.
func (e *Engine) CanStepForward() bool {
	return e.ready && e.current < e.Program.Count()
}

// CanStepBackward reports whether a StepBackward call would not
// immediately fail.
func (e *Engine) CanStepBackward() bool {
	return len(e.previousInstructionStack) > 0
}

// IsFinished reports whether execution has run off the end of the
// program.
func (e *Engine) IsFinished() bool {
	return e.ready && e.current >= e.Program.Count()
}

// DidAssertionFail reports whether the most recently completed motion
// operation (StepForward, StepOver*, StepOut*, Run) stopped at a
// newly-failing assertion. RunAll steps past every failure it counts, so
// it leaves this false; it reports failures through its failedCount.
func (e *Engine) DidAssertionFail() bool {
	return e.assertionFailed
}

// WasBreakpointHit reports whether the most recently completed motion
// operation landed on an armed breakpoint.
func (e *Engine) WasBreakpointHit() bool {
	return e.breakpointHit
}

// LastBreakpointHit returns the instruction index of the most recently
// hit breakpoint, or -1 if none has been hit since the last load, reset,
// or ClearBreakpoints.
func (e *Engine) LastBreakpointHit() int {
	return e.lastMetBreakpoint
}

// GetCurrentInstruction returns the index of the instruction about to
// execute (forward) or having last executed (backward).
func (e *Engine) GetCurrentInstruction() int {
	return e.current
}

// GetInstructionCount returns the total number of instructions in the
// loaded program.
func (e *Engine) GetInstructionCount() int {
	if e.Program == nil {
		return 0
	}
	return e.Program.Count()
}

// GetInstructionPosition returns instruction i's raw byte range, trimmed
// of leading and trailing whitespace.
func (e *Engine) GetInstructionPosition(i int) (start, end int, err error) {
	if e.Program == nil {
		return 0, 0, errNotReady
	}
	pos, ok := e.Program.PositionTrimmed(i)
	if !ok {
		return 0, 0, fmt.Errorf("instruction index %d out of range", i)
	}
	return pos.Start, pos.End, nil
}

// GetNumQubits returns the total number of declared qubits.
func (e *Engine) GetNumQubits() int {
	return e.Program.Registers.NumQubits()
}

// GetNumClassicalVariables returns the total number of classical bits.
func (e *Engine) GetNumClassicalVariables() int {
	return len(e.Program.Registers.Variables())
}

// GetClassicalVariableName returns the "reg[i]" name of classical
// variable i, or "UNKNOWN" if out of range.
func (e *Engine) GetClassicalVariableName(i int) string {
	vars := e.Program.Registers.Variables()
	if i < 0 || i >= len(vars) {
		return "UNKNOWN"
	}
	return vars[i].Name
}

// GetQuantumVariableName returns the "reg" or "reg[i]" name of qubit
// index i, or "UNKNOWN" if out of range.
func (e *Engine) GetQuantumVariableName(i int) string {
	name, ok := e.Program.Registers.QubitName(i)
	if !ok {
		return "UNKNOWN"
	}
	return name
}

// GetAmplitudeIndex returns the amplitude of basis state index i.
func (e *Engine) GetAmplitudeIndex(i int) (complex128, error) {
	return e.State.AmplitudeAt(i)
}

// GetAmplitudeBitstring returns the amplitude addressed by an LSB-first
// bitstring.
func (e *Engine) GetAmplitudeBitstring(bits string) (complex128, error) {
	return e.State.AmplitudeAtBitstring(bits)
}

// GetClassicalVariable returns the current boolean value of a named
// classical bit ("reg[i]").
func (e *Engine) GetClassicalVariable(name string) (bool, error) {
	v, ok := e.Program.Registers.VariableByName(name)
	if !ok {
		return false, fmt.Errorf("unknown classical variable %q", name)
	}
	b, ok := v.Value.(bool)
	if !ok {
		return false, fmt.Errorf("classical variable %q is not boolean", name)
	}
	return b, nil
}

// GetStateVectorFull returns a copy of the full state vector.
func (e *Engine) GetStateVectorFull() []complex128 {
	out := make([]complex128, len(e.State.Amplitudes))
	copy(out, e.State.Amplitudes)
	return out
}

// GetStateVectorSub returns the sub-state vector over the named qubits,
// failing if that sub-state is not separable (its partial trace over the
// complement is not pure).
func (e *Engine) GetStateVectorSub(qubitRefs []string) ([]complex128, error) {
	indices, err := e.resolveQubitIndices(qubitRefs)
	if err != nil {
		return nil, err
	}
	rho := e.State.DensityMatrix()
	sub := util.PartialTrace(rho, e.Program.Registers.NumQubits(), indices)
	if !util.IsPure(sub) {
		return nil, fmt.Errorf("requested qubits are not in a separable sub-state")
	}
	return util.DominantEigenvector(sub), nil
}

// GetStackDepth returns |call-return-stack| + 1.
func (e *Engine) GetStackDepth() int {
	return len(e.callStack) + 1
}

// GetStackTrace returns up to max trace entries (all of them if max <=
// 0): element 0 is the current instruction, subsequent entries are
// return addresses from the call-return stack, innermost frame first.
func (e *Engine) GetStackTrace(max int) []int {
	trace := make([]int, 0, len(e.callStack)+1)
	trace = append(trace, e.current)
	for i := len(e.callStack) - 1; i >= 0; i-- {
		trace = append(trace, e.callStack[i]+1)
	}
	if max > 0 && len(trace) > max {
		trace = trace[:max]
	}
	return trace
}

// GetDiagnostics returns the diagnostics handle for the currently loaded
// program. The engine owns this value and keeps feeding it dynamic facts
// as it steps; callers invoke its methods directly rather than going
// through the engine.
func (e *Engine) GetDiagnostics() *diagnostics.Diagnostics {
	return e.Diagnostics
}
