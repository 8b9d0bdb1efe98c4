package engine

import (
	"fmt"

	"github.com/lookbusy1344/qasm-assert-debugger/program"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// StepForward advances by one instruction. Fails if the engine isn't
// ready or is already at the end of the program.
func (e *Engine) StepForward() error {
	if !e.ready {
		return errNotReady
	}
	if e.current >= e.Program.Count() {
		return errAtEnd
	}
	e.assertionFailed = false
	e.breakpointHit = false
	return e.stepForwardOnce()
}

// StepBackward pops the previous-instruction stack and re-applies the
// inverse of whatever that step did. Fails if the stack is empty — either
// because nothing has executed yet, or because an irreversible
// measurement or reset cleared it.
func (e *Engine) StepBackward() error {
	if len(e.previousInstructionStack) == 0 {
		return errNoHistory
	}
	e.breakpointHit = false
	return e.stepBackwardOnce()
}

func (e *Engine) stepForwardOnce() error {
	prevCurrent := e.current
	in, _ := e.Program.InstructionAt(prevCurrent)

	switch in.Kind {
	case program.KindNOP:
		e.pushUndo(undoEntry{instr: prevCurrent, kind: undoNOP})
		e.current = in.Successor

	case program.KindSimulate:
		if err := e.applySimulateForward(in, prevCurrent); err != nil {
			return err
		}

	case program.KindCall:
		if indices, err := e.resolveQubitIndices(in.Targets); err == nil {
			e.Diagnostics.RecordActualQubits(prevCurrent, indices)
		}
		e.callStack = append(e.callStack, prevCurrent)
		e.pushUndo(undoEntry{instr: prevCurrent, kind: undoCall})
		e.current = in.Successor

	case program.KindReturn:
		if len(e.callStack) == 0 {
			return errCallStackEmpty
		}
		callIdx := e.callStack[len(e.callStack)-1]
		e.callStack = e.callStack[:len(e.callStack)-1]
		e.pushUndo(undoEntry{instr: prevCurrent, kind: undoReturn, callIdx: callIdx})
		e.current = callIdx + 1

	case program.KindAssertion:
		if indices, err := e.resolveQubitIndices(in.Assertion.Targets); err == nil {
			e.Diagnostics.RecordActualQubits(prevCurrent, indices)
		}
		if e.lastFailedAssertion == prevCurrent {
			// Idempotent re-entry: already reported, just pass through.
			e.pushUndo(undoEntry{instr: prevCurrent, kind: undoAssertionSkip})
			e.current = in.Successor
			break
		}
		ok, err := e.Checker.Check(e, in.Assertion)
		if err != nil {
			return fmt.Errorf("evaluating assertion at instruction %d: %w", prevCurrent, err)
		}
		if ok {
			e.pushUndo(undoEntry{instr: prevCurrent, kind: undoAssertionSkip})
			e.current = in.Successor
		} else {
			e.lastFailedAssertion = prevCurrent
			e.assertionFailed = true
			// Step one back: current-instruction does not move, so there
			// is nothing on the undo stack to push for this attempt.
			e.current = prevCurrent
		}

	default:
		return fmt.Errorf("unknown instruction kind %v at %d", in.Kind, prevCurrent)
	}

	e.checkBreakpointHit()
	return nil
}

// applySimulateForward executes one SIMULATE instruction's DD operation,
// handling the measurement/reset/barrier/classic-controlled special cases
// per spec; grounded on the teacher's single large per-opcode switch in
// vm/executor.go.
func (e *Engine) applySimulateForward(in *program.Instruction, prevCurrent int) error {
	switch in.GateName {
	case "measure":
		qubitIdx, err := e.Program.Registers.GlobalQubitIndex(e.resolveRef(in.Targets[0]))
		if err != nil {
			return err
		}
		bitIdx, err := e.Program.Registers.GlobalClassicalBitIndex(e.resolveRef(in.Targets[1]))
		if err != nil {
			return err
		}
		outcome := e.measureQubit(qubitIdx)
		e.Program.Registers.Variables()[bitIdx].Value = outcome
		e.Diagnostics.RecordActualQubits(prevCurrent, []int{qubitIdx})
		e.clearUndoHistory()
		e.current = in.Successor
		return nil

	case "reset":
		qubitIdx, err := e.Program.Registers.GlobalQubitIndex(e.resolveRef(in.Targets[0]))
		if err != nil {
			return err
		}
		outcome := e.measureQubit(qubitIdx)
		if outcome {
			if err := e.State.Apply("x", []int{qubitIdx}); err != nil {
				return err
			}
		}
		e.Diagnostics.RecordActualQubits(prevCurrent, []int{qubitIdx})
		e.clearUndoHistory()
		e.current = in.Successor
		return nil

	case "barrier", "id":
		indices, err := e.resolveQubitIndices(in.Targets)
		if err != nil {
			return err
		}
		e.Diagnostics.RecordActualQubits(prevCurrent, indices)
		e.pushUndo(undoEntry{instr: prevCurrent, kind: undoSimulate, gateName: in.GateName, targets: indices, executed: true})
		e.current = in.Successor
		return nil

	default:
		indices, err := e.resolveQubitIndices(in.Targets)
		if err != nil {
			return err
		}
		executed := true
		if in.Condition != nil {
			value, err := e.classicalRegisterValue(in.Condition.Register)
			if err != nil {
				return err
			}
			executed = value == in.Condition.Value
		}
		if executed {
			if err := e.State.Apply(in.GateName, indices); err != nil {
				return err
			}
		}
		e.recordControlTracking(prevCurrent, in.GateName, indices)
		e.Diagnostics.RecordActualQubits(prevCurrent, indices)
		e.pushUndo(undoEntry{instr: prevCurrent, kind: undoSimulate, gateName: in.GateName, targets: indices, executed: executed})
		e.current = in.Successor
		return nil
	}
}

// measureQubit draws the collapse outcome and applies it, without
// recording any undo information — the caller is always an irreversible
// instruction.
func (e *Engine) measureQubit(qubitIdx int) bool {
	p0 := e.State.ProbabilityZero(qubitIdx)
	outcome := e.RandomFloat64() >= p0
	e.State.Collapse(qubitIdx, outcome)
	return outcome
}

// recordControlTracking implements the dynamic zero-control sweep: for a
// controlled gate over at most 16 qubits, a control reads as zero-control
// at this visit if every amplitude with that qubit's bit set is
// negligible.
func (e *Engine) recordControlTracking(instr int, gateName string, indices []int) {
	if e.Program.Registers.NumQubits() > 16 {
		return
	}
	var controls []int
	switch gateName {
	case "cx", "cnot", "cz", "ccx", "toffoli":
		if len(indices) >= 2 {
			controls = indices[:len(indices)-1]
		}
	default:
		return
	}
	for _, c := range controls {
		e.Diagnostics.RecordControl(instr, c, e.controlIsZero(c))
	}
}

func (e *Engine) controlIsZero(qubit int) bool {
	mask := 1 << qubit
	for i, a := range e.State.Amplitudes {
		if i&mask != 0 && !util.NegligibleAmplitude(a) {
			return false
		}
	}
	return true
}

func (e *Engine) classicalRegisterValue(name string) (int, error) {
	def, ok := e.Program.Registers.ClassicalRegister(name)
	if !ok {
		return 0, fmt.Errorf("undeclared classical register %q", name)
	}
	vars := e.Program.Registers.Variables()
	value := 0
	for i := 0; i < def.Size; i++ {
		b, _ := vars[def.BaseIndex+i].Value.(bool)
		if b {
			value |= 1 << i
		}
	}
	return value, nil
}

func (e *Engine) stepBackwardOnce() error {
	entry := e.previousInstructionStack[len(e.previousInstructionStack)-1]
	e.previousInstructionStack = e.previousInstructionStack[:len(e.previousInstructionStack)-1]

	switch entry.kind {
	case undoNOP, undoAssertionSkip:
		e.current = entry.instr

	case undoSimulate:
		if entry.executed && entry.gateName != "barrier" && entry.gateName != "id" {
			if err := e.State.ApplyInverse(entry.gateName, entry.targets); err != nil {
				return err
			}
		}
		e.current = entry.instr

	case undoCall:
		if len(e.callStack) == 0 {
			return errCallStackBounds
		}
		e.callStack = e.callStack[:len(e.callStack)-1]
		e.current = entry.instr

	case undoReturn:
		e.callStack = append(e.callStack, entry.callIdx)
		e.current = entry.instr
	}

	e.checkBreakpointHit()
	return nil
}

func (e *Engine) checkBreakpointHit() {
	if e.breakpoints[e.current] {
		e.lastMetBreakpoint = e.current
		e.breakpointHit = true
	}
}
