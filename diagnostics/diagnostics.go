// Package diagnostics analyses a preprocessed program and the engine's
// recorded execution history to explain why an assertion failed, which
// qubits could have influenced which, and whether assertions can be moved
// earlier in the program. It is owned by the execution engine: the engine
// records dynamic facts into a Diagnostics value as it steps, and hands a
// reference to that same value back to callers via get-diagnostics,
// mirroring the teacher's split between the CPU/executor that owns state
// and the separate StackTrace/Statistics values that observe it
// (vm/stack_trace.go, vm/statistics.go).
package diagnostics

import "github.com/lookbusy1344/qasm-assert-debugger/program"

// Diagnostics holds one program's static structure plus the dynamic facts
// accumulated by the engine while stepping it.
type Diagnostics struct {
	Program *program.Program

	actualQubits    map[int][]int
	zeroControls    map[int]map[int]bool
	nonZeroControls map[int]map[int]bool
}

// New creates a Diagnostics value bound to a freshly loaded program. The
// engine calls this once per load, alongside rebuilding the instruction
// list.
func New(prog *program.Program) *Diagnostics {
	return &Diagnostics{
		Program:         prog,
		actualQubits:    make(map[int][]int),
		zeroControls:    make(map[int]map[int]bool),
		nonZeroControls: make(map[int]map[int]bool),
	}
}

// RecordActualQubits stores the resolved (substitution-aware) qubit tuple
// the engine touched at instr on this forward step.
func (d *Diagnostics) RecordActualQubits(instr int, qubits []int) {
	cp := make([]int, len(qubits))
	copy(cp, qubits)
	d.actualQubits[instr] = cp
}

// ActualQubits returns the qubits last recorded at instr, if any.
func (d *Diagnostics) ActualQubits(instr int) ([]int, bool) {
	q, ok := d.actualQubits[instr]
	return q, ok
}

// RecordControl records, for a classic- or quantum-controlled gate at
// instr, whether the control qubit was zero on this visit. A later
// non-zero observation overrules an earlier zero one, and is sticky: once
// a control is seen non-zero at an instruction it is never reported as
// zero-control again.
func (d *Diagnostics) RecordControl(instr, qubit int, zero bool) {
	if zero {
		if d.nonZeroControls[instr] != nil && d.nonZeroControls[instr][qubit] {
			return
		}
		if d.zeroControls[instr] == nil {
			d.zeroControls[instr] = make(map[int]bool)
		}
		d.zeroControls[instr][qubit] = true
		return
	}
	if d.nonZeroControls[instr] == nil {
		d.nonZeroControls[instr] = make(map[int]bool)
	}
	d.nonZeroControls[instr][qubit] = true
	if d.zeroControls[instr] != nil {
		delete(d.zeroControls[instr], qubit)
	}
}

// ZeroControlInstructions returns every instruction index that currently
// has at least one control qubit marked zero-control and not overruled.
func (d *Diagnostics) ZeroControlInstructions() []int {
	var out []int
	for instr, qubits := range d.zeroControls {
		if len(qubits) > 0 {
			out = append(out, instr)
		}
	}
	return out
}

// Reset clears all recorded dynamic facts (called by the engine on
// reset/reload), keeping the static Program reference.
func (d *Diagnostics) Reset() {
	d.actualQubits = make(map[int][]int)
	d.zeroControls = make(map[int]map[int]bool)
	d.nonZeroControls = make(map[int]map[int]bool)
}
