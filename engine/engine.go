// Package engine is the stepping execution engine: it preprocesses a
// program, owns its quantum state and classical variables, and advances
// or rewinds one instruction at a time while cooperating with the
// assertion checker and the diagnostics value it keeps alive across a
// load. Grounded on the teacher's split between the CPU that owns machine
// state (vm/cpu.go) and the debugger that drives it one step at a time
// (debugger/debugger.go), generalized from a fixed fetch-decode-execute
// loop to this language's five instruction kinds.
package engine

import (
	"math/rand"

	"github.com/lookbusy1344/qasm-assert-debugger/checker"
	"github.com/lookbusy1344/qasm-assert-debugger/diagnostics"
	"github.com/lookbusy1344/qasm-assert-debugger/program"
	"github.com/lookbusy1344/qasm-assert-debugger/qstate"
)

// Engine is the debugger's execution core. One Engine holds exactly one
// loaded program and its live state; a fresh Engine is created internally
// whenever a circuit-equality assertion needs to simulate a reference
// circuit (see resolve.go's runCircuit).
type Engine struct {
	Program     *program.Program
	State       *qstate.State
	Checker     *checker.Checker
	Diagnostics *diagnostics.Diagnostics

	// RandomFloat64 draws the uniform sample in [0,1) used by
	// measurement and reset. Tests substitute a deterministic function
	// to pin down which branch a measurement takes, per spec's
	// determinism note that outcomes are otherwise unconstrained.
	RandomFloat64 func() float64

	ready   bool
	current int

	callStack []int
	// previousInstructionStack carries everything needed to reverse one
	// forward step, including the call/return bookkeeping the
	// specification calls restore-call-return-stack: since a CALL's and
	// a RETURN's undo payloads already carry exactly the stack delta to
	// reverse, a second parallel stack would only duplicate this one.
	previousInstructionStack []undoEntry

	breakpoints       map[int]bool
	lastMetBreakpoint int
	breakpointHit     bool

	lastFailedAssertion int
	assertionFailed     bool

	pauseRequested bool
}

// New creates an empty, not-yet-loaded Engine. Its Checker is wired to
// simulate circuit-equality reference bodies via a fresh child Engine,
// avoiding the checker/engine import cycle that a two-way reference would
// otherwise create.
func New() *Engine {
	e := &Engine{
		breakpoints:         make(map[int]bool),
		lastMetBreakpoint:   -1,
		lastFailedAssertion: -1,
		RandomFloat64:       rand.Float64,
	}
	e.Checker = checker.New(e.runCircuit)
	return e
}

// Load resets all engine state, preprocesses code, and initializes the
// quantum state to |0...0>. Breakpoints persist across a load, matching
// how a source debugger keeps breakpoints across a reloaded binary;
// everything else — call stack, undo history, failure markers — starts
// fresh.
func (e *Engine) Load(code string) error {
	prog, errs := program.Load(code)
	if errs != nil {
		e.ready = false
		return errs
	}
	e.Program = prog
	e.State = qstate.NewState(prog.Registers.NumQubits())
	e.Diagnostics = diagnostics.New(prog)
	e.current = 0
	e.callStack = nil
	e.previousInstructionStack = nil
	e.lastMetBreakpoint = -1
	e.breakpointHit = false
	e.lastFailedAssertion = -1
	e.assertionFailed = false
	e.pauseRequested = false
	e.ready = true
	e.checkBreakpointHit()
	return nil
}

// Reset returns to instruction 0 and |0...0>, clearing all stacks and
// failure markers, while keeping the currently loaded code (and its
// breakpoints) in place.
func (e *Engine) Reset() error {
	if e.Program == nil {
		return errNotReady
	}
	e.State = qstate.NewState(e.Program.Registers.NumQubits())
	for _, v := range e.Program.Registers.Variables() {
		v.Value = false
	}
	e.current = 0
	e.callStack = nil
	e.previousInstructionStack = nil
	e.lastMetBreakpoint = -1
	e.breakpointHit = false
	e.lastFailedAssertion = -1
	e.assertionFailed = false
	e.pauseRequested = false
	e.Diagnostics.Reset()
	e.checkBreakpointHit()
	return nil
}
