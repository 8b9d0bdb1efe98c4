package engine

import "github.com/lookbusy1344/qasm-assert-debugger/program"

// StepOverForward behaves like StepForward for anything but a CALL; over
// a CALL it runs until control returns to the matching depth (or a
// breakpoint, failed assertion, or pause intervenes).
func (e *Engine) StepOverForward() error {
	if !e.ready {
		return errNotReady
	}
	if e.current >= e.Program.Count() {
		return errAtEnd
	}
	in, _ := e.Program.InstructionAt(e.current)
	if in.Kind != program.KindCall {
		return e.StepForward()
	}

	targetDepth := len(e.callStack)
	e.assertionFailed = false
	e.breakpointHit = false
	e.pauseRequested = false
	for {
		if err := e.stepForwardOnce(); err != nil {
			return err
		}
		if e.assertionFailed || e.breakpointHit || e.pauseRequested {
			e.pauseRequested = false
			return nil
		}
		if len(e.callStack) <= targetDepth {
			return nil
		}
		if e.current >= e.Program.Count() {
			return nil
		}
	}
}

// StepOverBackward is the mirror image: stepping back over a completed
// call runs backward until the matching CALL's push is undone.
func (e *Engine) StepOverBackward() error {
	if len(e.previousInstructionStack) == 0 {
		return errNoHistory
	}
	top := e.previousInstructionStack[len(e.previousInstructionStack)-1]
	if top.kind != undoReturn {
		return e.StepBackward()
	}

	targetDepth := len(e.callStack)
	e.breakpointHit = false
	e.pauseRequested = false
	for {
		if err := e.stepBackwardOnce(); err != nil {
			return err
		}
		if e.breakpointHit || e.pauseRequested {
			e.pauseRequested = false
			return nil
		}
		if len(e.callStack) <= targetDepth {
			return nil
		}
		if len(e.previousInstructionStack) == 0 {
			return nil
		}
	}
}

// StepOutForward unwinds the innermost call frame, stopping at a
// breakpoint, failed assertion, or pause. With no active call, it runs to
// the end of the program.
func (e *Engine) StepOutForward() error {
	if !e.ready {
		return errNotReady
	}
	if len(e.callStack) == 0 {
		return e.Run()
	}
	targetDepth := len(e.callStack) - 1
	e.assertionFailed = false
	e.breakpointHit = false
	e.pauseRequested = false
	for {
		if e.current >= e.Program.Count() {
			return nil
		}
		if err := e.stepForwardOnce(); err != nil {
			return err
		}
		if e.assertionFailed || e.breakpointHit || e.pauseRequested {
			e.pauseRequested = false
			return nil
		}
		if len(e.callStack) <= targetDepth {
			return nil
		}
	}
}

// StepOutBackward is the backward mirror of StepOutForward.
func (e *Engine) StepOutBackward() error {
	if len(e.callStack) == 0 {
		return e.RunBackward()
	}
	targetDepth := len(e.callStack) - 1
	e.breakpointHit = false
	e.pauseRequested = false
	for {
		if len(e.previousInstructionStack) == 0 {
			return nil
		}
		if err := e.stepBackwardOnce(); err != nil {
			return err
		}
		if e.breakpointHit || e.pauseRequested {
			e.pauseRequested = false
			return nil
		}
		if len(e.callStack) <= targetDepth {
			return nil
		}
	}
}

// Run steps forward until end-of-program, a failed assertion, a
// breakpoint, or a pause.
func (e *Engine) Run() error {
	if !e.ready {
		return errNotReady
	}
	e.pauseRequested = false
	e.breakpointHit = false
	for e.current < e.Program.Count() {
		e.assertionFailed = false
		if err := e.stepForwardOnce(); err != nil {
			return err
		}
		if e.assertionFailed || e.breakpointHit {
			return nil
		}
		if e.pauseRequested {
			e.pauseRequested = false
			return nil
		}
	}
	return nil
}

// RunBackward steps backward until history is exhausted, a breakpoint is
// hit, or a pause is requested.
func (e *Engine) RunBackward() error {
	e.pauseRequested = false
	e.breakpointHit = false
	for len(e.previousInstructionStack) > 0 {
		if err := e.stepBackwardOnce(); err != nil {
			return err
		}
		if e.breakpointHit {
			return nil
		}
		if e.pauseRequested {
			e.pauseRequested = false
			return nil
		}
	}
	return nil
}

// RunAll behaves like Run, except a failed assertion does not stop
// execution: it is counted in failedCount and the run advances past it
// (the next step idempotently skips re-evaluating it).
func (e *Engine) RunAll(failedCount *int) error {
	if !e.ready {
		return errNotReady
	}
	e.pauseRequested = false
	e.breakpointHit = false
	count := 0
	for e.current < e.Program.Count() {
		e.assertionFailed = false
		if err := e.stepForwardOnce(); err != nil {
			return err
		}
		if e.assertionFailed {
			count++
			continue
		}
		if e.breakpointHit {
			break
		}
		if e.pauseRequested {
			e.pauseRequested = false
			break
		}
	}
	if failedCount != nil {
		*failedCount = count
	}
	return nil
}

// Pause requests that any in-progress run/step-over/step-out loop stop at
// the next opportunity. Step-over and step-out may still execute one
// further instruction before honoring it, per spec.
func (e *Engine) Pause() {
	e.pauseRequested = true
}
