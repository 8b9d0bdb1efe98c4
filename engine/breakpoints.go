package engine

import "fmt"

// SetBreakpoint maps a raw source byte offset to its enclosing
// instruction (descending into a gate-definition body when the offset
// falls inside one) and arms a breakpoint there, returning the resolved
// instruction index.
func (e *Engine) SetBreakpoint(pos int) (int, error) {
	if e.Program == nil {
		return 0, errNotReady
	}
	target, ok := e.Program.EnclosingInstruction(pos)
	if !ok {
		return 0, fmt.Errorf("position %d is outside the loaded program", pos)
	}
	e.breakpoints[target] = true
	return target, nil
}

// ClearBreakpoints empties the breakpoint set.
func (e *Engine) ClearBreakpoints() {
	e.breakpoints = make(map[int]bool)
	e.lastMetBreakpoint = -1
	e.breakpointHit = false
}
