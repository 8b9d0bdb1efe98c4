package diagnostics

import (
	"github.com/lookbusy1344/qasm-assert-debugger/assertion"
	"github.com/lookbusy1344/qasm-assert-debugger/program"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// MovementSuggestion records that the assertion at OriginalIndex could be
// moved as early as NewIndex without changing its observed outcome.
type MovementSuggestion struct {
	OriginalIndex int
	NewIndex      int
}

// singleQubitCommuting is the gate set Superposition assertions commute
// with, per the commutation table.
var singleQubitCommuting = map[string]bool{
	"x": true, "y": true, "z": true, "s": true, "t": true, "sdg": true, "tdg": true,
}

// SuggestAssertionMovements walks backward from every assertion, within its
// enclosing function scope, applying the commutation table until a
// non-commuting predecessor (or the start of scope) is reached. Returns up
// to count suggestions (all of them if count <= 0).
func (d *Diagnostics) SuggestAssertionMovements(count int) []MovementSuggestion {
	var out []MovementSuggestion
	for i, in := range d.Program.Instructions {
		if in.Kind != program.KindAssertion {
			continue
		}
		newIndex := d.earliestPosition(i)
		if newIndex != i {
			out = append(out, MovementSuggestion{OriginalIndex: i, NewIndex: newIndex})
		}
		if count > 0 && len(out) >= count {
			break
		}
	}
	return out
}

func (d *Diagnostics) earliestPosition(assertionIndex int) int {
	in, ok := d.Program.InstructionAt(assertionIndex)
	if !ok || in.Assertion == nil {
		return assertionIndex
	}
	a := in.Assertion

	lower := 0
	if fn, ok := d.enclosingFunction(assertionIndex); ok {
		lower = fn.BodyStart
	}

	candidate := assertionIndex
	j := assertionIndex - 1
	for j >= lower {
		pin, ok := d.Program.InstructionAt(j)
		if !ok {
			break
		}

		if pin.Kind == program.KindReturn {
			fn := d.functionOwningReturn(j)
			if fn == nil {
				break
			}
			candidate = fn.HeaderIndex
			j = fn.HeaderIndex - 1
			continue
		}

		if !d.commutes(a, pin) {
			break
		}
		candidate = j
		j--
	}
	return candidate
}

func (d *Diagnostics) functionOwningReturn(returnIdx int) *program.FunctionDef {
	for _, fn := range d.Program.Functions {
		if fn.ReturnIndex == returnIdx {
			return fn
		}
	}
	return nil
}

// commutes implements the predecessor/assertion commutation table.
func (d *Diagnostics) commutes(a *assertion.Assertion, pin *program.Instruction) bool {
	switch pin.Kind {
	case program.KindAssertion:
		return false
	case program.KindCall:
		return false
	case program.KindNOP:
		if pin.InFunctionDef {
			return true // gate definition: does not execute
		}
		// Variable declaration: commutes unless A targets that variable.
		for _, t := range a.Targets {
			for _, decl := range pin.Targets {
				if util.VariablesEqual(t, decl) {
					return false
				}
			}
		}
		return true
	case program.KindSimulate:
		switch pin.GateName {
		case "measure", "reset":
			return false
		case "barrier":
			return true
		}
		if pin.Condition != nil {
			return d.quantumOpCommutes(a, pin)
		}
		return d.quantumOpCommutes(a, pin)
	default:
		return false
	}
}

// quantumOpCommutes handles a plain (or classic-controlled) quantum
// operation: disjoint targets always commute; otherwise the rule depends on
// the assertion kind.
func (d *Diagnostics) quantumOpCommutes(a *assertion.Assertion, pin *program.Instruction) bool {
	if disjoint(a.Targets, pin.Targets) {
		return true
	}
	switch a.Kind {
	case assertion.KindEntanglement:
		return len(pin.Targets) < 2
	case assertion.KindSuperposition:
		return len(pin.Targets) < 2 && singleQubitCommuting[pin.GateName]
	case assertion.KindEquality:
		return false
	default:
		return false
	}
}

func disjoint(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if util.VariablesEqual(x, y) {
				return false
			}
		}
	}
	return true
}
