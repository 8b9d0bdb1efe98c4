package diagnostics

import (
	"github.com/lookbusy1344/qasm-assert-debugger/program"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// DataDependencies runs a backward BFS from instr over the recorded
// per-instruction dependency lists (declarations never appear as
// dependencies since they carry none). Every dependency that resolves
// through a CALL is followed into the callee's body to the instruction
// that actually produced the value, recursing through further nested
// calls. With includeCallers set, and instr lying inside a function body,
// the function's reverse call sites are seeded into the search too.
func (d *Diagnostics) DataDependencies(instr int, includeCallers bool) []int {
	visited := map[int]bool{instr: true}
	var order []int
	queue := []int{instr}

	if includeCallers {
		if fn, ok := d.enclosingFunction(instr); ok {
			for _, callSite := range d.Program.FunctionCallers[fn.Name] {
				if !visited[callSite] {
					visited[callSite] = true
					order = append(order, callSite)
					queue = append(queue, callSite)
				}
			}
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		in, ok := d.Program.InstructionAt(cur)
		if !ok {
			continue
		}
		for _, dep := range in.Dependencies {
			for _, producer := range d.resolveThroughCalls(dep.ProducerIndex, dep.ProducerArgument) {
				pin, ok := d.Program.InstructionAt(producer)
				if !ok || pin.Kind == program.KindNOP {
					continue
				}
				if !visited[producer] {
					visited[producer] = true
					order = append(order, producer)
					queue = append(queue, producer)
				}
			}
		}
	}
	return order
}

// resolveThroughCalls follows a data dependency that points at a CALL
// instruction down into the callee: it finds the parameter at argPos and
// searches backward from the callee's RETURN for the most recent
// instruction that references that parameter by name, recursing if that
// instruction is itself a CALL. Non-CALL producers resolve to themselves.
func (d *Diagnostics) resolveThroughCalls(producerIndex, argPos int) []int {
	in, ok := d.Program.InstructionAt(producerIndex)
	if !ok || in.Kind != program.KindCall {
		return []int{producerIndex}
	}
	fn, ok := d.Program.Functions[in.Callee]
	if !ok || argPos < 0 || argPos >= len(fn.Params) {
		return []int{producerIndex}
	}
	paramName := fn.Params[argPos]

	for j := fn.ReturnIndex - 1; j > fn.HeaderIndex; j-- {
		cand, ok := d.Program.InstructionAt(j)
		if !ok {
			continue
		}
		for pos, t := range cand.Targets {
			if util.VariablesEqual(t, paramName) {
				return d.resolveThroughCalls(j, pos)
			}
		}
	}
	// No reference to the parameter inside the callee body: attribute the
	// dependency to the CALL itself.
	return []int{producerIndex}
}

// enclosingFunction returns the FunctionDef whose body contains instr, if
// any.
func (d *Diagnostics) enclosingFunction(instr int) (*program.FunctionDef, bool) {
	for _, fn := range d.Program.Functions {
		if instr >= fn.BodyStart && instr <= fn.ReturnIndex {
			return fn, true
		}
	}
	return nil, false
}

// Interactions sweeps backward from "before", within the function
// enclosing it, repeatedly growing the set of qubits that could have
// influenced qubit until a sweep adds nothing. Any SIMULATE/CALL whose
// target set shares a qubit with the current interaction set contributes
// all of its targets.
func (d *Diagnostics) Interactions(before int, qubit int) []int {
	lower := 0
	upper := before
	if fn, ok := d.enclosingFunction(before); ok {
		lower = fn.BodyStart
	}

	set := map[int]bool{qubit: true}
	for {
		grew := false
		for j := upper - 1; j >= lower; j-- {
			in, ok := d.Program.InstructionAt(j)
			if !ok || (in.Kind != program.KindSimulate && in.Kind != program.KindCall) {
				continue
			}
			targets := d.resolveInstructionQubits(j)
			shares := false
			for _, t := range targets {
				if set[t] {
					shares = true
					break
				}
			}
			if !shares {
				continue
			}
			for _, t := range targets {
				if !set[t] {
					set[t] = true
					grew = true
				}
			}
		}
		if !grew {
			break
		}
	}

	out := make([]int, 0, len(set))
	for q := range set {
		out = append(out, q)
	}
	return out
}

// resolveInstructionQubits maps a SIMULATE/CALL instruction's target
// names to global qubit indices where possible, skipping targets that
// name a classical reference (e.g. a measurement's classical-bit
// operand) or cannot be resolved statically (e.g. still a bare function
// parameter, unresolvable without a concrete call site).
func (d *Diagnostics) resolveInstructionQubits(instr int) []int {
	in, ok := d.Program.InstructionAt(instr)
	if !ok {
		return nil
	}
	var out []int
	for _, t := range in.Targets {
		idx, err := d.Program.Registers.GlobalQubitIndex(t)
		if err != nil {
			continue
		}
		out = append(out, idx)
	}
	return out
}
