package diagnostics

import (
	"github.com/lookbusy1344/qasm-assert-debugger/assertion"
	"github.com/lookbusy1344/qasm-assert-debugger/program"
)

// CauseKind discriminates the two potential-error-cause shapes this package
// can surface for a failed assertion.
type CauseKind int

const (
	// CauseMissingInteraction reports that two of a failed assert-ent's
	// target qubits never shared a dynamic interaction, i.e. no chain of
	// executed two-qubit operations connects them.
	CauseMissingInteraction CauseKind = iota
	// CauseControlAlwaysZero reports that a controlled gate feeding the
	// failed assertion always saw its control qubit read as zero on every
	// execution observed so far, meaning it never actually applied.
	CauseControlAlwaysZero
)

func (k CauseKind) String() string {
	switch k {
	case CauseMissingInteraction:
		return "missing-interaction"
	case CauseControlAlwaysZero:
		return "control-always-zero"
	default:
		return "unknown-cause"
	}
}

// ErrorCause names one candidate explanation for why an assertion failed.
type ErrorCause struct {
	Kind      CauseKind
	Instr     int // the instruction the cause points at
	QubitA    int // MissingInteraction: the first of the disconnected pair
	QubitB    int // MissingInteraction: the second of the disconnected pair
	ZeroQubit int // ControlAlwaysZero: the control qubit that read zero
}

// PotentialErrorCauses analyses the failed assertion at assertionIndex and
// returns up to count candidate causes, most-specific first: missing
// interactions between target qubits (assert-ent only), then always-zero
// controls among the assertion's data dependencies.
func (d *Diagnostics) PotentialErrorCauses(assertionIndex int, count int) []ErrorCause {
	var out []ErrorCause

	in, ok := d.Program.InstructionAt(assertionIndex)
	if ok && in.Kind == program.KindAssertion && in.Assertion != nil {
		out = append(out, d.missingInteractionCauses(assertionIndex, in)...)
	}
	out = append(out, d.controlAlwaysZeroCauses(assertionIndex)...)

	if count > 0 && len(out) > count {
		out = out[:count]
	}
	return out
}

func (d *Diagnostics) missingInteractionCauses(assertionIndex int, in *program.Instruction) []ErrorCause {
	if in.Assertion.Kind != assertion.KindEntanglement {
		return nil
	}
	indices := make([]int, 0, len(in.Assertion.Targets))
	for _, t := range in.Assertion.Targets {
		idx, err := d.Program.Registers.GlobalQubitIndex(t)
		if err != nil {
			continue
		}
		indices = append(indices, idx)
	}

	var out []ErrorCause
	for i := 0; i < len(indices); i++ {
		reach := d.dynamicInteractions(assertionIndex, indices[i])
		for j := i + 1; j < len(indices); j++ {
			if !reach[indices[j]] {
				out = append(out, ErrorCause{
					Kind:   CauseMissingInteraction,
					Instr:  assertionIndex,
					QubitA: indices[i],
					QubitB: indices[j],
				})
			}
		}
	}
	return out
}

// controlAlwaysZeroCauses looks only at the assertion's immediate (one-hop)
// producers, not the full transitive data-dependency closure: a zero
// control further back in the chain is superseded once a nearer producer
// in the same chain reads its own control non-zero, so only the nearest
// producer per target is a meaningful cause candidate.
func (d *Diagnostics) controlAlwaysZeroCauses(assertionIndex int) []ErrorCause {
	var out []ErrorCause
	for _, instr := range d.directDependencies(assertionIndex) {
		qubits, ok := d.zeroControls[instr]
		if !ok {
			continue
		}
		for q := range qubits {
			out = append(out, ErrorCause{
				Kind:      CauseControlAlwaysZero,
				Instr:     instr,
				ZeroQubit: q,
			})
		}
	}
	return out
}

// directDependencies resolves only the assertion's own Dependencies list
// (following call indirection to the real producer), without recursing
// into those producers' own dependencies.
func (d *Diagnostics) directDependencies(instr int) []int {
	in, ok := d.Program.InstructionAt(instr)
	if !ok {
		return nil
	}
	seen := map[int]bool{}
	var out []int
	for _, dep := range in.Dependencies {
		for _, producer := range d.resolveThroughCalls(dep.ProducerIndex, dep.ProducerArgument) {
			pin, ok := d.Program.InstructionAt(producer)
			if !ok || pin.Kind == program.KindNOP {
				continue
			}
			if !seen[producer] {
				seen[producer] = true
				out = append(out, producer)
			}
		}
	}
	return out
}

// dynamicInteractions is Interactions' runtime counterpart: instead of
// statically resolving each SIMULATE/CALL's target names, it grows the
// reachable-qubit set from the actual-qubits recorded while stepping, so it
// reflects what the program actually did rather than what it could do.
func (d *Diagnostics) dynamicInteractions(before int, qubit int) map[int]bool {
	lower := 0
	if fn, ok := d.enclosingFunction(before); ok {
		lower = fn.BodyStart
	}

	set := map[int]bool{qubit: true}
	for {
		grew := false
		for j := before - 1; j >= lower; j-- {
			in, ok := d.Program.InstructionAt(j)
			if !ok || (in.Kind != program.KindSimulate && in.Kind != program.KindCall) {
				continue
			}
			targets, ok := d.ActualQubits(j)
			if !ok {
				continue
			}
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
	return set
}
