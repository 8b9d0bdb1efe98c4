package diagnostics

import (
	"fmt"
	"math"

	"github.com/lookbusy1344/qasm-assert-debugger/assertion"
	"github.com/lookbusy1344/qasm-assert-debugger/program"
	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// AssertionSuggestion pairs a synthesized assertion's source text with the
// instruction position it should be inserted at.
type AssertionSuggestion struct {
	Position int
	Text     string
}

// SuggestNewAssertions synthesizes replacement or supplementary assertions
// for the failed assertion at assertionIndex, per the three cases the
// commutation/synthesis rules define. Returns up to count suggestions (all
// of them if count <= 0).
func (d *Diagnostics) SuggestNewAssertions(assertionIndex int, count int) []AssertionSuggestion {
	in, ok := d.Program.InstructionAt(assertionIndex)
	if !ok || in.Kind != program.KindAssertion || in.Assertion == nil {
		return nil
	}
	a := in.Assertion

	var out []AssertionSuggestion
	switch a.Kind {
	case assertion.KindEntanglement:
		if len(a.Targets) > 2 {
			out = d.entanglementPairwiseBreakdown(assertionIndex, a)
		} else if len(a.Targets) == 2 {
			out = d.entanglementPathWitnesses(assertionIndex, a)
		}
	case assertion.KindEquality:
		if a.Body == assertion.BodyStatevector {
			out = d.equalitySeparableSplit(assertionIndex, a)
		}
	}

	if count > 0 && len(out) > count {
		out = out[:count]
	}
	return out
}

// entanglementPairwiseBreakdown proposes one assert-ent per unordered pair
// of the original assertion's targets, inserted immediately after it.
func (d *Diagnostics) entanglementPairwiseBreakdown(assertionIndex int, a *assertion.Assertion) []AssertionSuggestion {
	var out []AssertionSuggestion
	for i := 0; i < len(a.Targets); i++ {
		for j := i + 1; j < len(a.Targets); j++ {
			out = append(out, AssertionSuggestion{
				Position: assertionIndex + 1,
				Text:     fmt.Sprintf("assert-ent %s, %s;", a.Targets[i], a.Targets[j]),
			})
		}
	}
	return out
}

// pathEdge is one step of a reconstructed interaction path: qubits u and v
// were connected by the instruction at Witness.
type pathEdge struct {
	U, V, Witness int
}

// entanglementPathWitnesses finds the unique path between the two target
// qubits in the runtime interaction tree (built from actual-qubits
// recorded while stepping) and proposes one narrower assert-ent per edge,
// each positioned right after its witnessing instruction.
func (d *Diagnostics) entanglementPathWitnesses(assertionIndex int, a *assertion.Assertion) []AssertionSuggestion {
	if len(a.Targets) != 2 {
		return nil
	}
	u, err := d.Program.Registers.GlobalQubitIndex(a.Targets[0])
	if err != nil {
		return nil
	}
	v, err := d.Program.Registers.GlobalQubitIndex(a.Targets[1])
	if err != nil {
		return nil
	}

	path := d.interactionPath(assertionIndex, u, v)
	if path == nil {
		return nil
	}

	var out []AssertionSuggestion
	for _, e := range path {
		nameU, okU := d.Program.Registers.QubitName(e.U)
		nameV, okV := d.Program.Registers.QubitName(e.V)
		if !okU || !okV {
			continue
		}
		out = append(out, AssertionSuggestion{
			Position: e.Witness + 1,
			Text:     fmt.Sprintf("assert-ent %s, %s;", nameU, nameV),
		})
	}
	return out
}

// interactionPath grows the reachable set from u the same way dynamicInteractions
// does, recording for each newly-reached qubit which already-known qubit and
// instruction connected it, then reconstructs the parent chain from v back to u.
func (d *Diagnostics) interactionPath(before, u, v int) []pathEdge {
	lower := 0
	if fn, ok := d.enclosingFunction(before); ok {
		lower = fn.BodyStart
	}

	type link struct {
		from    int
		witness int
	}
	parent := map[int]link{}
	known := map[int]bool{u: true}

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
			var anchor int
			anchorFound := false
			for _, t := range targets {
				if known[t] {
					anchor = t
					anchorFound = true
					break
				}
			}
			if !anchorFound {
				continue
			}
			for _, t := range targets {
				if !known[t] {
					known[t] = true
					parent[t] = link{from: anchor, witness: j}
					grew = true
				}
			}
		}
		if !grew {
			break
		}
	}

	if !known[v] {
		return nil
	}
	var edges []pathEdge
	cur := v
	for cur != u {
		l, ok := parent[cur]
		if !ok {
			return nil
		}
		edges = append(edges, pathEdge{U: l.from, V: cur, Witness: l.witness})
		cur = l.from
	}
	// Reverse so the path reads from u to v in execution order.
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return edges
}

// equalitySeparableSplit identifies target qubits whose single-qubit
// partial trace of the asserted reference state is pure, and splits the
// assertion into one per such qubit plus one covering the rest.
func (d *Diagnostics) equalitySeparableSplit(assertionIndex int, a *assertion.Assertion) []AssertionSuggestion {
	n := len(a.Targets)
	if n < 2 {
		return nil
	}
	rho := util.DensityMatrix(a.Amplitudes)

	var separable []int
	for i := 0; i < n; i++ {
		sub := util.PartialTrace(rho, n, []int{i})
		if util.IsPure(sub) {
			separable = append(separable, i)
		}
	}
	if len(separable) == 0 || len(separable) == n {
		return nil
	}

	type part struct {
		ref  string
		amps []complex128
	}
	var parts []part
	for _, i := range separable {
		sub := util.PartialTrace(rho, n, []int{i})
		parts = append(parts, part{ref: a.Targets[i], amps: util.DominantEigenvector(sub)})
	}

	var remaining []string
	remainingIdx := make([]int, 0, n-len(separable))
	sepSet := map[int]bool{}
	for _, i := range separable {
		sepSet[i] = true
	}
	for i := 0; i < n; i++ {
		if !sepSet[i] {
			remaining = append(remaining, a.Targets[i])
			remainingIdx = append(remainingIdx, i)
		}
	}
	if len(remaining) > 0 {
		restRho := util.PartialTrace(rho, n, remainingIdx)
		parts = append(parts, part{ref: joinRefs(remaining), amps: util.DominantEigenvector(restRho)})
	}

	lossy := false
	rounded := make([][]complex128, len(parts))
	for i, p := range parts {
		r, l := roundAmplitudes(p.amps)
		rounded[i] = r
		lossy = lossy || l
	}

	threshold := formatThreshold(a.Threshold, lossy)
	var out []AssertionSuggestion
	for i, p := range parts {
		out = append(out, AssertionSuggestion{
			Position: assertionIndex + 1,
			Text:     fmt.Sprintf("assert-eq %s, %s { %s };", threshold, p.ref, formatAmplitudes(rounded[i])),
		})
	}
	return out
}

func roundAmplitudes(amps []complex128) ([]complex128, bool) {
	out := make([]complex128, len(amps))
	lossy := false
	for i, a := range amps {
		r := math.Round(real(a)*1e5) / 1e5
		im := math.Round(imag(a)*1e5) / 1e5
		if !util.ApproxEqual(r, real(a)) || !util.ApproxEqual(im, imag(a)) {
			lossy = true
		}
		out[i] = complex(r, im)
	}
	return out, lossy
}

func formatThreshold(threshold float64, lossy bool) string {
	if lossy && threshold > 0.99999 {
		threshold = 0.99999
	}
	return fmt.Sprintf("%v", threshold)
}

func formatAmplitudes(amps []complex128) string {
	out := ""
	for i, a := range amps {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%g%+gi", real(a), imag(a))
	}
	return out
}

func joinRefs(refs []string) string {
	out := ""
	for i, r := range refs {
		if i > 0 {
			out += ", "
		}
		out += r
	}
	return out
}
