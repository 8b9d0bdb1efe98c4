package program

import "github.com/lookbusy1344/qasm-assert-debugger/util"

// computeDependencies fills in every SIMULATE/ASSERTION/CALL instruction's
// immediate data dependencies: for each of its target variables, the
// nearest strictly-earlier instruction in the same function scope that
// touches a variable-equal reference. NOP and RETURN nodes are never
// dependencies (declarations do not "touch" a value) and are skipped as
// candidates; they also never themselves acquire dependencies.
func (p *Program) computeDependencies() {
	scope := p.scopeOwners()

	for i, in := range p.Instructions {
		if in.Kind != KindSimulate && in.Kind != KindAssertion && in.Kind != KindCall {
			continue
		}
		if len(in.Targets) == 0 {
			continue
		}

		lower := 0
		if owner := scope[i]; owner != "" {
			lower = p.Functions[owner].BodyStart
		}

		stillSearching := make(map[string]bool, len(in.Targets))
		for _, t := range in.Targets {
			stillSearching[t] = true
		}

		for j := i - 1; j >= lower && len(stillSearching) > 0; j-- {
			if scope[j] != scope[i] {
				continue
			}
			producer := p.Instructions[j]
			if producer.Kind != KindSimulate && producer.Kind != KindAssertion && producer.Kind != KindCall {
				continue
			}
			for target := range stillSearching {
				for argPos, produced := range producer.Targets {
					if util.VariablesEqual(target, produced) {
						in.Dependencies = append(in.Dependencies, Dependency{ProducerIndex: j, ProducerArgument: argPos})
						delete(stillSearching, target)
						break
					}
				}
			}
		}
	}
}

// scopeOwners returns, per instruction index, the name of the enclosing
// gate definition, or "" for top-level instructions (every instruction
// outside any gate definition: declarations, calls, assertions and
// operations). A gate's header and RETURN nodes are attributed to that
// gate's scope together with its body.
func (p *Program) scopeOwners() []string {
	owners := make([]string, len(p.Instructions))
	for name, def := range p.Functions {
		for i := def.HeaderIndex; i <= def.ReturnIndex; i++ {
			owners[i] = name
		}
	}
	return owners
}
