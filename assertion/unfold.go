package assertion

import (
	"fmt"

	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// RegisterSizeFunc resolves a register's declared size, or reports that no
// such register exists.
type RegisterSizeFunc func(name string) (size int, ok bool)

// UnfoldTargets expands any target that names a whole register into the
// register's indexed entries, in declaration order, unless that name is
// shadowed by a surrounding function's parameter (in which case it names a
// single qubit bound at the call site and is left untouched).
func UnfoldTargets(targets []string, registerSize RegisterSizeFunc, shadowed map[string]bool) ([]string, error) {
	result := make([]string, 0, len(targets))
	for _, t := range targets {
		if _, indexed := util.VariableIndex(t); indexed {
			result = append(result, t)
			continue
		}
		base := util.VariableBase(t)
		if shadowed[base] {
			result = append(result, t)
			continue
		}
		size, ok := registerSize(base)
		if !ok {
			return nil, fmt.Errorf("assertion target %q: no such register", t)
		}
		for i := 0; i < size; i++ {
			result = append(result, fmt.Sprintf("%s[%d]", base, i))
		}
	}
	return result, nil
}
