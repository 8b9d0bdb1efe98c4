package util

import "strings"

// VariableBase returns the register name of a (possibly indexed) variable
// reference, e.g. "q[2]" -> "q", "q" -> "q".
func VariableBase(ref string) string {
	if i := strings.IndexByte(ref, '['); i >= 0 {
		return strings.TrimSpace(ref[:i])
	}
	return strings.TrimSpace(ref)
}

// VariableIndex returns the index of an indexed variable reference and true,
// or (0, false) if ref does not carry an explicit index.
func VariableIndex(ref string) (int, bool) {
	start := strings.IndexByte(ref, '[')
	end := strings.IndexByte(ref, ']')
	if start < 0 || end < 0 || end < start {
		return 0, false
	}
	digits := strings.TrimSpace(ref[start+1 : end])
	n := 0
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// VariablesEqual implements the debugger's variable-aliasing rule:
//
//	two references are equal if both are indexed and textually equal,
//	or one names a whole register and the other is any index of it.
func VariablesEqual(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == b {
		return true
	}
	_, aIndexed := VariableIndex(a)
	_, bIndexed := VariableIndex(b)
	if aIndexed && bIndexed {
		return false // both indexed, textually different -> different qubits
	}
	// Exactly one side is a bare register name: it aliases any index of it.
	if !aIndexed {
		return VariableBase(a) == VariableBase(b)
	}
	return VariableBase(b) == VariableBase(a)
}
