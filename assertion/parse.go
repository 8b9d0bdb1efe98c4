package assertion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/qasm-assert-debugger/util"
)

// Parse parses one assertion statement (trailing ';' optional, already
// stripped of the surrounding block token if it had a body) into an
// Assertion. stmt must start with one of the three assertion keywords.
func Parse(stmt string) (*Assertion, error) {
	stmt = util.TrimSemicolon(stmt)

	switch {
	case strings.HasPrefix(stmt, "assert-ent"):
		targets, err := parseTargetList(strings.TrimSpace(stmt[len("assert-ent"):]))
		if err != nil {
			return nil, err
		}
		return &Assertion{Kind: KindEntanglement, Targets: targets}, nil

	case strings.HasPrefix(stmt, "assert-sup"):
		targets, err := parseTargetList(strings.TrimSpace(stmt[len("assert-sup"):]))
		if err != nil {
			return nil, err
		}
		return &Assertion{Kind: KindSuperposition, Targets: targets}, nil

	case strings.HasPrefix(stmt, "assert-eq"):
		return parseEquality(strings.TrimSpace(stmt[len("assert-eq"):]))

	default:
		return nil, fmt.Errorf("not an assertion statement: %q", stmt)
	}
}

func parseTargetList(s string) ([]string, error) {
	targets := util.SplitAny(s, ",", false)
	if len(targets) == 0 {
		return nil, fmt.Errorf("assertion has no targets")
	}
	return targets, nil
}

// parseEquality handles "[<threshold>,] <targets> { <body> }".
func parseEquality(s string) (*Assertion, error) {
	open := strings.IndexByte(s, '{')
	close := strings.LastIndexByte(s, '}')
	if open < 0 || close < 0 || close < open {
		return nil, fmt.Errorf("assert-eq requires a { ... } body")
	}
	header := strings.TrimSpace(s[:open])
	body := strings.TrimSpace(s[open+1 : close])

	threshold := DefaultThreshold
	targetsText := header
	if comma := strings.IndexByte(header, ','); comma >= 0 {
		candidate := strings.TrimSpace(header[:comma])
		if v, err := strconv.ParseFloat(candidate, 64); err == nil {
			threshold = v
			targetsText = strings.TrimSpace(header[comma+1:])
		}
	}

	targets, err := parseTargetList(targetsText)
	if err != nil {
		return nil, err
	}

	a := &Assertion{Kind: KindEquality, Targets: targets, Threshold: threshold}

	if strings.ContainsRune(body, ';') {
		a.Body = BodyCircuit
		a.CircuitSource = body
		return a, nil
	}

	amps, err := parseAmplitudeList(body)
	if err != nil {
		return nil, fmt.Errorf("assert-eq state vector: %w", err)
	}
	a.Body = BodyStatevector
	a.Amplitudes = amps
	return a, nil
}

func parseAmplitudeList(s string) ([]complex128, error) {
	tokens := util.SplitAny(s, ",", false)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty amplitude list")
	}
	amps := make([]complex128, 0, len(tokens))
	for _, tok := range tokens {
		c, err := parseComplexToken(tok)
		if err != nil {
			return nil, err
		}
		amps = append(amps, c)
	}
	return amps, nil
}

// parseComplexToken parses one amplitude literal of the form a, bi, bj,
// a+bi, or a-bi. Splitting preference: first try splitting on a non-leading
// '-' (this preserves the sign of the leading term), falling back to a
// non-leading '+'; whichever subtoken contains 'i' or 'j' contributes the
// imaginary part.
func parseComplexToken(tok string) (complex128, error) {
	tok = strings.ReplaceAll(tok, " ", "")
	if tok == "" {
		return 0, fmt.Errorf("empty amplitude token")
	}

	parts := splitSigned(tok)
	var re, im float64
	for _, p := range parts {
		if p == "" {
			continue
		}
		isImag := strings.ContainsAny(p, "ij")
		numPart := strings.TrimRight(p, "ij")
		switch numPart {
		case "", "+":
			numPart = "1"
		case "-":
			numPart = "-1"
		}
		val, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amplitude token %q: %w", tok, err)
		}
		if isImag {
			im += val
		} else {
			re += val
		}
	}
	return complex(re, im), nil
}

// splitSigned splits tok into at most two subtokens at the first
// non-leading '-', or failing that the first non-leading '+'; the split
// character stays attached to the start of the second subtoken so its sign
// is preserved.
func splitSigned(tok string) []string {
	if i := nonLeadingIndex(tok, '-'); i >= 0 {
		return []string{tok[:i], tok[i:]}
	}
	if i := nonLeadingIndex(tok, '+'); i >= 0 {
		return []string{tok[:i], tok[i:]}
	}
	return []string{tok}
}

// nonLeadingIndex returns the first index after position 0 holding ch, or
// -1; a sign directly after 'e' or 'E' belongs to an exponent (as in
// 1e-05) and is skipped.
func nonLeadingIndex(tok string, ch byte) int {
	for i := 1; i < len(tok); i++ {
		if tok[i] == ch && tok[i-1] != 'e' && tok[i-1] != 'E' {
			return i
		}
	}
	return -1
}
