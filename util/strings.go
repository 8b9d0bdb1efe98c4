// Package util provides the small, shared building blocks the rest of the
// debugger is built on: textual helpers for the preprocessor and assertion
// parser, and complex/density-matrix math for the checker and diagnostics.
package util

import "strings"

// TrimSpace removes leading and trailing ASCII/Unicode whitespace.
// Thin wrapper kept so callers depend on util, not strings, at call sites
// that may later need QASM-specific trimming (e.g. trailing semicolons).
func TrimSpace(s string) string {
	return strings.TrimSpace(s)
}

// TrimSemicolon removes a single trailing ';' (and any whitespace around it).
func TrimSemicolon(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	return strings.TrimSpace(s)
}

// SplitAny splits s on any of the given delimiter runes. When includeEmpty
// is false, empty tokens (from adjacent delimiters or leading/trailing
// delimiters) are dropped; tokens are always trimmed of surrounding
// whitespace.
func SplitAny(s string, delims string, includeEmpty bool) []string {
	pieces := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	})
	if includeEmpty {
		// FieldsFunc already drops empties; rebuild with a manual scan so
		// that "a,,b" yields ["a", "", "b"] when the caller wants that.
		return splitAnyKeepEmpty(s, delims)
	}
	result := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func splitAnyKeepEmpty(s string, delims string) []string {
	var result []string
	start := 0
	for i, r := range s {
		if strings.ContainsRune(delims, r) {
			result = append(result, strings.TrimSpace(s[start:i]))
			start = i + len(string(r))
		}
	}
	result = append(result, strings.TrimSpace(s[start:]))
	return result
}

// ReplaceSpan replaces the byte range [start, end) of s with replacement,
// returning the new string.
func ReplaceSpan(s string, start, end int, replacement string) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		return s
	}
	return s[:start] + replacement + s[end:]
}

// StripWhitespace removes every whitespace character from s.
func StripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
