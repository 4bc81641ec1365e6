// Package strings holds small helpers for cleaning configured string lists.
package strings

import (
	"slices"
	"strings"
)

// Compact trims each value and drops blanks and repeats, keeping the first
// occurrence. Rule lists depend on that order, so it is never sorted.
func Compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
