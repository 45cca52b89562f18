package asm

import "strings"

// Trim runs the preprocessor's first three steps (§4.1): strip leading
// and trailing whitespace, drop full-line and trailing comments, and
// discard anything left empty. Grounded on the teacher's own line-by-line
// preprocessing pass (vm.go's per-file read loop feeding preprocessLine),
// generalized from that VM's whitespace/blank-line handling to this ISA's
// comment syntax.
func Trim(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, ";") {
			continue
		}
		if idx := strings.Index(t, ";"); idx >= 0 {
			t = strings.TrimSpace(t[:idx])
		}
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
