package asm

import "strings"

// BuildLabels walks items produced by ParseDirectives and records each
// label definition's byte offset, per §4.1's label pass: a source line
// ending in `:` is a label definition naming the address of the next
// item actually emitted into the stream, and is itself dropped. Every
// other item keeps its position; the index it ends up at times 8 is its
// final byte offset, since every item occupies one 64-bit word (§3).
func BuildLabels(items []Item) ([]Item, map[string]uint64) {
	labels := make(map[string]uint64)
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.IsWord {
			trimmed := strings.TrimSpace(it.Source)
			if strings.HasSuffix(trimmed, ":") {
				labels[strings.TrimSuffix(trimmed, ":")] = uint64(len(out)) * 8
				continue
			}
		}
		out = append(out, it)
	}
	return out, labels
}
