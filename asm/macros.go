package asm

import (
	"fmt"
	"strings"
)

// ExpandPushPop turns `push r0, r1, r2` into three lines `push r0`,
// `push r1`, `push r2` (and likewise for pop), preserving operand order
// and stripping trailing commas, per §4.1.
func ExpandPushPop(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			out = append(out, line)
			continue
		}
		mnem := strings.ToLower(fields[0])
		if !strings.HasPrefix(mnem, "push") && !strings.HasPrefix(mnem, "pop") {
			out = append(out, line)
			continue
		}
		rest := strings.TrimSuffix(strings.TrimSpace(strings.Join(fields[1:], " ")), ",")
		for _, part := range strings.Split(rest, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, fields[0]+" "+part)
		}
	}
	return out
}

// isITLine reports whether a line opens an it{t,e}* conditional block:
// the first token is "it" optionally followed by any number of 't'/'e'
// letters, and a condition-code operand follows.
func isITLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return false
	}
	tok := strings.ToLower(fields[0])
	if tok == "it" {
		return true
	}
	if !strings.HasPrefix(tok, "it") {
		return false
	}
	for _, ch := range tok[2:] {
		if ch != 't' && ch != 'e' {
			return false
		}
	}
	return len(tok) > 2
}

// ExpandITE expands every it{t,e}* block in lines into explicit branches
// and labels, per the scheme in §4.1:
//
//	b<cond> =__IF_THEN_k
//	b      =__IF_ELSE_k
//	__IF_THEN_k:
//	  <t instructions in order>
//	b      =__IF_END_k
//	__IF_ELSE_k:
//	  <e instructions in order>
//	__IF_END_k:
//
// Blocks nest: a "then" or "else" slot that is itself an it-line is
// expanded recursively first, and its whole expansion becomes that
// slot's content, with a shared counter so nested blocks still receive
// distinct k values.
func ExpandITE(lines []string) ([]string, error) {
	var out []string
	counter := 0
	i := 0
	for i < len(lines) {
		if isITLine(lines[i]) {
			expanded, consumed, err := expandOneIT(lines, i, &counter)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
			i += consumed
			continue
		}
		out = append(out, lines[i])
		i++
	}
	return out, nil
}

func expandOneIT(lines []string, i int, counter *int) ([]string, int, error) {
	fields := strings.Fields(lines[i])
	mnem := strings.ToLower(fields[0])
	cond := strings.ToLower(fields[1])
	letters := "t" + mnem[2:]

	pos := i + 1
	var thenLines, elseLines []string
	for _, ch := range letters {
		slot, consumed, err := consumeSlot(lines, pos, counter)
		if err != nil {
			return nil, 0, err
		}
		if ch == 't' {
			thenLines = append(thenLines, slot...)
		} else {
			elseLines = append(elseLines, slot...)
		}
		pos += consumed
	}

	k := *counter
	*counter++

	var out []string
	out = append(out, fmt.Sprintf("b%s =__IF_THEN_%d", cond, k))
	out = append(out, fmt.Sprintf("b =__IF_ELSE_%d", k))
	out = append(out, fmt.Sprintf("__IF_THEN_%d:", k))
	out = append(out, thenLines...)
	out = append(out, fmt.Sprintf("b =__IF_END_%d", k))
	out = append(out, fmt.Sprintf("__IF_ELSE_%d:", k))
	out = append(out, elseLines...)
	out = append(out, fmt.Sprintf("__IF_END_%d:", k))

	return out, pos - i, nil
}

// consumeSlot returns the lines belonging to one "logical instruction"
// slot of an it block, plus how many raw source lines it consumed. A
// slot that is itself an it-line recurses into expandOneIT so nested
// blocks are fully resolved before being folded into the parent's
// then/else sequence.
func consumeSlot(lines []string, i int, counter *int) ([]string, int, error) {
	if i >= len(lines) {
		return nil, 0, ErrTruncatedIT
	}
	if isITLine(lines[i]) {
		return expandOneIT(lines, i, counter)
	}
	return []string{lines[i]}, 1, nil
}
