package asm

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Item is one slot of the assembler's intermediate stream (§3): either a
// pre-resolved data word or a source line still pending encoding. Every
// Item occupies exactly one 64-bit word in the final image — the
// invariant the label pass relies on to assign byte offsets.
type Item struct {
	IsWord bool
	Word   uint64
	Source string
}

// ParseDirectives consumes `.word`/`.asciz` directive-and-literal pairs
// into PreAssembled words, per §4.1's "directive emission" rules, and
// passes every other line through untouched as a pending Source item.
func ParseDirectives(lines []string) ([]Item, error) {
	items := make([]Item, 0, len(lines))
	i := 0
	for i < len(lines) {
		fields := strings.Fields(lines[i])
		directive := ""
		if len(fields) > 0 {
			directive = fields[0]
		}

		switch directive {
		case ".asciz":
			if i+1 >= len(lines) {
				return nil, errors.Wrapf(ErrMalformedAsciz, "line %d", i+1)
			}
			literal := lines[i+1]
			items = append(items, Item{IsWord: true, Word: uint64(len(literal))})
			for _, b := range []byte(literal) {
				items = append(items, Item{IsWord: true, Word: uint64(b)})
			}
			i += 2
		case ".word":
			if i+1 >= len(lines) {
				return nil, errors.Wrapf(ErrMalformedWord, "line %d", i+1)
			}
			value, err := parseWordLiteral(lines[i+1])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: %q", i+2, lines[i+1])
			}
			items = append(items, Item{IsWord: true, Word: value})
			i += 2
		default:
			items = append(items, Item{Source: lines[i]})
			i++
		}
	}
	return items, nil
}

// parseWordLiteral parses a `.word` literal: hexadecimal when prefixed
// 0x, binary when prefixed 0b (both non-negative), otherwise a signed
// decimal reinterpreted as unsigned 64-bit.
func parseWordLiteral(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "0x"):
		return strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b"):
		return strconv.ParseUint(s[2:], 2, 64)
	default:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, errors.Wrap(ErrMalformedWord, err.Error())
		}
		return uint64(v), nil
	}
}
