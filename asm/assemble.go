// Package asm implements the two-pass text assembler: preprocessing
// (comment/whitespace stripping, `ite` and push/pop macro expansion),
// `.word`/`.asciz` directive emission, the label pass, and the encoder
// that lowers a source line into a 64-bit instruction word.
package asm

import (
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
)

// Assemble runs the full preprocessor + encoder pipeline (§4.1) over
// assembly source text and returns the big-endian byte image the host
// loads into a cpu.Core with LoadMemory — the `assemble` host entry
// point of §6.
func Assemble(source string) ([]byte, error) {
	lines := strings.Split(source, "\n")
	lines = Trim(lines)

	lines, err := ExpandITE(lines)
	if err != nil {
		return nil, err
	}
	lines = ExpandPushPop(lines)

	items, err := ParseDirectives(lines)
	if err != nil {
		return nil, err
	}

	items, labels := BuildLabels(items)

	out := make([]byte, len(items)*8)
	for i, item := range items {
		word := item.Word
		if !item.IsWord {
			word, err = EncodeLine(item.Source, labels)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: %q", i+1, item.Source)
			}
		}
		binary.BigEndian.PutUint64(out[i*8:], word)
	}
	return out, nil
}
