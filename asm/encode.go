package asm

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"gvm/cpu"
)

// splitMnemonicToken separates a mnemonic token into its base mnemonic, the
// `s` (set-flags) suffix, and a two-letter condition suffix, per §4.1's
// encoding rules and §4.2's "suffix s ... forces condition AL".
//
// The exact-match-first order is what keeps "smul"/"smodu"/"push" from
// being mistaken for a shorter mnemonic plus a suffix (DESIGN.md, §9
// "Mnemonic prefix ambiguity"): a full, unsuffixed hit in cpu.Mnemonics
// always wins before any suffix is ever stripped. A condition suffix is
// tried before the `s` suffix, so "bls" is `b` with condition LS — the
// form ExpandITE emits for an `it ls` block.
func splitMnemonicToken(tok string) (base string, setFlags bool, cond cpu.Cond, err error) {
	lower := strings.ToLower(tok)

	if _, ok := cpu.Mnemonics[lower]; ok {
		return lower, false, cpu.CondAL, nil
	}

	if len(lower) > 2 {
		suffix := lower[len(lower)-2:]
		if cond, ok := cpu.CondByName(suffix); ok {
			candidate := lower[:len(lower)-2]
			if _, ok := cpu.Mnemonics[candidate]; ok {
				return candidate, false, cond, nil
			}
		}
	}

	if strings.HasSuffix(lower, "s") {
		candidate := lower[:len(lower)-1]
		if _, ok := cpu.Mnemonics[candidate]; ok {
			return candidate, true, cpu.CondAL, nil
		}
	}

	return "", false, 0, errors.Wrapf(ErrUnknownMnemonic, "%q", tok)
}

// regNames maps the assembler's register vocabulary (r0..r15 plus the
// sp/lr/pc aliases) to register indices; the disassembler's regName
// (cpu/disasm.go) is this table's mirror image.
var regNames = func() map[string]uint8 {
	m := map[string]uint8{
		"sp": cpu.RegSP,
		"lr": cpu.RegLR,
		"pc": cpu.RegPC,
	}
	for i := 0; i < cpu.NumRegisters; i++ {
		m["r"+strconv.Itoa(i)] = uint8(i)
	}
	return m
}()

func parseReg(tok string) (uint8, error) {
	if r, ok := regNames[strings.ToLower(tok)]; ok {
		return r, nil
	}
	return 0, errors.Wrapf(ErrUnknownOperand, "not a register: %q", tok)
}

// parseImmediate32 parses an instruction's `#N` immediate: hexadecimal
// when prefixed 0x, binary when prefixed 0b, otherwise a signed decimal
// reinterpreted as unsigned 32 bits — the same literal grammar §4.1 gives
// `.word`, narrowed to the instruction word's 32-bit c field (§3).
func parseImmediate32(s string) (uint32, error) {
	switch {
	case strings.HasPrefix(s, "0x"):
		v, err := strconv.ParseUint(s[2:], 16, 32)
		return uint32(v), err
	case strings.HasPrefix(s, "0b"):
		v, err := strconv.ParseUint(s[2:], 2, 32)
		return uint32(v), err
	default:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0, err
		}
		return uint32(v), nil
	}
}

// parseCOperand parses an operand that may fill the instruction word's c
// field: `#N` (immediate), `=name` (a label reference, which resolves to
// an immediate per §4.1), or a register name (I=0, c=register index).
func parseCOperand(tok string, labels map[string]uint64) (isImmediate bool, value uint32, err error) {
	switch {
	case strings.HasPrefix(tok, "#"):
		v, err := parseImmediate32(tok[1:])
		if err != nil {
			return false, 0, errors.Wrapf(ErrUnknownOperand, "bad immediate %q: %s", tok, err)
		}
		return true, v, nil
	case strings.HasPrefix(tok, "="):
		name := tok[1:]
		addr, ok := labels[name]
		if !ok {
			return false, 0, errors.Wrapf(ErrUnknownLabel, "%q", name)
		}
		return true, uint32(addr), nil
	default:
		r, err := parseReg(tok)
		if err != nil {
			return false, 0, err
		}
		return false, uint32(r), nil
	}
}

// splitOperands splits an operand string on commas, trimming whitespace
// and dropping anything empty — the trailing-comma tolerance §4.1
// describes for push/pop lists applies equally well here.
func splitOperands(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func operandCountErr(mnem string, want int, ops []string) error {
	return errors.Wrapf(ErrUnknownOperand, "%s wants %d operand(s), got %d", mnem, want, len(ops))
}

// EncodeLine encodes a single, already-preprocessed source line (label
// definitions must already be stripped) into its 64-bit instruction word,
// per §4.1's "Encoding" rules and the operand shapes catalogued in §4.2.
func EncodeLine(line string, labels map[string]uint64) (uint64, error) {
	fields := strings.SplitN(line, " ", 2)
	mnemTok := fields[0]
	operandStr := ""
	if len(fields) > 1 {
		operandStr = fields[1]
	}

	base, setFlags, cond, err := splitMnemonicToken(mnemTok)
	if err != nil {
		return 0, err
	}
	info := cpu.Mnemonics[base]
	ops := splitOperands(operandStr)

	ins := cpu.Instruction{
		Op:   info.Op,
		Cond: cond,
		S:    info.SetFlagsOnly || setFlags,
	}

	switch info.Shape {
	case cpu.ShapeNone:
		if len(ops) != 0 {
			return 0, operandCountErr(base, 0, ops)
		}

	case cpu.ShapeDBC:
		if len(ops) != 3 {
			return 0, operandCountErr(base, 3, ops)
		}
		if ins.Rd, err = parseReg(ops[0]); err != nil {
			return 0, err
		}
		if ins.Rb, err = parseReg(ops[1]); err != nil {
			return 0, err
		}
		if ins.I, ins.C, err = parseCOperand(ops[2], labels); err != nil {
			return 0, err
		}

	case cpu.ShapeDC:
		if len(ops) != 2 {
			return 0, operandCountErr(base, 2, ops)
		}
		if ins.Rd, err = parseReg(ops[0]); err != nil {
			return 0, err
		}
		if ins.I, ins.C, err = parseCOperand(ops[1], labels); err != nil {
			return 0, err
		}

	case cpu.ShapeBC:
		if len(ops) != 2 {
			return 0, operandCountErr(base, 2, ops)
		}
		if ins.Rb, err = parseReg(ops[0]); err != nil {
			return 0, err
		}
		if ins.I, ins.C, err = parseCOperand(ops[1], labels); err != nil {
			return 0, err
		}

	case cpu.ShapeMem:
		switch len(ops) {
		case 2:
			if ins.Rd, err = parseReg(ops[0]); err != nil {
				return 0, err
			}
			if ins.Ra, err = parseReg(ops[1]); err != nil {
				return 0, err
			}
			ins.I = true
		case 4:
			if ins.Rd, err = parseReg(ops[0]); err != nil {
				return 0, err
			}
			if ins.Ra, err = parseReg(ops[1]); err != nil {
				return 0, err
			}
			if ins.Rb, err = parseReg(ops[2]); err != nil {
				return 0, err
			}
			if ins.I, ins.C, err = parseCOperand(ops[3], labels); err != nil {
				return 0, err
			}
		default:
			return 0, operandCountErr(base, 2, ops)
		}

	case cpu.ShapeReg1, cpu.ShapeMvi:
		if len(ops) != 1 {
			return 0, operandCountErr(base, 1, ops)
		}
		if ins.Rd, err = parseReg(ops[0]); err != nil {
			return 0, err
		}

	case cpu.ShapeQry:
		if len(ops) != 1 {
			return 0, operandCountErr(base, 1, ops)
		}
		if ins.I, ins.C, err = parseCOperand(ops[0], labels); err != nil {
			return 0, err
		}

	case cpu.ShapeInt:
		if len(ops) != 2 {
			return 0, operandCountErr(base, 2, ops)
		}
		if ins.Rb, err = parseReg(ops[0]); err != nil {
			return 0, err
		}
		if ins.I, ins.C, err = parseCOperand(ops[1], labels); err != nil {
			return 0, err
		}

	case cpu.ShapeBranch:
		if len(ops) != 1 {
			return 0, operandCountErr(base, 1, ops)
		}
		if ins.I, ins.C, err = parseCOperand(ops[0], labels); err != nil {
			return 0, err
		}
	}

	return ins.Encode(), nil
}
