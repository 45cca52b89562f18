package cpu

import "fmt"

// regName renders a register index using the sp/lr/pc aliases where they
// apply, and "rN" otherwise — the same vocabulary the assembler accepts,
// so disassembled text re-assembles to the identical word.
func regName(i uint8) string {
	switch i {
	case RegSP:
		return "sp"
	case RegLR:
		return "lr"
	case RegPC:
		return "pc"
	default:
		return fmt.Sprintf("r%d", i)
	}
}

func operand(ins Instruction) string {
	if ins.I {
		return fmt.Sprintf("#0x%x", ins.C)
	}
	return regName(uint8(ins.C) & 0xF)
}

// Disassemble renders a 64-bit instruction word as canonical assembly
// text, the disassemble host entry point (§6). It is the mirror image of
// the encoder: every mnemonic/shape pairing it emits is one the encoder
// can parse back into the same word.
func Disassemble(word uint64) string {
	ins, err := Decode(word)
	if err != nil {
		return fmt.Sprintf("; invalid: %s", err)
	}
	name, known := opToMnemonic[ins.Op]
	if !known {
		return fmt.Sprintf("; unknown opcode 0x%x", uint16(ins.Op))
	}

	info := Mnemonics[name]
	mnem := name
	switch {
	case info.SetFlagsOnly:
		// S is hard-wired on for compare ops (cmp/cmn/tst/teq); the "s"
		// suffix isn't meaningful here, so a condition suffix (if any)
		// rides alone rather than being shadowed by it.
		if ins.Cond != CondAL {
			mnem += condToName[ins.Cond]
		}
	case ins.S:
		mnem += "s"
	case ins.Cond != CondAL:
		mnem += condToName[ins.Cond]
	}

	shape := info.Shape
	switch shape {
	case ShapeNone:
		return mnem
	case ShapeDBC:
		return fmt.Sprintf("%s %s, %s, %s", mnem, regName(ins.Rd), regName(ins.Rb), operand(ins))
	case ShapeDC:
		return fmt.Sprintf("%s %s, %s", mnem, regName(ins.Rd), operand(ins))
	case ShapeBC:
		return fmt.Sprintf("%s %s, %s", mnem, regName(ins.Rb), operand(ins))
	case ShapeMem:
		if ins.I && ins.Rb == 0 && ins.C == 0 {
			return fmt.Sprintf("%s %s, %s", mnem, regName(ins.Rd), regName(ins.Ra))
		}
		return fmt.Sprintf("%s %s, %s, %s, %s", mnem, regName(ins.Rd), regName(ins.Ra), regName(ins.Rb), operand(ins))
	case ShapeReg1, ShapeMvi:
		return fmt.Sprintf("%s %s", mnem, regName(ins.Rd))
	case ShapeQry:
		return fmt.Sprintf("%s %s", mnem, operand(ins))
	case ShapeInt:
		return fmt.Sprintf("%s %s, %s", mnem, regName(ins.Rb), operand(ins))
	case ShapeBranch:
		return fmt.Sprintf("%s %s", mnem, operand(ins))
	default:
		return mnem
	}
}
