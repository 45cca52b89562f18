package cpu

// CPSR packs the four condition flags into the low nibble of a byte, in
// the order N(3) Z(2) C(1) V(0), exactly as the spec's data model lays it
// out.
type CPSR uint8

const (
	flagV = 1 << 0
	flagC = 1 << 1
	flagZ = 1 << 2
	flagN = 1 << 3
)

// Flags is the unpacked (N, Z, C, V) tuple the ALU returns; code
// that needs individual bits works with this rather than re-deriving them
// from a packed CPSR byte.
type Flags struct {
	N, Z, C, V bool
}

// Pack folds a Flags tuple into a CPSR byte.
func (f Flags) Pack() CPSR {
	var c CPSR
	if f.N {
		c |= flagN
	}
	if f.Z {
		c |= flagZ
	}
	if f.C {
		c |= flagC
	}
	if f.V {
		c |= flagV
	}
	return c
}

func (c CPSR) N() bool { return c&flagN != 0 }
func (c CPSR) Z() bool { return c&flagZ != 0 }
func (c CPSR) C() bool { return c&flagC != 0 }
func (c CPSR) V() bool { return c&flagV != 0 }

// Cond is the 4-bit condition code field, per the table in §4.2.
type Cond uint8

const (
	CondEQ Cond = 0
	CondNE Cond = 1
	CondHS Cond = 2 // alias CS
	CondLO Cond = 3 // alias CC
	CondMI Cond = 4
	CondPL Cond = 5
	CondVS Cond = 6
	CondVC Cond = 7
	CondHI Cond = 8
	CondLS Cond = 9
	CondGE Cond = 10
	CondLT Cond = 11
	CondGT Cond = 12
	CondLE Cond = 13
	CondAL Cond = 14
)

// condNames backs the encoder's suffix lookup (CondByName); condToName
// below is the disassembler's reverse table for rendering a condition code.
var condNames = map[string]Cond{
	"eq": CondEQ, "ne": CondNE,
	"hs": CondHS, "cs": CondHS,
	"lo": CondLO, "cc": CondLO,
	"mi": CondMI, "pl": CondPL,
	"vs": CondVS, "vc": CondVC,
	"hi": CondHI, "ls": CondLS,
	"ge": CondGE, "lt": CondLT,
	"gt": CondGT, "le": CondLE,
	"al": CondAL,
}

// CondByName looks up a condition code by its two-letter mnemonic suffix
// (e.g. "ne", "hs", "al"), used by the assembler's encoder when splitting
// a mnemonic's condition suffix off the base mnemonic.
func CondByName(name string) (Cond, bool) {
	c, ok := condNames[name]
	return c, ok
}

var condToName = map[Cond]string{
	CondEQ: "eq", CondNE: "ne", CondHS: "hs", CondLO: "lo",
	CondMI: "mi", CondPL: "pl", CondVS: "vs", CondVC: "vc",
	CondHI: "hi", CondLS: "ls", CondGE: "ge", CondLT: "lt",
	CondGT: "gt", CondLE: "le", CondAL: "al",
}

// Eval decides whether cond is satisfied by the given flags. The boolean
// formulas for HI/LS/GE/LT/GT/LE come from the original source's register
// file condition table; the rest follow directly from a single flag bit.
func (c CPSR) Eval(cond Cond) (bool, error) {
	switch cond {
	case CondEQ:
		return c.Z(), nil
	case CondNE:
		return !c.Z(), nil
	case CondHS:
		return c.C(), nil
	case CondLO:
		return !c.C(), nil
	case CondMI:
		return c.N(), nil
	case CondPL:
		return !c.N(), nil
	case CondVS:
		return c.V(), nil
	case CondVC:
		return !c.V(), nil
	case CondHI:
		return c.C() && !c.Z(), nil
	case CondLS:
		return !c.C() || c.Z(), nil
	case CondGE:
		return c.N() == c.V(), nil
	case CondLT:
		return c.N() != c.V(), nil
	case CondGT:
		return !c.Z() && c.N() == c.V(), nil
	case CondLE:
		return c.Z() || c.N() != c.V(), nil
	case CondAL:
		return true, nil
	default:
		return false, ErrInvalidCondition
	}
}
