package cpu

import "math/bits"

// Eval is the ALU: a pure function mapping (op, b, c) to a result, the
// flags that operation would set, and whether it trapped. It never
// touches register or memory state — the core threads its outputs back
// into the pipeline (core.go) the way §4.3 describes.
//
// trap is true only for divide/modulo by zero; result and flags are
// unspecified in that case and the caller must not use them.
func Eval(op Op, b, c uint64) (result uint64, flags Flags, trap bool) {
	switch op {
	case Mov:
		result = c
	case Add, Cmn:
		result = b + c
		flags.C = result < b
		flags.V = addOverflow(b, c, result)
	case Sub, Cmp:
		result = b - c
		flags.C = b < c
		flags.V = subOverflow(b, c, result)
	case Mul:
		hi, lo := bits.Mul64(b, c)
		result = lo
		flags.C = hi != 0
	case Div:
		if c == 0 {
			trap = true
			return
		}
		result = b / c
	case Smul:
		sb, sc := int64(b), int64(c)
		result = uint64(sb * sc)
		flags.V = signedMulOverflow(sb, sc)
	case Sdiv:
		if c == 0 {
			trap = true
			return
		}
		result = uint64(int64(b) / int64(c))
	case Modu:
		if c == 0 {
			trap = true
			return
		}
		result = b % c
	case Smodu:
		if c == 0 {
			trap = true
			return
		}
		result = uint64(int64(b) % int64(c))
	case Mvn:
		result = ^c
	case And, Tst:
		result = b & c
	case Orr:
		result = b | c
	case Eor, Teq:
		result = b ^ c
	case Lsl:
		n := shiftCount(c)
		result = shiftLeft(b, n)
		flags.C = lslCarry(b, n)
	case Lsr:
		n := shiftCount(c)
		result = shiftRightLogical(b, n)
		flags.C = lsrCarry(b, n)
	case Asr:
		n := shiftCount(c)
		result = uint64(int64(b) >> n)
		flags.C = lsrCarry(b, n)
	case Rol:
		m := c % 64
		result = bits.RotateLeft64(b, int(m))
		flags.C = m != 0 && result&1 != 0
	case Ror:
		m := c % 64
		result = bits.RotateLeft64(b, -int(m))
		flags.C = m != 0 && result>>63 != 0
	case Qry:
		result = c
	default:
		result = c
	}

	flags.N = result>>63 != 0
	flags.Z = result == 0
	return
}

// shiftCount turns an ALU c-operand into a shift amount. Go's own shift
// operator already returns 0 for counts >= the operand width, which is
// exactly the "host-defined" behavior this ISA leaves unnormalized for
// lsl/lsr/asr (see DESIGN.md and SPEC_FULL.md's open-question notes);
// only rol/ror are explicitly reduced mod 64.
func shiftCount(c uint64) uint {
	if c > 255 {
		// Guard against absurd counts overflowing the uint conversion on
		// 32-bit platforms; semantically still "shift out everything".
		return 255
	}
	return uint(c)
}

func shiftLeft(b uint64, n uint) uint64 {
	if n >= 64 {
		return 0
	}
	return b << n
}

func shiftRightLogical(b uint64, n uint) uint64 {
	if n >= 64 {
		return 0
	}
	return b >> n
}

func lslCarry(b uint64, n uint) bool {
	if n == 0 || n > 64 {
		return false
	}
	return (b>>(64-n))&1 != 0
}

func lsrCarry(b uint64, n uint) bool {
	if n == 0 || n > 64 {
		return false
	}
	return (b>>(n-1))&1 != 0
}

// addOverflow reports signed overflow for b+c=result: operands share a
// sign and the result doesn't.
func addOverflow(b, c, result uint64) bool {
	return ((^(b^c) & (b ^ result)) >> 63) != 0
}

// subOverflow reports signed overflow for b-c=result.
func subOverflow(b, c, result uint64) bool {
	return (((b ^ c) & (b ^ result)) >> 63) != 0
}

func signedMulOverflow(b, c int64) bool {
	if b == 0 || c == 0 {
		return false
	}
	r := b * c
	return r/b != c
}
