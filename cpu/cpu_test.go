package cpu

import (
	"fmt"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

// TestInstructionRoundTrip covers §8's codec law: for every word the
// encoder produces, Decode reconstructs the same field tuple used to
// build it.
func TestInstructionRoundTrip(t *testing.T) {
	cases := []Instruction{
		{Cond: CondAL, S: false, I: true, Op: Mov, Rd: 3, C: 0xDEADBEEF},
		{Cond: CondNE, S: true, I: false, Op: Add, Rd: 1, Rb: 2, C: 5},
		{Cond: CondAL, S: false, I: true, Op: Ldr, Rd: 4, Ra: 5, Rb: 0, C: 0},
		{Cond: CondGT, S: false, I: true, Op: B, C: 0x100},
	}
	for _, want := range cases {
		word := want.Encode()
		got, err := Decode(word)
		assert(t, err == nil, "decode failed: %v", err)
		assert(t, got == want, "round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestDecodeInvalidCondition(t *testing.T) {
	word := uint64(0xF) << shiftCond
	_, err := Decode(word)
	assert(t, err == ErrInvalidCondition, "expected invalid condition, got %v", err)
}

func TestDisassembleRoundTrip(t *testing.T) {
	ins := Instruction{Cond: CondAL, S: true, I: true, Op: Sub, Rd: 2, Rb: 3, C: 7}
	text := Disassemble(ins.Encode())
	assert(t, text == "subs r2, r3, #0x7", "unexpected disassembly: %q", text)
}

// TestDisassembleConditionalCompare guards a compare op's condition
// suffix: S is hard-wired on for cmp/cmn/tst/teq, so the "s" suffix must
// never shadow a non-AL condition the way it would for a plain data-proc
// mnemonic.
func TestDisassembleConditionalCompare(t *testing.T) {
	ins := Instruction{Cond: CondNE, S: true, I: false, Op: Cmp, Rb: 4, C: 5}
	text := Disassemble(ins.Encode())
	assert(t, text == "cmpne r4, r5", "unexpected disassembly: %q", text)
}

func TestALUAddSubFlags(t *testing.T) {
	r, f, trap := Eval(Add, 1, 1)
	assert(t, !trap, "add should not trap")
	assert(t, r == 2, "1+1 = %d", r)
	assert(t, !f.N && !f.Z && !f.C && !f.V, "unexpected flags: %+v", f)

	r, f, trap = Eval(Sub, 1, 1)
	assert(t, !trap, "sub should not trap")
	assert(t, r == 0, "1-1 = %d", r)
	assert(t, f.Z, "expected Z set on zero result")

	r, f, trap = Eval(Sub, 1, 2)
	assert(t, r == 0xFFFFFFFFFFFFFFFF, "1-2 wrapped = 0x%x", r)
	assert(t, f.N, "expected N set on negative wraparound")
}

func TestALUDivideByZeroTraps(t *testing.T) {
	_, _, trap := Eval(Div, 10, 0)
	assert(t, trap, "div by zero must trap")
	_, _, trap = Eval(Sdiv, 10, 0)
	assert(t, trap, "sdiv by zero must trap")
	_, _, trap = Eval(Modu, 10, 0)
	assert(t, trap, "modu by zero must trap")
}

func TestALURotate(t *testing.T) {
	r, _, _ := Eval(Rol, 1, 1)
	assert(t, r == 2, "rol 1 by 1 = %d", r)
	r, _, _ = Eval(Ror, 1, 1)
	assert(t, r == 1<<63, "ror 1 by 1 = 0x%x", r)
}

func TestMemoryWordIsBigEndian(t *testing.T) {
	m := NewMemory(16)
	m.WriteWord(0, 0x0102030405060708)
	dump := m.Dump()
	assert(t, dump[0] == 0x01, "expected big-endian byte order, got %x", dump[0])
	assert(t, dump[7] == 0x08, "expected big-endian byte order, got %x", dump[7])
}
