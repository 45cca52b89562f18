package asm

import (
	"fmt"
	"testing"

	"gvm/cpu"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func TestTrimStripsCommentsAndBlankLines(t *testing.T) {
	out := Trim([]string{
		"  mov r0, #1  ",
		"; full line comment",
		"add r0, r0, r1 ; trailing comment",
		"",
		"   ",
	})
	assert(t, len(out) == 2, "expected 2 lines, got %d: %v", len(out), out)
	assert(t, out[0] == "mov r0, #1", "got %q", out[0])
	assert(t, out[1] == "add r0, r0, r1", "got %q", out[1])
}

func TestExpandPushPopList(t *testing.T) {
	out := ExpandPushPop([]string{"push r0, r1, r2", "mov r0, #1", "pop r3, r4"})
	want := []string{"push r0", "push r1", "push r2", "mov r0, #1", "pop r3", "pop r4"}
	assert(t, len(out) == len(want), "got %v", out)
	for i := range want {
		assert(t, out[i] == want[i], "line %d: got %q, want %q", i, out[i], want[i])
	}
}

func TestExpandITEBareIt(t *testing.T) {
	out, err := ExpandITE([]string{"it ne", "mov r0, #1", "hlt"})
	assert(t, err == nil, "expand failed: %v", err)
	want := []string{
		"bne =__IF_THEN_0",
		"b =__IF_ELSE_0",
		"__IF_THEN_0:",
		"mov r0, #1",
		"b =__IF_END_0",
		"__IF_ELSE_0:",
		"__IF_END_0:",
		"hlt",
	}
	assert(t, len(out) == len(want), "got %v", out)
	for i := range want {
		assert(t, out[i] == want[i], "line %d: got %q, want %q", i, out[i], want[i])
	}
}

func TestExpandITEDistinctCounters(t *testing.T) {
	out, err := ExpandITE([]string{
		"it eq", "mov r0, #1",
		"it ne", "mov r1, #2",
	})
	assert(t, err == nil, "expand failed: %v", err)
	assert(t, out[2] == "__IF_THEN_0:", "first block should use counter 0: %v", out)
	hasCounter1 := false
	for _, l := range out {
		if l == "__IF_THEN_1:" {
			hasCounter1 = true
		}
	}
	assert(t, hasCounter1, "second block should use a distinct counter: %v", out)
}

func TestParseDirectivesWord(t *testing.T) {
	items, err := ParseDirectives([]string{".word", "0x10", "mov r0, #1"})
	assert(t, err == nil, "parse failed: %v", err)
	assert(t, len(items) == 2, "expected 2 items, got %d", len(items))
	assert(t, items[0].IsWord && items[0].Word == 0x10, "got %+v", items[0])
	assert(t, !items[1].IsWord && items[1].Source == "mov r0, #1", "got %+v", items[1])
}

func TestParseDirectivesAsciz(t *testing.T) {
	items, err := ParseDirectives([]string{".asciz", "hi"})
	assert(t, err == nil, "parse failed: %v", err)
	assert(t, len(items) == 3, "expected length word + 2 bytes, got %d", len(items))
	assert(t, items[0].Word == 2, "length word = %d, want 2", items[0].Word)
	assert(t, items[1].Word == 'h', "got %d", items[1].Word)
	assert(t, items[2].Word == 'i', "got %d", items[2].Word)
}

func TestParseDirectivesSignedWord(t *testing.T) {
	items, err := ParseDirectives([]string{".word", "-1"})
	assert(t, err == nil, "parse failed: %v", err)
	assert(t, items[0].Word == 0xFFFFFFFFFFFFFFFF, "got 0x%x", items[0].Word)
}

func TestBuildLabelsAssignsByteOffsets(t *testing.T) {
	items := []Item{
		{Source: "mov r0, #1"},
		{Source: "loop:"},
		{Source: "add r0, r0, r0"},
		{Source: "b =loop"},
	}
	out, labels := BuildLabels(items)
	assert(t, len(out) == 3, "expected 3 remaining items, got %d", len(out))
	assert(t, labels["loop"] == 8, "loop = %d, want 8", labels["loop"])
}

func TestEncodeLineDataProc(t *testing.T) {
	word, err := EncodeLine("adds r1, r2, #3", nil)
	assert(t, err == nil, "encode failed: %v", err)
	ins, err := cpu.Decode(word)
	assert(t, err == nil, "decode failed: %v", err)
	assert(t, ins.Op == cpu.Add, "op = %v", ins.Op)
	assert(t, ins.S, "expected S=1 from 's' suffix")
	assert(t, ins.Cond == cpu.CondAL, "'s' suffix must force cond AL")
	assert(t, ins.Rd == 1 && ins.Rb == 2, "rd=%d rb=%d", ins.Rd, ins.Rb)
	assert(t, ins.I && ins.C == 3, "expected immediate 3, got I=%v C=%d", ins.I, ins.C)
}

func TestEncodeLineConditionSuffix(t *testing.T) {
	word, err := EncodeLine("movgt r0, #1", nil)
	assert(t, err == nil, "encode failed: %v", err)
	ins, _ := cpu.Decode(word)
	assert(t, ins.Op == cpu.Mov, "op = %v", ins.Op)
	assert(t, ins.Cond == cpu.CondGT, "cond = %v, want GT", ins.Cond)
}

// TestMnemonicLongestMatch guards the prefix-ambiguity fix described in
// §9: "smul" must never be mistaken for "sub" (or "s") plus a suffix.
func TestMnemonicLongestMatch(t *testing.T) {
	word, err := EncodeLine("smul r0, r1, r2", nil)
	assert(t, err == nil, "encode failed: %v", err)
	ins, _ := cpu.Decode(word)
	assert(t, ins.Op == cpu.Smul, "op = %v, want Smul", ins.Op)
}

func TestEncodeLineUnknownMnemonic(t *testing.T) {
	_, err := EncodeLine("fros r0, #1", nil)
	assert(t, err != nil, "expected an error for an unknown mnemonic")
}

func TestEncodeLineUnknownLabel(t *testing.T) {
	_, err := EncodeLine("b =nowhere", map[string]uint64{})
	assert(t, err != nil, "expected an error for an unresolved label")
}

// TestRoundTripEncodeDisassemble is §8's round-trip law: disassembling an
// encoded word and re-encoding the result reproduces the same word.
func TestRoundTripEncodeDisassemble(t *testing.T) {
	lines := []string{
		"mov r0, #1",
		"adds r1, r2, r3",
		"cmp r4, r5",
		"ldr r0, r1",
		"ldr r0, r1, r2, #4",
		"str r0, r1",
		"push r0",
		"pop r0",
		"b r0",
		"bl r0",
		"mvi r0",
		"qry #1",
		"int r0, r1",
		"lsl r0, r1, #2",
	}
	for _, line := range lines {
		word, err := EncodeLine(line, nil)
		assert(t, err == nil, "encode %q failed: %v", line, err)

		text := cpu.Disassemble(word)
		again, err := EncodeLine(text, nil)
		assert(t, err == nil, "re-encode %q (from %q) failed: %v", text, line, err)
		assert(t, again == word, "round trip mismatch for %q -> %q: 0x%x != 0x%x", line, text, again, word)
	}
}

// TestRoundTripConditionalCompare guards the same round-trip law for a
// compare op carrying a non-AL condition suffix: S is hard-wired on for
// cmp/cmn/tst/teq, so disassembly must not let that shadow the cond
// suffix the way it would for a plain data-proc "s" suffix.
func TestRoundTripConditionalCompare(t *testing.T) {
	word, err := EncodeLine("cmpne r4, r5", nil)
	assert(t, err == nil, "encode failed: %v", err)

	text := cpu.Disassemble(word)
	again, err := EncodeLine(text, nil)
	assert(t, err == nil, "re-encode %q failed: %v", text, err)
	assert(t, again == word, "round trip mismatch for %q: 0x%x != 0x%x", text, again, word)

	ins, _ := cpu.Decode(word)
	assert(t, ins.Cond == cpu.CondNE, "cond = %v, want NE", ins.Cond)
}

func TestAssembleEndToEnd(t *testing.T) {
	img, err := Assemble(`
		mov r0, #1
		mov r1, #1
		add r0, r0, r1
		hlt
	`)
	assert(t, err == nil, "assemble failed: %v", err)
	assert(t, len(img) == 32, "expected 4 words (32 bytes), got %d", len(img))
}
