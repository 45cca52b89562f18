package cpu

// Op is the 14-bit opcode field packed into bits 57..44 of an instruction
// word. Its bits 11 and 10 (counting from the field's own LSB) select the
// instruction class; bits 13 and 12 are zero for every opcode defined here,
// and the low bits distinguish mnemonics within a class.
//
// The source this ISA was distilled from carried two conflicting shift
// encodings. This package settles on the `_0010_`-pattern table below
// (Lsl=0x420 ...) and uses it for both encoding and decoding.
type Op uint16

// Instruction classes, selected by (Op>>10)&0b11.
const (
	ClassSpecial  = 0 // no-operand (nop, hlt); mvi/qry/int sit in ClassDataProc
	ClassDataProc = 1
	ClassMemory   = 2
	ClassBranch   = 3
)

const (
	Nop Op = 0x000
	Hlt Op = 0x001

	Mov   Op = 0x400
	Add   Op = 0x401
	Sub   Op = 0x402
	Mul   Op = 0x403
	Div   Op = 0x404
	Smul  Op = 0x405
	Sdiv  Op = 0x406
	Modu  Op = 0x407
	Smodu Op = 0x408
	Mvn   Op = 0x409
	And   Op = 0x40A
	Orr   Op = 0x40B
	Eor   Op = 0x40C

	Cmp Op = 0x415
	Cmn Op = 0x416
	Tst Op = 0x417
	Teq Op = 0x418

	Lsl Op = 0x420
	Lsr Op = 0x421
	Asr Op = 0x422
	Rol Op = 0x423
	Ror Op = 0x424

	Mvi Op = 0x430
	Qry Op = 0x431
	Int Op = 0x432

	Ldr  Op = 0x800
	Str  Op = 0x801
	Pop  Op = 0x802
	Push Op = 0x803

	B  Op = 0xC00
	Bl Op = 0xC01
)

// Class returns the instruction class this opcode belongs to.
func (o Op) Class() int {
	return int(o>>10) & 0b11
}

// Shape describes the operand layout an encoder/disassembler must use for
// a given mnemonic, independent of its opcode class.
type Shape int

const (
	ShapeNone  Shape = iota // nop, hlt
	ShapeDBC                // rd, rb, c   (binary ALU ops)
	ShapeDC                 // rd, c       (mov, mvn)
	ShapeBC                 // rb, c       (cmp, cmn, tst, teq — no writeback)
	ShapeMem                // rd, ra[, rb, c]
	ShapeReg1               // rd only     (push, pop)
	ShapeMvi                // rd only     (mvi)
	ShapeQry                // c only      (qry)
	ShapeInt                // rb, c       (int)
	ShapeBranch              // c only, rd forced to pc (b, bl)
)

// MnemonicInfo binds a mnemonic to its opcode and operand shape. Mnemonic
// dispatch must be longest-prefix / exact-match, never prefix-match: the
// source this was distilled from dispatched mnemonics with `starts_with`
// and so matched "sub" against "smul"; this table is consulted by exact
// token match instead (see asm.splitMnemonicToken), closing that bug.
type MnemonicInfo struct {
	Op    Op
	Shape Shape
	// SetFlagsOnly marks instructions that always behave as if the `s`
	// suffix were given (compare ops): S=1, no writeback. Unlike an explicit
	// `s` suffix, this does not force condition AL; a condition suffix is
	// kept.
	SetFlagsOnly bool
}

// Mnemonics is the canonical mnemonic table shared by the encoder and
// disassembler, keyed by the bare mnemonic (condition/flags suffixes are
// stripped by the caller before lookup).
var Mnemonics = map[string]MnemonicInfo{
	"nop": {Nop, ShapeNone, false},
	"hlt": {Hlt, ShapeNone, false},

	"mov":   {Mov, ShapeDC, false},
	"add":   {Add, ShapeDBC, false},
	"sub":   {Sub, ShapeDBC, false},
	"mul":   {Mul, ShapeDBC, false},
	"div":   {Div, ShapeDBC, false},
	"smul":  {Smul, ShapeDBC, false},
	"sdiv":  {Sdiv, ShapeDBC, false},
	"modu":  {Modu, ShapeDBC, false},
	"smodu": {Smodu, ShapeDBC, false},
	"mvn":   {Mvn, ShapeDC, false},
	"and":   {And, ShapeDBC, false},
	"orr":   {Orr, ShapeDBC, false},
	"eor":   {Eor, ShapeDBC, false},

	"cmp": {Cmp, ShapeBC, true},
	"cmn": {Cmn, ShapeBC, true},
	"tst": {Tst, ShapeBC, true},
	"teq": {Teq, ShapeBC, true},

	"lsl": {Lsl, ShapeDBC, false},
	"lsr": {Lsr, ShapeDBC, false},
	"asr": {Asr, ShapeDBC, false},
	"rol": {Rol, ShapeDBC, false},
	"ror": {Ror, ShapeDBC, false},

	"mvi": {Mvi, ShapeMvi, false},
	"qry": {Qry, ShapeQry, false},
	"int": {Int, ShapeInt, false},

	"ldr":  {Ldr, ShapeMem, false},
	"str":  {Str, ShapeMem, false},
	"pop":  {Pop, ShapeReg1, false},
	"push": {Push, ShapeReg1, false},

	"b":  {B, ShapeBranch, false},
	"bl": {Bl, ShapeBranch, false},
}

// opToMnemonic is the disassembler's reverse lookup, built once at package
// init rather than hand-duplicated.
var opToMnemonic = func() map[Op]string {
	m := make(map[Op]string, len(Mnemonics))
	for name, info := range Mnemonics {
		m[info.Op] = name
	}
	return m
}()
