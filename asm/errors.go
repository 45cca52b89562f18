package asm

import "errors"

// Sentinel causes wrapped by github.com/pkg/errors with line context as
// they surface — mirrors the teacher VM's flat package-level error vars
// (vm.go: errProgramFinished, errSegmentationFault, ...), adapted to the
// assembler's own failure modes (§7).
var (
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	ErrUnknownOperand  = errors.New("unknown operand")
	ErrUnknownLabel    = errors.New("unknown label reference")
	ErrMalformedWord   = errors.New("malformed .word literal")
	ErrMalformedAsciz  = errors.New(".asciz missing its literal line")
	ErrTruncatedIT     = errors.New("it directive ran out of source lines")
)
