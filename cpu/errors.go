package cpu

import "errors"

// Error kinds a step or decode can surface. Mirrors the flat sentinel-error
// style the assembler side also uses: package-level vars rather than a
// hierarchy of error types.
var (
	ErrUnknownOpcode     = errors.New("unknown opcode during decode")
	ErrInvalidCondition  = errors.New("invalid condition code during decode")
	ErrSegmentationFault = errors.New("segmentation fault")
)
