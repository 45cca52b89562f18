package cpu

// EffectiveAddress computes base + offset*scale as unsigned 64-bit
// arithmetic with wraparound, per §4.4. It is the sole address-calculation
// path used by ldr/str; push/pop address the stack pointer directly and
// never go through it.
func EffectiveAddress(base, offset, scale uint64) uint64 {
	return base + offset*scale
}
