package cpu

import "encoding/binary"

// DefaultMemorySize is the flat byte array size new_core allocates when the
// host doesn't ask for a different one. The spec leaves the exact size
// implementation-defined ("e.g. 4 KiB"); 4 KiB is enough headroom for the
// example programs and their stacks.
const DefaultMemorySize = 4096

// Memory is the core's flat, word-addressed byte array. Words are stored
// big-endian: the byte at address a holds bits 63..56 of the word at a.
// This is the opposite convention from the teacher VM's little-endian
// 32-bit stack (vm.go: uint32FromBytes/uint32ToBytes use
// binary.LittleEndian) — the ISA this core implements is explicitly
// big-endian, so the byte order is re-derived from the spec rather than
// copied from the teacher.
type Memory struct {
	bytes []byte
}

// NewMemory allocates a zeroed byte array of the given size.
func NewMemory(size int) *Memory {
	return &Memory{bytes: make([]byte, size)}
}

// Len returns the memory size in bytes.
func (m *Memory) Len() int { return len(m.bytes) }

// ReadWord reads the big-endian 64-bit word at addr. It panics on an
// out-of-range address; per §7 this is undefined behavior the spec
// explicitly leaves to the implementation, and the core's step loop
// recovers from it as a segmentation fault (see core.go).
func (m *Memory) ReadWord(addr uint64) uint64 {
	return binary.BigEndian.Uint64(m.bytes[addr : addr+8])
}

// WriteWord writes value as a big-endian 64-bit word at addr.
func (m *Memory) WriteWord(addr uint64, value uint64) {
	binary.BigEndian.PutUint64(m.bytes[addr:addr+8], value)
}

// Load copies data into the start of memory, zeroing the remainder —
// load_memory's host contract (§6).
func (m *Memory) Load(data []byte) {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
	copy(m.bytes, data)
}

// Dump returns a copy of the full memory array; the host may only observe
// memory through a copy (§5).
func (m *Memory) Dump() []byte {
	out := make([]byte, len(m.bytes))
	copy(out, m.bytes)
	return out
}
