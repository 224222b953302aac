// Package mem implements the two-generation copying-then-sweeping memory
// manager for the SSM virtual machine: tagged machine words, minor-pool and
// major-heap allocation, mark/move/sweep, and the write barrier.
package mem

import "math"

// Word is the machine word this package tags and packs values into. SSM
// targets 64-bit hosts, so a word is 64 bits throughout.
type Word = uint64

// WordSize is the size in bytes of a Word.
const WordSize = 8

// WordBits is the number of bits in a Word.
const WordBits = 64

// Value is a single tagged machine word: either a literal (int, uint,
// float, or raw pointer) or a GC pointer into the minor pool or major heap.
//
// Bit 0 is the tag: 1 means literal, 0 means GC pointer. Literal payloads
// occupy the remaining word-1 bits. GC pointers carry an internal word-index
// address shifted left by one bit (see fromAddr), so their low bit is always
// 0.
type Value uint64

// FromInt packs a signed integer as a literal, losing the top bit of range.
func FromInt(i int64) Value {
	return Value((uint64(i) << 1) | 1)
}

// ToInt unpacks a signed integer literal via an arithmetic right shift.
func ToInt(v Value) int64 {
	return int64(v) >> 1
}

// FromUint packs an unsigned integer as a literal.
func FromUint(u uint64) Value {
	return Value((u << 1) | 1)
}

// ToUint unpacks an unsigned integer literal via a logical right shift.
func ToUint(v Value) uint64 {
	return uint64(v) >> 1
}

// FromFloat packs a float64 as a literal. The low bit of the IEEE-754 bit
// pattern is overwritten with the tag, so round-tripping an arbitrary float
// may flip its least-significant mantissa bit; that is a documented,
// accepted lossy edge of this encoding, not a bug.
func FromFloat(f float64) Value {
	return Value(math.Float64bits(f) | 1)
}

// ToFloat unpacks a float64 literal, masking off the tag bit before
// reinterpreting the bits.
func ToFloat(v Value) float64 {
	return math.Float64frombits(uint64(v) &^ 1)
}

// FromRawPtr packs an address that is not managed by this collector (e.g. a
// pointer into VM-owned memory). The address must already be aligned to 2;
// callers that violate this silently lose their low bit.
func FromRawPtr(addr uintptr) Value {
	return Value(uint64(addr) | 1)
}

// ToRawPtr unpacks a raw (non-GC) pointer literal.
func ToRawPtr(v Value) uintptr {
	return uintptr(uint64(v) &^ 1)
}

// IsGCPointer reports whether v's tag bit marks it as a GC pointer.
func IsGCPointer(v Value) bool {
	return v&1 == 0
}

// IsLiteral reports whether v's tag bit marks it as a literal.
func IsLiteral(v Value) bool {
	return v&1 != 0
}

// fromAddr packs a GC pointer from this package's internal word-index
// address space. Addresses are always shifted left by one bit so that the
// tag bit is guaranteed clear, mirroring the word-alignment guarantee a
// real pointer-based implementation gets for free.
func fromAddr(addr uint64) Value {
	return Value(addr << 1)
}

// toAddr extracts the internal word-index address from a GC pointer Value.
// Callers must have already checked IsGCPointer.
func toAddr(v Value) uint64 {
	return uint64(v) >> 1
}
