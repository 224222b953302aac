package mem

// Value's 63 address bits (everything above the tag bit) are shared by two
// disjoint spaces: minor-pool word indices and major-heap handles. Go has
// no single contiguous arena a major object's address could fall inside
// the way a malloc'd pointer would, so this package reserves bit 61 of the
// address field as a discriminator instead of relying on pointer
// arithmetic: addresses with bit 61 set name a major-heap handle,
// addresses without it name a minor-pool word index. Both halves still
// round-trip through fromAddr/toAddr, and a minor address can never be
// mistaken for a major one since real pools stay far smaller than 2^61
// words.
const majorAddrFlag = uint64(1) << (WordBits - 3)

// minorAddrValue packs a minor-pool header-word index as a GC pointer.
func minorAddrValue(idx uint64) Value {
	return fromAddr(idx)
}

// majorAddrValue packs a major-heap handle as a GC pointer.
func majorAddrValue(handle uint64) Value {
	return fromAddr(handle | majorAddrFlag)
}

// isMajorValue reports whether a GC-pointer Value names a major-heap handle
// rather than a minor-pool index. Undefined for literals.
func isMajorValue(v Value) bool {
	return toAddr(v)&majorAddrFlag != 0
}

// minorIdxOf extracts the minor-pool word index from a GC pointer Value.
// Callers must have already checked !isMajorValue(v).
func minorIdxOf(v Value) uint64 {
	return toAddr(v)
}

// handleOf extracts the major-heap handle from a GC pointer Value. Callers
// must have already checked isMajorValue(v).
func handleOf(v Value) uint64 {
	return toAddr(v) &^ majorAddrFlag
}
