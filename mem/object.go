package mem

// Ref is a live reference to a heap object — a short tuple or a long byte
// buffer — returned by a Mem's allocation routines or recovered from a
// root slot. Per spec.md 6.1, a Ref stays valid across any call that does
// not allocate or explicitly collect; after such a call the object may
// have moved, and callers must re-fetch through the root slot that holds
// its Value rather than reusing an old Ref.
type Ref struct {
	m *Mem
	v Value
}

// RefOf wraps a Value already known to be a GC pointer as a Ref. Panics if
// v is a literal.
func (m *Mem) RefOf(v Value) Ref {
	if !IsGCPointer(v) {
		panic("mem: RefOf called on a literal Value")
	}
	return Ref{m: m, v: v}
}

// Value returns the tagged machine word this Ref wraps.
func (r Ref) Value() Value { return r.v }

func (r Ref) header() header { return r.m.headerAt(r.v) }

// IsLong reports whether this object is a raw-byte buffer rather than a
// tuple of Values.
func (r Ref) IsLong() bool { return r.header().isLong() }

// Tag returns the 16-bit user tag carried by a short object.
func (r Ref) Tag() uint16 { return r.header().tag() }

// Len reports the element count for a short object, or the byte length
// for a long one.
func (r Ref) Len() uint64 {
	hd := r.header()
	if hd.isLong() {
		return hd.longBytes()
	}
	return hd.shortWords()
}

// IsWhite reports whether the object is currently unmarked (garbage,
// unless reachable from a root not yet walked this cycle).
func (r Ref) IsWhite() bool { return r.header().isWhite() }

// IsGray reports whether the object is queued on the write-barrier list,
// awaiting rescan by the next mark phase.
func (r Ref) IsGray() bool { return r.header().isGray() }

// IsBlack reports whether the object has been marked reachable this cycle.
func (r Ref) IsBlack() bool { return r.header().isBlack() }

// Elem reads payload slot i of a short object.
func (r Ref) Elem(i uint64) Value { return r.m.elemAt(r.v, i) }

// SetElem overwrites payload slot i of a short object. Callers MUST call
// Mem.WriteBarrier on this Ref first unless it was allocated since the
// most recent GC (spec.md 5).
func (r Ref) SetElem(i uint64, v Value) { r.m.setElemAt(r.v, i, v) }

// Byte reads byte i of a long object's raw storage.
func (r Ref) Byte(i uint64) byte { return r.m.byteAt(r.v, i) }

// SetByte overwrites byte i of a long object's raw storage.
func (r Ref) SetByte(i uint64, b byte) { r.m.setByteAt(r.v, i, b) }
