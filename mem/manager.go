package mem

// minMajorSizeFactor is MIN_FACTOR from spec.md 4.5.5: the major threshold
// never drops below the minor pool's capacity times this factor, so a
// pathologically small live set can't make major GC run every allocation.
const minMajorSizeFactor = 7

const maxWord = ^uint64(0)

// Debug enables the header well-formedness assertion spec.md 7 asks a
// debug build to run at every mark step. Off by default since it adds a
// check to the collector's hottest loop; flip it on in tests or a debug
// VM build, the same way the teacher's compiler threads a debug bool
// through its own hot paths instead of using a build tag.
var Debug = false

// assertWellFormed panics if hd carries the reserved color code. This is
// the one assertion spec.md 7 calls out explicitly; every other
// programmer-error category it lists (missing write barrier, wrong
// mixing of WHITE/BLACK) has no cheap, local check and is left to
// manifest as corrupted traversal, per that section.
func assertWellFormed(hd header) {
	if Debug && hd.isReserved() {
		panic("mem: header carries reserved color code 10")
	}
}

// Mem is the two-generation memory manager: a minor pool, a major heap
// split across the leaves/nodes lists, and the two root regions (global
// array, call stack) the VM publishes its live Values through. It is not
// safe for concurrent use — see spec.md 5, the manager owns all state
// transitions on the VM's single execution thread.
type Mem struct {
	minor minorPool
	major majorHeap

	majorAllocatedWords     uint64
	majorThresholdWords     uint64
	majorGCThresholdPercent uint64

	minorGCCount uint64
	majorGCCount uint64

	global rootList
	stack  rootList

	writeBarrierList []Value
	markList         []Value
}

// New constructs a Mem with the given initial root-region capacities, minor
// pool size, and major GC threshold percent (0 disables major GC).
func New(globalInitWords, stackInitWords, minorPoolBytes, majorGCThresholdPercent uint64) *Mem {
	m := &Mem{
		minor:                   newMinorPool(minorPoolBytes),
		major:                   newMajorHeap(),
		majorGCThresholdPercent: majorGCThresholdPercent,
		global:                  newRootList(globalInitWords),
		stack:                   newRootList(stackInitWords),
	}
	m.updateMajorGCThreshold()
	return m
}

// ---- object access dispatch (minor pool vs major heap) ----

func (m *Mem) headerAt(v Value) header {
	if isMajorValue(v) {
		return m.major.header(handleOf(v))
	}
	return m.minor.header(minorIdxOf(v))
}

func (m *Mem) setHeaderAt(v Value, h header) {
	if isMajorValue(v) {
		m.major.setHeader(handleOf(v), h)
	} else {
		m.minor.setHeader(minorIdxOf(v), h)
	}
}

func (m *Mem) elemAt(v Value, i uint64) Value {
	if isMajorValue(v) {
		return m.major.elem(handleOf(v), i)
	}
	return m.minor.elem(minorIdxOf(v), i)
}

func (m *Mem) setElemAt(v Value, i uint64, val Value) {
	if isMajorValue(v) {
		m.major.setElem(handleOf(v), i, val)
	} else {
		m.minor.setElem(minorIdxOf(v), i, val)
	}
}

func (m *Mem) byteAt(v Value, i uint64) byte {
	if isMajorValue(v) {
		return m.major.byteAt(handleOf(v), i)
	}
	return m.minor.byteAt(minorIdxOf(v), i)
}

func (m *Mem) setByteAt(v Value, i uint64, b byte) {
	if isMajorValue(v) {
		m.major.setByteAt(handleOf(v), i, b)
	} else {
		m.minor.setByteAt(minorIdxOf(v), i, b)
	}
}

// ---- allocation (spec.md 4.5.6) ----

// allocRoute implements the three-way allocation routing decision: fits in
// the minor pool as-is, could never fit and goes straight to major, or
// needs a minor GC first to make room. total is the full word count
// including the minor pool's bookkeeping extras; major allocations are
// credited with total-minorExtraWords (header+payload only), matching the
// major heap's own accounting convention.
func (m *Mem) allocRoute(total uint64, allocMinor, allocMajor func() Value) Value {
	switch {
	case total <= m.minor.left:
		return allocMinor()
	case total > m.minor.capacity():
		v := allocMajor()
		m.majorAllocatedWords += total - minorExtraWords
		return v
	default:
		m.minorGC()
		return allocMinor()
	}
}

// AllocShort allocates a short (tuple) object of the given element count
// and 16-bit tag, routing between the minor pool and the major heap per
// spec.md 4.5.6. The returned Ref is guaranteed live only until the next
// allocation or explicit collection.
func (m *Mem) AllocShort(words uint64, tag uint16) Ref {
	total := minorExtraWords + 1 + words
	v := m.allocRoute(total,
		func() Value { return minorAddrValue(m.minor.allocShortUnchecked(words, tag)) },
		func() Value { return majorAddrValue(m.major.allocShort(majorListNodes, words, tag)) },
	)
	return m.RefOf(v)
}

// AllocLong allocates a long (raw byte buffer) object of the given byte
// length, routing per spec.md 4.5.6.
func (m *Mem) AllocLong(bytes uint64) Ref {
	payloadWords := (bytes + WordSize - 1) / WordSize
	total := minorExtraWords + 1 + payloadWords
	v := m.allocRoute(total,
		func() Value { return minorAddrValue(m.minor.allocLongUnchecked(bytes)) },
		func() Value { return majorAddrValue(m.major.allocLong(majorListLeaves, bytes)) },
	)
	return m.RefOf(v)
}

// ReserveMinor triggers a minor GC if fewer than words are currently free
// in the minor pool, per spec.md 6.1.
func (m *Mem) ReserveMinor(words uint64) {
	if m.minor.left < words {
		m.minorGC()
	}
}

// WriteBarrier must be called immediately before mutating any slot of an
// already-published short tuple, unless it was allocated since the most
// recent GC (spec.md 5, 4.5.7). It records the tuple as a possible
// inter-generational reference holder for the next mark phase.
func (m *Mem) WriteBarrier(r Ref) {
	hd := m.headerAt(r.v)
	if hd.isWhite() {
		m.setHeaderAt(r.v, hd.marked(colorGray))
		m.writeBarrierList = append(m.writeBarrierList, r.v)
	}
}

// ---- marking (spec.md 4.5.1) ----

func majorMarkable(Value) bool { return true }
func minorMarkable(v Value) bool { return !isMajorValue(v) }

// isNullValue reports whether v is the zero word: an uninitialized root
// or tuple slot, not a real address. A zero Word always decodes as a GC
// pointer under this package's tagging (FromInt/FromUint/FromFloat all
// force the tag bit to 1, so a literal can never legitimately be zero),
// but no object is ever placed at minor index 0 or major handle 0 --
// allocation always reserves at least minorExtraWords/1 respectively --
// so zero is a safe, unambiguous "no pointer here" sentinel, mirroring
// the null-pointer check spec.md 4.5.1 folds into "markable".
func isNullValue(v Value) bool { return v == 0 }

// markAndPush marks v BLACK if it is an unmarked, markable GC pointer, and
// queues it on the worklist unless it is a long (childless) object.
func (m *Mem) markAndPush(v Value, markable func(Value) bool) {
	if IsLiteral(v) || isNullValue(v) {
		return
	}
	if !markable(v) {
		return
	}
	hd := m.headerAt(v)
	assertWellFormed(hd)
	if !hd.isWhite() {
		return
	}
	m.setHeaderAt(v, hd.marked(colorBlack))
	if hd.isLong() {
		return
	}
	m.markList = append(m.markList, v)
}

// scanSlots marks every payload slot of the short object v.
func (m *Mem) scanSlots(v Value, markable func(Value) bool) {
	hd := m.headerAt(v)
	n := hd.shortWords()
	for i := uint64(0); i < n; i++ {
		m.markAndPush(m.elemAt(v, i), markable)
	}
}

// mark runs the non-recursive mark algorithm against the given markability
// predicate: majorMarkable for a full GC's major-heap-wide mark, or
// minorMarkable for a minor GC's mark restricted to the minor pool (so
// that reachable-but-already-major subgraphs are not rewalked).
func (m *Mem) mark(markable func(Value) bool) {
	m.markList = m.markList[:0]

	// Step 1: write-barrier list. A short major entry's slots are scanned
	// directly (its own GRAY color is left untouched); any other entry
	// -- long, or itself in the minor pool -- is simply unmarked, since
	// the barrier list may be invalidated by a minor move and long
	// objects never hold pointers.
	for _, v := range m.writeBarrierList {
		if isMajorValue(v) && !m.headerAt(v).isLong() {
			m.scanSlots(v, markable)
		} else {
			m.setHeaderAt(v, m.headerAt(v).unmarked())
		}
	}

	// Step 2: roots.
	for i := 0; i < m.global.Len(); i++ {
		m.markAndPush(m.global.Get(i), markable)
	}
	for i := 0; i < m.stack.Len(); i++ {
		m.markAndPush(m.stack.Get(i), markable)
	}

	// Step 3/4: drain loop.
	for len(m.markList) > 0 {
		v := m.markList[len(m.markList)-1]
		m.markList = m.markList[:len(m.markList)-1]
		m.scanSlots(v, markable)
	}
}

// ---- move minor -> major (spec.md 4.5.2) ----

// readdress follows the forwarding pointer move's step 2 wrote into a
// moved object's old header slot in the minor pool.
func (m *Mem) readdress(v Value) Value {
	return Value(m.minor.words[minorIdxOf(v)])
}

func (m *Mem) moveMinorToMajor() {
	lastShortList := m.major.nodes

	idx := m.minor.left
	cap := m.minor.capacity()
	for idx < cap {
		headerIdx := idx + minorExtraWords
		hd := m.minor.header(headerIdx)
		words := hd.words()

		if !hd.isWhite() {
			var handle uint64
			if hd.isLong() {
				handle = m.major.allocLong(majorListLeaves, hd.longBytes())
			} else {
				handle = m.major.allocShort(majorListNodes, words, hd.tag())
			}
			obj := m.major.get(handle)
			copy(obj.words, m.minor.words[headerIdx+1:headerIdx+1+words])
			m.majorAllocatedWords += 1 + words

			m.minor.words[headerIdx] = Word(majorAddrValue(handle))
		}

		idx = headerIdx + 1 + words
	}

	// Re-address freshly promoted nodes: head..lastShortList.
	cur := m.major.nodes
	for cur != lastShortList {
		obj := m.major.get(cur)
		for i := range obj.words {
			slot := Value(obj.words[i])
			if IsGCPointer(slot) && !isMajorValue(slot) && !isNullValue(slot) {
				obj.words[i] = Word(m.readdress(slot))
			}
		}
		cur = obj.next
	}

	// Re-address slots of every object remembered on the write-barrier
	// list (pre-existing major objects that may hold cross-generational
	// pointers into the pool we're about to rewind).
	for _, v := range m.writeBarrierList {
		if !isMajorValue(v) {
			continue
		}
		handle := handleOf(v)
		obj := m.major.get(handle)
		for i := range obj.words {
			slot := Value(obj.words[i])
			if IsGCPointer(slot) && !isMajorValue(slot) && !isNullValue(slot) {
				obj.words[i] = Word(m.readdress(slot))
			}
		}
	}

	// Re-address the roots themselves.
	for i := 0; i < m.global.Len(); i++ {
		v := m.global.Get(i)
		if IsGCPointer(v) && !isMajorValue(v) {
			m.global.Set(i, m.readdress(v))
		}
	}
	for i := 0; i < m.stack.Len(); i++ {
		v := m.stack.Get(i)
		if IsGCPointer(v) && !isMajorValue(v) {
			m.stack.Set(i, m.readdress(v))
		}
	}
}

// ---- sweep (spec.md 4.5.3) ----

func (m *Mem) sweepMajor() {
	m.majorAllocatedWords -= m.major.sweep(majorListLeaves)
	m.majorAllocatedWords -= m.major.sweep(majorListNodes)
}

// ---- cycle control (spec.md 4.5.4) ----

// CollectMinor runs a minor GC explicitly, per spec.md 6.1's tests/tools
// entry point.
func (m *Mem) CollectMinor() { m.minorGC() }

// CollectMajor runs a full GC explicitly.
func (m *Mem) CollectMajor() { m.fullGC() }

func (m *Mem) minorGC() {
	occupied := m.minor.capacity() - m.minor.left
	if m.majorAllocatedWords+occupied > m.majorThresholdWords {
		m.fullGC()
		return
	}

	Logger().Debug("minor gc start")
	m.mark(minorMarkable)
	m.moveMinorToMajor()
	m.minor.rewind()
	// Major entries keep their GRAY color through the mark phase; reset them
	// to WHITE so a later WriteBarrier call records them again.
	for _, v := range m.writeBarrierList {
		if isMajorValue(v) {
			m.setHeaderAt(v, m.headerAt(v).unmarked())
		}
	}
	m.writeBarrierList = m.writeBarrierList[:0]
	m.minorGCCount++
	Logger().Debug("minor gc done")
}

func (m *Mem) fullGC() {
	Logger().Debug("major gc start")
	m.mark(majorMarkable)
	m.sweepMajor()
	m.moveMinorToMajor()
	m.minor.rewind()
	m.updateMajorGCThreshold()
	m.writeBarrierList = m.writeBarrierList[:0]
	m.majorGCCount++
	Logger().Debug("major gc done")
}

// ---- threshold (spec.md 4.5.5) ----

func saturatingMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > maxWord/b {
		return maxWord
	}
	return a * b
}

func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return maxWord
	}
	return sum
}

// updateMajorGCThreshold recomputes major_threshold_words after a major
// GC: max(minor_words*MIN_FACTOR, major_allocated_words*(100+P)/100),
// saturating on overflow, or +Inf (maxWord) if P is 0. The percentage
// term splits major_allocated_words into hi*100+lo to avoid overflowing
// the multiply before the divide, per spec.md 4.5.5.
func (m *Mem) updateMajorGCThreshold() {
	if m.majorGCThresholdPercent == 0 {
		m.majorThresholdWords = maxWord
		return
	}

	floor := saturatingMul(m.minor.capacity(), minMajorSizeFactor)

	factor := 100 + m.majorGCThresholdPercent
	hi := m.majorAllocatedWords / 100
	lo := m.majorAllocatedWords % 100
	hiTerm := saturatingMul(hi, factor)
	loTerm := saturatingMul(lo, factor) / 100
	pct := saturatingAdd(hiTerm, loTerm)

	if floor > pct {
		m.majorThresholdWords = floor
	} else {
		m.majorThresholdWords = pct
	}
	Logger().Debug("major threshold recomputed")
}

// ---- root region access (spec.md 6.1) ----

func (m *Mem) GlobalLen() int            { return m.global.Len() }
func (m *Mem) GlobalGet(i int) Value     { return m.global.Get(i) }
func (m *Mem) GlobalSet(i int, v Value)  { m.global.Set(i, v) }
func (m *Mem) GlobalPush(v Value)        { m.global.Push(v) }
func (m *Mem) GlobalPop() Value          { return m.global.Pop() }

func (m *Mem) StackLen() int           { return m.stack.Len() }
func (m *Mem) StackGet(i int) Value    { return m.stack.Get(i) }
func (m *Mem) StackSet(i int, v Value) { m.stack.Set(i, v) }
func (m *Mem) StackPush(v Value)       { m.stack.Push(v) }
func (m *Mem) StackPop() Value         { return m.stack.Pop() }

// ---- accessors (SPEC_FULL.md SUPPLEMENTED FEATURES) ----

func (m *Mem) MinorGCCount() uint64         { return m.minorGCCount }
func (m *Mem) MajorGCCount() uint64         { return m.majorGCCount }
func (m *Mem) MajorAllocatedWords() uint64  { return m.majorAllocatedWords }
func (m *Mem) MajorThresholdWords() uint64  { return m.majorThresholdWords }

// Stats is a snapshot of the manager's diagnostic counters and pool
// occupancy, bundled for a single call site instead of four.
type Stats struct {
	MinorGCCount        uint64
	MajorGCCount        uint64
	MajorAllocatedWords uint64
	MajorThresholdWords uint64
	MinorWordsFree      uint64
	MinorWordsTotal     uint64
}

func (m *Mem) Stats() Stats {
	return Stats{
		MinorGCCount:        m.minorGCCount,
		MajorGCCount:        m.majorGCCount,
		MajorAllocatedWords: m.majorAllocatedWords,
		MajorThresholdWords: m.majorThresholdWords,
		MinorWordsFree:      m.minor.left,
		MinorWordsTotal:     m.minor.capacity(),
	}
}
