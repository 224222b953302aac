package mem

// majorObject is one malloc-backed major-heap allocation: a short tuple or
// a long byte buffer. It is threaded into exactly one of the heap's two
// intrusive lists (leaves, nodes) via next, mirroring the bookkeeping
// prefix words spec.md describes for major objects — major_next and
// gc_next — except gc_next has no Go-side representation here, since the
// mark worklist is a plain slice (see manager.go) rather than an intrusive
// chain threaded through object storage.
type majorObject struct {
	next   uint64 // handle of the next object on this list; 0 = end
	header header
	words  []Word // short: N payload slots; long: ceil(bytes/WordSize) words
}

const (
	majorListLeaves = 0 // long objects: never contain GC pointers
	majorListNodes  = 1 // short objects: may contain GC pointers
)

// majorHeap owns every object ever promoted or directly allocated into the
// major generation, addressed by a handle disjoint from minor-pool
// addresses (see addr.go). immortal is reserved per spec.md 3.4 for
// objects pinned for the manager's lifetime; this collector never
// allocates into it or walks it.
type majorHeap struct {
	objects  []*majorObject // objects[h-1] is the object with handle h (1-based); 0 is null
	leaves   uint64
	nodes    uint64
	immortal uint64
}

func newMajorHeap() majorHeap {
	return majorHeap{objects: make([]*majorObject, 0, 64)}
}

func (h *majorHeap) get(handle uint64) *majorObject {
	return h.objects[handle-1]
}

func (h *majorHeap) link(obj *majorObject) uint64 {
	h.objects = append(h.objects, obj)
	return uint64(len(h.objects))
}

func (h *majorHeap) listHead(list int) uint64 {
	if list == majorListLeaves {
		return h.leaves
	}
	return h.nodes
}

func (h *majorHeap) setListHead(list int, handle uint64) {
	if list == majorListLeaves {
		h.leaves = handle
	} else {
		h.nodes = handle
	}
}

// allocShort links a new WHITE short object of the given size/tag onto
// list (normally majorListNodes) and returns its handle.
func (h *majorHeap) allocShort(list int, words uint64, tag uint16) uint64 {
	obj := &majorObject{
		next:   h.listHead(list),
		header: newShortHeader(words, tag),
		words:  make([]Word, words),
	}
	handle := h.link(obj)
	h.setListHead(list, handle)
	return handle
}

// allocLong links a new WHITE long object of the given byte length onto
// list (normally majorListLeaves) and returns its handle.
func (h *majorHeap) allocLong(list int, bytes uint64) uint64 {
	words := (bytes + WordSize - 1) / WordSize
	obj := &majorObject{
		next:   h.listHead(list),
		header: newLongHeader(bytes),
		words:  make([]Word, words),
	}
	handle := h.link(obj)
	h.setListHead(list, handle)
	return handle
}

// deallocNext unlinks and drops the head of list, returning the word count
// it accounted for: header plus payload, not the Go-side bookkeeping
// overhead (the same convention as majorAllocatedWords).
func (h *majorHeap) deallocNext(list int) uint64 {
	head := h.listHead(list)
	obj := h.get(head)
	h.setListHead(list, obj.next)
	words := uint64(1 + len(obj.words))
	h.objects[head-1] = nil
	return words
}

// sweep walks list, freeing every WHITE object and resetting every
// surviving object's header back to WHITE, per spec.md 4.5.3. It returns
// the total header+payload word count reclaimed.
func (h *majorHeap) sweep(list int) uint64 {
	var freed uint64
	prev := uint64(0)
	cur := h.listHead(list)
	for cur != 0 {
		obj := h.get(cur)
		next := obj.next
		if obj.header.isWhite() {
			freed += uint64(1 + len(obj.words))
			if prev == 0 {
				h.setListHead(list, next)
			} else {
				h.get(prev).next = next
			}
			h.objects[cur-1] = nil
		} else {
			obj.header = obj.header.unmarked()
			prev = cur
		}
		cur = next
	}
	return freed
}

func (h *majorHeap) header(handle uint64) header       { return h.get(handle).header }
func (h *majorHeap) setHeader(handle uint64, hd header) { h.get(handle).header = hd }

func (h *majorHeap) elem(handle, i uint64) Value { return Value(h.get(handle).words[i]) }
func (h *majorHeap) setElem(handle, i uint64, v Value) {
	h.get(handle).words[i] = Word(v)
}

func (h *majorHeap) byteAt(handle, i uint64) byte {
	obj := h.get(handle)
	w := obj.words[i/WordSize]
	return byte(w >> ((i % WordSize) * 8))
}

func (h *majorHeap) setByteAt(handle, i uint64, b byte) {
	obj := h.get(handle)
	shift := (i % WordSize) * 8
	mask := Word(0xff) << shift
	slot := i / WordSize
	obj.words[slot] = (obj.words[slot] &^ mask) | (Word(b) << shift)
}
