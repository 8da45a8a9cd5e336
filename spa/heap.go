// SPDX-License-Identifier: MIT
package spa

import "container/heap"

// lrEntry is one pending-L reference: either a Local row (Idx is its
// position in newperm) or a Remote row (Idx is its offset into the
// received-row buffer). spec.md §9 calls this "a language-neutral
// rendering" of the C source's LSB-tagged integer: {Local(idx),
// Remote(idx)} compared by a single total key.
type lrEntry struct {
	Local bool
	Idx   int
}

// totalKey reproduces the C source's packed-integer ordering (idx<<1 for
// local, (idx<<1)|1 for remote) without requiring callers to do the
// bit-packing themselves. Local and remote references only need to be
// mutually orderable, not meaningfully comparable across the two kinds —
// the only ordering invariant that matters for correctness is that local
// references sharing a PE's elimination chain come out in ascending Idx
// order (spec.md §4.5 step 4 / §5 "Ordering guarantees").
func (e lrEntry) totalKey() int {
	k := e.Idx << 1
	if !e.Local {
		k |= 1
	}
	return k
}

// lrHeap adapts []lrEntry to container/heap as a min-heap over totalKey.
type lrHeap []lrEntry

func (h lrHeap) Len() int            { return len(h) }
func (h lrHeap) Less(i, j int) bool  { return h[i].totalKey() < h[j].totalKey() }
func (h lrHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *lrHeap) Push(x interface{}) { *h = append(*h, x.(lrEntry)) }
func (h *lrHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PushLocal enqueues a pending-L reference to a row local to this PE,
// identified by its position in the current level's newperm.
func (ws *Workspace) PushLocal(newpermIdx int) {
	h := (*lrHeap)(&ws.lr)
	heap.Push(h, lrEntry{Local: true, Idx: newpermIdx})
}

// PushRemote enqueues a pending-L reference to a row received from
// another PE, identified by its offset into the receive buffer.
func (ws *Workspace) PushRemote(bufOffset int) {
	h := (*lrHeap)(&ws.lr)
	heap.Push(h, lrEntry{Local: false, Idx: bufOffset})
}

// PendingL reports whether any pending-L references remain.
func (ws *Workspace) PendingL() bool { return len(ws.lr) > 0 }

// ExtractMin removes and returns the pending-L reference with the
// smallest total key, in the order spec.md §4.1 requires ("extract_min
// returns L contributions in the exact order they become defined").
func (ws *Workspace) ExtractMin() (local bool, idx int) {
	h := (*lrHeap)(&ws.lr)
	e := heap.Pop(h).(lrEntry)
	return e.Local, e.Idx
}
