// SPDX-License-Identifier: MIT
package parilut

import (
	"github.com/katalvlaran/parilut/distmat"
	"github.com/katalvlaran/parilut/pemesh"
	"github.com/katalvlaran/parilut/rowstore"
	"github.com/samber/lo"
)

// SelectIndependentSet partitions this level's active local rows (active,
// given as local row indices; cur.Rows[i] holds active[i]'s reduced row)
// into the set this PE can factor this level (selected) and the set that
// must wait (remaining) — spec.md §4.3/component C3.
//
// Rule 1: a row is a candidate unless one of its surviving off-diagonal
// columns is owned by a strictly lower-numbered PE — rows are handed to
// the lowest-numbered PE that can take them, so a row only waits when a
// lower-ranked PE hasn't factored the column it needs yet. A dependency
// on a higher-numbered PE never disqualifies a row: that PE will be the
// one waiting, via rule 3 below. A LOCAL dependency never disqualifies a
// row here either, even on another row that turns out to be selected
// this same level — ordering among such rows is resolved inside
// FactorizeSelected's pending-L heap (spec.md §4.5), keyed by
// elimination order, not by pre-filtering candidates down to leaves.
//
// Rule 3 (symmetry fix-up): plan already carries, for every neighbor
// that asked this PE for rows it owns, the exact global row indices
// requested. A row this PE would have to ship to a lower-numbered
// requester cannot also be eliminated locally this level — the
// triangular factor must stay block-diagonal with respect to the
// independent set, so only the lower-ranked side of a mutual
// cross-PE dependency proceeds; the higher-ranked side waits for a
// later level, once it has received the other side's factored row.
//
// Selection is greedy, not load-balanced: a PE keeps every row rule 1
// and rule 3 allow, with no attempt to even out how many rows each PE
// finishes per level. Real partitions are rarely perfectly symmetric,
// so enforcing balance would mean idling PEs that have ready work just
// to keep step with a slower one — throughput lost for a uniformity
// spec.md never requires.
func SelectIndependentSet(pe int, active []int, cur *rowstore.ReducedMatrix, firstrow, lastrow int, rowdist []int, plan *pemesh.CommPlan) (selected, remaining []int) {
	ready := lo.Filter(active, func(r, i int) bool {
		row := &cur.Rows[i]
		for k := 1; k < row.Nnz; k++ {
			c := row.ColInd[k]
			if c >= firstrow && c < lastrow {
				continue
			}
			if distmat.Idx2PE(rowdist, c) < pe {
				return false
			}
		}
		return true
	})

	// Rule 3's held-back rows: every send-side row a lower-numbered
	// neighbor asked for, flattened to local indices.
	var heldBack []int
	for i, nbr := range plan.SNbr {
		if nbr >= pe {
			continue
		}
		for _, g := range plan.SRowInd[plan.SPtr[i]:plan.SPtr[i+1]] {
			heldBack = append(heldBack, g-firstrow)
		}
	}

	selected = lo.Filter(ready, func(r, _ int) bool {
		return !lo.ContainsBy(heldBack, func(h int) bool { return h == r })
	})
	selectedSet := make(map[int]bool, len(selected))
	for _, r := range selected {
		selectedSet[r] = true
	}
	remaining = lo.Filter(active, func(r, _ int) bool { return !selectedSet[r] })
	return selected, remaining
}
