// SPDX-License-Identifier: MIT
package parilut

import (
	"fmt"

	"github.com/katalvlaran/parilut/config"
	"github.com/katalvlaran/parilut/pemesh"
	"github.com/katalvlaran/parilut/rowstore"
	"github.com/katalvlaran/parilut/spa"
)

// maxReductionPasses bounds the fixed-point loop in ReduceRemaining: a
// remaining row can only gain a newly eliminable column through fill
// created by eliminating another one, and this level's pivot set is
// finite, so the loop always settles in practice; the cap exists only
// to turn a latent bug into a loud one instead of a hang.
const maxReductionPasses = 64

// ReduceRemaining runs component C7: every row that was not selected this
// level is eliminated against exactly the rows this level's selection
// just finished — member answers, for any global column c, whether c is
// this level's independent set and, if received from another PE, at what
// offset into received (spec.md §3's globally-indexed map, §4.7 steps
// 2-3). A column in [firstrow,lastrow) that member marks is always a
// local pivot (f.DValues/f.URow, indexed by c-firstrow); any other marked
// column is a remote pivot (received[member.RemoteOffset(c)]).
//
// Unlike FactorizeSelected, the pivots used here never depend on each
// other (they were all completed independently this level), so there is
// no ordering requirement among them and no pending-L heap is needed —
// each eliminable column is resolved as soon as it is found, and
// resolving it may surface new columns to check via the fill
// ScatterUpdate creates.
//
// spec.md §4.7 step 3's exception (restated in §9, "The fill-into-L
// restriction during reduction"): fill created while eliminating against
// a *remote* pivot must never be chased as a *local* L-dependency this
// level, even if it happens to land on a column this PE also selected
// locally this level — only the rows actually exchanged are known to be
// complete, and a remote row's own completeness was never verified
// against this PE's local pivots. tainted tracks, per workspace
// position, whether the entry now there was produced by eliminating a
// remote pivot (directly, or transitively through further remote-sourced
// fill); such positions skip local pivots outright and wait for a later
// level instead.
func ReduceRemaining(remaining []int, cur, next *rowstore.ReducedMatrix, posOf []int, firstrow, lastrow int, f *rowstore.Factor, member pemesh.Membership, received []pemesh.ReceivedRow, ws *spa.Workspace, norms []float64, p config.Params) error {
	for i, r := range remaining {
		g := firstrow + r
		row := &cur.Rows[posOf[r]]
		if err := ws.Seed(row.ColInd[0], row.Values[0], row.ColInd[1:], row.Values[1:]); err != nil {
			return err
		}
		rtol := p.Tol * norms[r]

		tainted := make([]bool, ws.Len())

		settled := false
		for pass := 0; pass < maxReductionPasses; pass++ {
			changed := false
			for k := 1; k < ws.Len(); k++ {
				v := ws.Val(k)
				if v == 0 {
					continue
				}
				c := ws.Col(k)
				if c < 0 || c >= len(member) || !member.IsMember(c) {
					continue
				}
				isLocal := c >= firstrow && c < lastrow
				if isLocal && k < len(tainted) && tainted[k] {
					continue // spec.md §9: remote-sourced fill never becomes a local L-dependency
				}

				var pivotD float64
				var pivotCols []int
				var pivotVals []float64
				if isLocal {
					localRow := c - firstrow
					pivotD = f.DValues[localRow]
					pivotCols, pivotVals = f.URow(localRow)
				} else {
					rr := received[member.RemoteOffset(c)]
					pivotD, pivotCols, pivotVals = rr.D, rr.UCols, rr.UVals
				}

				mult := v * pivotD
				ws.SetVal(k, 0)
				if absf(mult) >= rtol {
					f.InsertL(r, c, mult)
				}
				created := ws.ScatterUpdate(pivotCols, pivotVals, mult, rtol)
				for len(tainted) < ws.Len() {
					tainted = append(tainted, false)
				}
				if !isLocal {
					for _, pos := range created {
						tainted[pos] = true
					}
				}
				changed = true
			}
			if !changed {
				settled = true
				break
			}
		}
		if !settled {
			ws.Reset()
			return fmt.Errorf("parilut.ReduceRemaining: row %d did not settle within %d passes", g, maxReductionPasses)
		}

		ws.DropBelow(rtol)
		cols, vals := ws.TakeTopK(1, p.MaxNZ)
		outCols := append([]int{g}, cols...)
		outVals := append([]float64{ws.Val(0)}, vals...)
		next.SetRow(i, outCols, outVals)
		ws.Reset()
	}
	return nil
}
