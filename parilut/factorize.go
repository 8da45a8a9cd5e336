// SPDX-License-Identifier: MIT
package parilut

import (
	"log"
	"sort"

	"github.com/katalvlaran/parilut/config"
	"github.com/katalvlaran/parilut/rowstore"
	"github.com/katalvlaran/parilut/spa"
)

// FactorizeSelected runs component C5 over this level's independent set:
// each selected row is eliminated against every already-completed pivot
// row it still depends on — local (an earlier row in f, any level) or
// remote (known, fetched in a previous level's exchange) — following
// the pending-L min-heap order spec.md §4.1/§4.5 requires, and the
// survivors are written into f as L multipliers, a D pivot, and a
// bounded, magnitude-ranked U row.
//
// selected holds local row indices; cur.Rows[posOf[r]] is r's current
// reduced row. perm.Inverse[c] is >= 0 exactly when local row c has
// already been assigned an elimination order — by an earlier level, or
// by an earlier row in this very call to FactorizeSelected, since perm
// is appended to as each row in selected finishes — which is what lets
// a multiplier's pivot be found in f (spec.md §4.5 step 3's "c refers
// to a row already being factored at this very level whose new
// elimination index precedes i").
func FactorizeSelected(selected []int, cur *rowstore.ReducedMatrix, posOf []int, firstrow, lastrow, pe int, f *rowstore.Factor, perm *Perm, known *remoteStore, ws *spa.Workspace, norms []float64, p config.Params, logger *log.Logger) error {
	for _, r := range selected {
		g := firstrow + r
		row := &cur.Rows[posOf[r]]
		if err := ws.Seed(row.ColInd[0], row.Values[0], row.ColInd[1:], row.Values[1:]); err != nil {
			return err
		}
		rtol := p.Tol * norms[r]

		pushIfPivot := func(pos int) {
			c := ws.Col(pos)
			if c >= g {
				return
			}
			if c >= firstrow && c < lastrow {
				if idx := perm.Inverse[c-firstrow]; idx >= 0 {
					ws.PushLocal(idx)
				}
			} else if seq, ok := known.SeqOf(c); ok {
				ws.PushRemote(seq)
			}
		}
		for i := 1; i < ws.Len(); i++ {
			pushIfPivot(i)
		}

		for ws.PendingL() {
			local, idx := ws.ExtractMin()
			var pivotCol int
			var pivotD float64
			var pivotCols []int
			var pivotVals []float64
			if local {
				pivotLocal := perm.Order[idx]
				pivotCol = firstrow + pivotLocal
				pivotD = f.DValues[pivotLocal]
				pivotCols, pivotVals = f.URow(pivotLocal)
			} else {
				pivotCol = known.ColAt(idx)
				rr, _ := known.Get(pivotCol)
				pivotD, pivotCols, pivotVals = rr.D, rr.UCols, rr.UVals
			}

			pos, ok := ws.PosOf(pivotCol)
			if !ok {
				continue
			}
			mult := ws.Val(pos) * pivotD
			ws.SetVal(pos, mult)
			if absf(mult) >= rtol {
				f.InsertL(r, pivotCol, mult)
			}

			created := ws.ScatterUpdate(pivotCols, pivotVals, mult, rtol)
			for _, p2 := range created {
				pushIfPivot(p2)
			}
		}

		diagPos, _ := ws.PosOf(g)
		pivotVal := ws.Val(diagPos)
		if f.SetD(r, pivotVal, p.Tol) && logger != nil {
			logger.Printf("parilut: PE %d row %d: zero pivot, substituting 1/tol", pe, g)
		}

		m := ws.Partition(func(c int) bool { return c >= g })
		type colVal struct {
			col int
			val float64
		}
		u := make([]colVal, 0, m-1)
		for i := 1; i < m; i++ {
			if v := ws.Val(i); absf(v) >= rtol {
				u = append(u, colVal{ws.Col(i), v})
			}
		}
		sort.Slice(u, func(i, j int) bool { return absf(u[i].val) > absf(u[j].val) })
		if len(u) > p.MaxNZ {
			u = u[:p.MaxNZ]
		}
		ucols := make([]int, len(u))
		uvals := make([]float64, len(u))
		for i, e := range u {
			ucols[i], uvals[i] = e.col, e.val
		}
		f.AppendU(r, ucols, uvals)

		perm.Append(r)
		ws.Reset()
	}
	return nil
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
