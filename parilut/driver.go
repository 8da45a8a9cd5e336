// SPDX-License-Identifier: MIT
package parilut

import (
	"context"
	"fmt"

	"github.com/katalvlaran/parilut/config"
	"github.com/katalvlaran/parilut/distmat"
	"github.com/katalvlaran/parilut/pemesh"
	"github.com/katalvlaran/parilut/rowstore"
	"github.com/katalvlaran/parilut/spa"
)

// Factor runs component C8 — the per-PE level driver — to completion:
// repeat plan (C4) / select (C3) / factorize (C5) / exchange (C6) /
// reduce (C7) until every PE's active row count has drained to zero,
// then return this PE's completed Factor and the order it eliminated
// its local rows in.
//
// Every PE that shares mesh must call Factor concurrently with the same
// p and its own dm; the level loop's collectives (the comm-count
// all-to-all, the ntogo all-reduce) block until all of them arrive at
// the same point, matching spec.md §5's lock-step level structure.
func Factor(ctx context.Context, mesh *pemesh.Mesh, pe int, dm *distmat.Distributed, p config.Params, opts ...Option) (*rowstore.Factor, Perm, error) {
	o := gatherOptions(opts)
	lnrows := dm.LNRows()
	firstrow, lastrow := dm.FirstRow, dm.LastRow

	f := rowstore.NewFactor(lnrows, p.MaxNZ)
	perm := NewPerm(lnrows)
	known := newRemoteStore()
	ws := spa.New(p.N)
	ep := mesh.Endpoint(pe)

	bufs := rowstore.NewBuffers(lnrows)
	cur := bufs.Cur()
	norms := make([]float64, lnrows)
	for r := 0; r < lnrows; r++ {
		cur.SetRow(r, dm.Rows[r].Cols, dm.Rows[r].Vals)
		norms[r] = dm.Rows[r].Nrm2
	}

	active := make([]int, lnrows)
	for i := range active {
		active[i] = i
	}

	ndone := 0
	f.BeginLevel(ndone)

	for level := 0; ; level++ {
		globalRemaining, err := ep.AllReduceSum(ctx, len(active))
		if err != nil {
			return nil, Perm{}, fmt.Errorf("parilut.Factor: level %d: %w", level, err)
		}
		if globalRemaining == 0 {
			break
		}
		if level >= p.MaxNLevel {
			return nil, Perm{}, fmt.Errorf("parilut.Factor: level %d: %w", level, ErrLevelOverflow)
		}

		posOf := make([]int, lnrows)
		for i := range posOf {
			posOf[i] = -1
		}
		for i, r := range active {
			posOf[r] = i
		}

		// member is spec.md §3's globally-indexed membership map: sized for
		// every row in the problem (not just this PE's own), so that a
		// single column index — local or remote — can be looked up the
		// same way everywhere it is consulted this level (plan.go's
		// already-claimed check and C7's reduction below; selection does
		// not read it). It starts empty (ComputeCommInfo runs before
		// selection has happened), gets marked as selection and exchange
		// complete, and is discarded at the end of the level — a fresh one
		// is allocated next iteration, so spec.md §3's "map ≡ 0 at the
		// beginning and end of every level" holds by construction.
		member := pemesh.NewMembership(p.N)
		plan, err := pemesh.ComputeCommInfo(ctx, ep, dm.RowDist, firstrow, lastrow, cur, len(active), member)
		if err != nil {
			return nil, Perm{}, fmt.Errorf("parilut.Factor: level %d: %w", level, err)
		}

		selected, remaining := SelectIndependentSet(pe, active, cur, firstrow, lastrow, dm.RowDist, plan)
		for _, r := range selected {
			member.MarkLocal(firstrow + r)
		}

		globalSelected, err := ep.AllReduceSum(ctx, len(selected))
		if err != nil {
			return nil, Perm{}, fmt.Errorf("parilut.Factor: level %d: %w", level, err)
		}
		if globalSelected == 0 {
			return nil, Perm{}, fmt.Errorf("parilut.Factor: level %d: %w", level, ErrStalledLevel)
		}

		if err := FactorizeSelected(selected, cur, posOf, firstrow, lastrow, pe, f, perm, known, ws, norms, p, o.Logger); err != nil {
			return nil, Perm{}, fmt.Errorf("parilut.Factor: level %d: %w", level, err)
		}

		received, _, err := pemesh.Exchange(ctx, ep, plan, f, selected, firstrow, len(selected))
		if err != nil {
			return nil, Perm{}, fmt.Errorf("parilut.Factor: level %d: %w", level, err)
		}
		for i, rr := range received {
			known.Add(rr)
			member.MarkRemote(rr.Diag, i)
		}

		next := bufs.Next()
		if err := ReduceRemaining(remaining, cur, next, posOf, firstrow, lastrow, f, member, received, ws, norms, p); err != nil {
			return nil, Perm{}, fmt.Errorf("parilut.Factor: level %d: %w", level, err)
		}

		ndone += len(selected)
		f.BeginLevel(ndone)
		bufs.Swap()
		cur = bufs.Cur()
		active = remaining
	}

	return f, *perm, nil
}
