// SPDX-License-Identifier: MIT
package pemesh

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/parilut/distmat"
	"github.com/katalvlaran/parilut/rowstore"
	"github.com/samber/lo"
)

// CommPlan is the per-level communication schedule component C4 computes
// once, up front, so C6's row exchange can run without any further
// negotiation — spec.md §4.4's "compute who talks to whom and how much
// before moving a single row."
//
// R-side ("receive"): the PEs this PE must request rows from, because
// this PE's active rows depend on columns those PEs own. S-side
// ("send"): the PEs that asked this PE for rows it owns. RRowInd and
// SRowInd are flat, CSR-style concatenations of per-neighbor row-index
// lists, sliced by RPtr/SPtr.
type CommPlan struct {
	RNbr    []int
	RPtr    []int
	RRowInd []int

	SNbr    []int
	SPtr    []int
	SRowInd []int

	MaxNToGo int
}

// ComputeCommInfo walks the first ntogo rows of cur looking for columns
// outside [firstrow,lastrow) that have not already been claimed this
// level (member), groups them by owning PE, and negotiates with every
// other PE — via one AllReduceMax and one AllToAll, followed by a
// point-to-point exchange of the actual row-index lists — to produce a
// CommPlan both sides agree on. Mirrors spec.md §4.4 steps 1-6.
func ComputeCommInfo(ctx context.Context, ep *Endpoint, rowdist []int, firstrow, lastrow int, cur *rowstore.ReducedMatrix, ntogo int, member Membership) (*CommPlan, error) {
	p := ep.mesh.N()

	type remoteCol struct {
		pe  int
		col int
	}
	var candidates []remoteCol
	for ir := 0; ir < ntogo; ir++ {
		row := &cur.Rows[ir]
		for k := 1; k < row.Nnz; k++ { // skip the diagonal at index 0
			col := row.ColInd[k]
			if col >= firstrow && col < lastrow {
				continue
			}
			if col >= 0 && col < len(member) && member.IsMember(col) {
				continue
			}
			pe := distmat.Idx2PE(rowdist, col)
			if pe == ep.PE() {
				continue
			}
			candidates = append(candidates, remoteCol{pe: pe, col: col})
		}
	}

	byPE := lo.GroupBy(candidates, func(c remoteCol) int { return c.pe })
	reqCols := make([][]int, p)
	for pe, group := range byPE {
		reqCols[pe] = dedupSorted(lo.Map(group, func(c remoteCol, _ int) int { return c.col }))
	}

	maxntogo, err := ep.AllReduceMax(ctx, ntogo)
	if err != nil {
		return nil, fmt.Errorf("pemesh.ComputeCommInfo: %w", err)
	}

	sendCounts := make([]int, p)
	for pe, cols := range reqCols {
		sendCounts[pe] = len(cols)
	}
	recvCounts, err := ep.AllToAll(ctx, sendCounts)
	if err != nil {
		return nil, fmt.Errorf("pemesh.ComputeCommInfo: %w", err)
	}

	plan := &CommPlan{MaxNToGo: maxntogo}
	for pe := 0; pe < p; pe++ {
		if len(reqCols[pe]) > 0 {
			plan.RNbr = append(plan.RNbr, pe)
		}
	}
	plan.RPtr = make([]int, len(plan.RNbr)+1)
	for i, pe := range plan.RNbr {
		plan.RPtr[i+1] = plan.RPtr[i] + len(reqCols[pe])
		plan.RRowInd = append(plan.RRowInd, reqCols[pe]...)
	}

	for pe := 0; pe < p; pe++ {
		if recvCounts[pe] > 0 {
			plan.SNbr = append(plan.SNbr, pe)
		}
	}
	plan.SPtr = make([]int, len(plan.SNbr)+1)
	for i, pe := range plan.SNbr {
		plan.SPtr[i+1] = plan.SPtr[i] + recvCounts[pe]
	}
	plan.SRowInd = make([]int, plan.SPtr[len(plan.SPtr)-1])

	if err := exchangeRequestLists(ctx, ep, plan, reqCols); err != nil {
		return nil, err
	}
	return plan, nil
}

// exchangeRequestLists sends each R-neighbor its own request list and
// receives, from each S-neighbor, the list of local rows it is asking
// for. Receives are posted from goroutines before this PE's own sends
// run, so no ordering between PEs is required to avoid deadlock.
func exchangeRequestLists(ctx context.Context, ep *Endpoint, plan *CommPlan, reqCols [][]int) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(plan.RNbr)+len(plan.SNbr))

	for i, pe := range plan.SNbr {
		i, pe := i, pe
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := ep.Recv(ctx, pe)
			if err != nil {
				errCh <- err
				return
			}
			copy(plan.SRowInd[plan.SPtr[i]:plan.SPtr[i+1]], v.([]int))
		}()
	}
	for _, pe := range plan.RNbr {
		pe := pe
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ep.Send(ctx, pe, reqCols[pe]); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return fmt.Errorf("pemesh.ComputeCommInfo: %w", err)
		}
	}
	return nil
}

func dedupSorted(cols []int) []int {
	if len(cols) == 0 {
		return cols
	}
	sort.Ints(cols)
	out := cols[:1]
	for _, c := range cols[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}
