// SPDX-License-Identifier: MIT
package pemesh

import (
	"context"
	"fmt"
	"sync"

	"github.com/katalvlaran/parilut/rowstore"
)

// ReceivedRow is a factored row shipped to a dependent PE: the owning
// PE's D value and U entries for one globally-numbered row, which is
// all a remote consumer needs to eliminate that row out of its own
// active rows (spec.md §4.6/§6, component C6). L never crosses a PE
// boundary — only the owner ever needs its own L entries for the
// eventual triangular solve.
type ReceivedRow struct {
	Diag  int
	D     float64
	UCols []int
	UVals []float64
}

// Exchange ships this level's newly-factored rows to every PE that
// asked for rows this PE owns, and collects the rows this PE asked
// for in return. Per spec.md §4.6's historical note, each S-neighbor
// receives this PE's ENTIRE newly-selected batch (newperm[:nmis]), not
// a filtered subset matching what it actually requested — simpler, and
// correct because an unrequested row is simply ignored by the
// receiver. Receives are posted before sends to avoid a ring deadlock.
//
// received is ordered to match plan.RNbr: rows from plan.RNbr[i] occupy
// a contiguous span of length counts[i].
func Exchange(ctx context.Context, ep *Endpoint, plan *CommPlan, f *rowstore.Factor, newperm []int, firstrow int, nmis int) (received []ReceivedRow, counts []int, err error) {
	batch := make([]ReceivedRow, nmis)
	for i := 0; i < nmis; i++ {
		r := newperm[i]
		cols, vals := f.URow(r)
		ucols := make([]int, len(cols))
		uvals := make([]float64, len(vals))
		copy(ucols, cols)
		copy(uvals, vals)
		batch[i] = ReceivedRow{
			Diag:  firstrow + r,
			D:     f.DValues[r],
			UCols: ucols,
			UVals: uvals,
		}
	}

	recvBuf := make([][]ReceivedRow, len(plan.RNbr))
	var wg sync.WaitGroup
	errCh := make(chan error, len(plan.RNbr)+len(plan.SNbr))

	for i, pe := range plan.RNbr {
		i, pe := i, pe
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, rerr := ep.Recv(ctx, pe)
			if rerr != nil {
				errCh <- rerr
				return
			}
			recvBuf[i] = v.([]ReceivedRow)
		}()
	}
	for _, pe := range plan.SNbr {
		pe := pe
		wg.Add(1)
		go func() {
			defer wg.Done()
			if serr := ep.Send(ctx, pe, batch); serr != nil {
				errCh <- serr
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for e := range errCh {
		if e != nil {
			return nil, nil, fmt.Errorf("pemesh.Exchange: %w", e)
		}
	}

	counts = make([]int, len(plan.RNbr))
	total := 0
	for i, rows := range recvBuf {
		counts[i] = len(rows)
		total += len(rows)
	}
	received = make([]ReceivedRow, 0, total)
	for _, rows := range recvBuf {
		received = append(received, rows...)
	}
	return received, counts, nil
}
