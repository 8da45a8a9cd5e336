// SPDX-License-Identifier: MIT
package spa

import "fmt"

// Workspace is the per-PE sparse accumulator from spec.md §3/§4.1. It is
// reused across every row a PE factors or reduces at every level: Seed
// starts a row, the other operations work on the row in progress, and
// Reset closes it out, restoring the "at rest" invariant (jr entirely -1,
// lastjr==0, the pending-L heap empty). DropBelow restores jr alone and
// leaves the surviving entries in jw/w.
//
// Workspace is not safe for concurrent use; spec.md §5 assigns exactly one
// Workspace per PE goroutine, touched only by that goroutine.
type Workspace struct {
	n int // total column count (N from config.Params)

	jr []int     // column -> position in jw, or -1 if absent
	jw []int     // packed column list; jw[0] is always the diagonal
	w  []float64 // packed values, index-aligned with jw
	lastjr int   // number of populated jw/w slots

	lr []lrEntry // pending-L min-heap (see heap.go)
}

// New allocates a Workspace sized for n total columns. jr is eagerly
// filled with -1 so the "at rest" invariant holds from construction.
func New(n int) *Workspace {
	jr := make([]int, n)
	for i := range jr {
		jr[i] = -1
	}
	return &Workspace{
		n:  n,
		jr: jr,
	}
}

// Len returns the number of populated entries in the row currently being
// assembled (including the diagonal at position 0).
func (ws *Workspace) Len() int { return ws.lastjr }

// Col returns the column at packed position i (0 is always the diagonal).
func (ws *Workspace) Col(i int) int { return ws.jw[i] }

// Val returns the value at packed position i.
func (ws *Workspace) Val(i int) float64 { return ws.w[i] }

// SetVal overwrites the value at packed position i, used by callers that
// turn a scattered entry into an L-multiplier in place (spec.md §4.5 step
// 4: "store that multiplier back into w[jr[c]]").
func (ws *Workspace) SetVal(i int, v float64) { ws.w[i] = v }

// PosOf returns the packed position of column c and true if c is currently
// populated in the row being assembled, or (-1, false) otherwise.
func (ws *Workspace) PosOf(c int) (int, bool) {
	if c < 0 || c >= ws.n {
		return -1, false
	}
	p := ws.jr[c]
	return p, p >= 0
}

// Seed resets the workspace to a fresh row: jw[0]/w[0] become (diagCol,
// diagVal), then each (cols[i], vals[i]) is appended with jr[cols[i]] set
// to its packed position. spec.md §4.1 "seed(row)".
//
// Stage 1 (Validate): diagCol and every cols[i] must be in [0,n); the
// workspace must be at rest (ErrNotAtRest otherwise).
// Stage 2 (Execute): populate jw/w/jr for the diagonal and off-diagonals.
func (ws *Workspace) Seed(diagCol int, diagVal float64, cols []int, vals []float64) error {
	if ws.lastjr != 0 {
		return ErrNotAtRest
	}
	if diagCol < 0 || diagCol >= ws.n {
		return fmt.Errorf("spa.Seed: diagonal column %d: %w", diagCol, ErrOutOfBounds)
	}
	needed := 1 + len(cols)
	if cap(ws.jw) < needed {
		ws.jw = make([]int, needed)
		ws.w = make([]float64, needed)
	} else {
		ws.jw = ws.jw[:needed]
		ws.w = ws.w[:needed]
	}

	ws.jw[0] = diagCol
	ws.w[0] = diagVal
	ws.jr[diagCol] = 0
	ws.lastjr = 1

	for i, c := range cols {
		if c < 0 || c >= ws.n {
			return fmt.Errorf("spa.Seed: column %d: %w", c, ErrOutOfBounds)
		}
		pos := ws.lastjr
		ws.jw[pos] = c
		ws.w[pos] = vals[i]
		ws.jr[c] = pos
		ws.lastjr++
	}
	return nil
}

// ScatterUpdate applies "row k := row k - mult*row(cols,vals)" to the row
// under assembly, per spec.md §4.1 "scatter_update(k, mult)": for each
// (c,v) of the factored row being subtracted, if c is already populated,
// decrement its value; otherwise, if the fill |mult*v| clears rtol, append
// a new entry (this is where fill-in is created). Entries that would fall
// below rtol are silently discarded rather than appended — spec.md §4.5
// step 4's "first drop test" / §4.6 step 3's identical rule for the
// reduction path.
//
// Returns the packed positions of newly created fill entries, in the
// order created, so the caller can decide (by its own local/remote and
// membership rules — spec.md §4.5 step 4, §4.7 step 3) whether each one
// also belongs in the pending-L set.
func (ws *Workspace) ScatterUpdate(cols []int, vals []float64, mult, rtol float64) []int {
	var created []int
	for i, c := range cols {
		v := vals[i]
		if pos, ok := ws.PosOf(c); ok {
			ws.w[pos] -= mult * v
			continue
		}
		if absf(mult*v) < rtol {
			continue // fill too small to matter; spec.md §4.5 step 4
		}
		pos := ws.lastjr
		if pos >= len(ws.jw) {
			ws.jw = append(ws.jw, 0)
			ws.w = append(ws.w, 0)
		}
		ws.jw[pos] = c
		ws.w[pos] = -mult * v
		ws.jr[c] = pos
		ws.lastjr++
		created = append(created, pos)
	}
	return created
}

// DropBelow compacts jw/w, keeping only entries whose |value| is >= rtol;
// the diagonal at position 0 is always kept regardless of magnitude.
// Resets jr[jw[i]] = -1 for every populated slot first, so the workspace
// returns to its "at rest" invariant for jr while jw/w still hold the
// surviving row — spec.md §4.1 "drop_below(rtol)".
func (ws *Workspace) DropBelow(rtol float64) {
	for i := 0; i < ws.lastjr; i++ {
		ws.jr[ws.jw[i]] = -1
	}
	i := 1
	for i < ws.lastjr {
		if absf(ws.w[i]) < rtol {
			ws.lastjr--
			ws.jw[i] = ws.jw[ws.lastjr]
			ws.w[i] = ws.w[ws.lastjr]
			continue
		}
		i++
	}
}

// Partition rearranges jw/w[1:lastjr) in place so that entries satisfying
// keep occupy [1,m) and the rest occupy [m,lastjr), returning the split
// point m. spec.md §4.1 "partition(predicate)"; the two predicates it
// names (independent-set membership during C7, new-permutation ordering
// during C5) are supplied by the caller as keep.
func (ws *Workspace) Partition(keep func(col int) bool) int {
	if ws.lastjr <= 1 {
		return 1
	}
	last, first := 1, ws.lastjr-1
	for {
		for last < first && keep(ws.jw[last]) {
			last++
		}
		for last < first && !keep(ws.jw[first]) {
			first--
		}
		if last < first {
			ws.jw[last], ws.jw[first] = ws.jw[first], ws.jw[last]
			ws.w[last], ws.w[first] = ws.w[first], ws.w[last]
			last++
			first--
			continue
		}
		if last == first {
			if keep(ws.jw[last]) {
				last++
			}
		} else {
			last = first + 1
		}
		break
	}
	return last
}

// Reset clears the workspace back to "at rest" without requiring a caller
// to have called DropBelow first; the factorization and reduction loops
// call it after every row to close that row out.
func (ws *Workspace) Reset() {
	for i := 0; i < ws.lastjr; i++ {
		ws.jr[ws.jw[i]] = -1
	}
	ws.lastjr = 0
	ws.lr = ws.lr[:0]
}

// TakeTopK destructively extracts up to maxK entries from [first,lastjr)
// ordered by descending |value|, shrinking the row to drop them as it
// goes (swap-the-max-out-with-the-last-slot, exactly as spec.md §4.5's
// FormDU and §4.7's FormNRmat select their survivors). The row's
// remaining span after this call is [first, lastjr) with lastjr reduced
// by the number of entries taken; callers that need the untaken rest
// must read it before or after calling TakeTopK, not both, since it is
// reordered in place. ReduceRemaining builds its new reduced row from the
// diagonal plus the taken entries and discards the rest.
func (ws *Workspace) TakeTopK(first, maxK int) (cols []int, vals []float64) {
	for len(cols) < maxK && ws.lastjr > first {
		max := first
		for j := first + 1; j < ws.lastjr; j++ {
			if absf(ws.w[j]) > absf(ws.w[max]) {
				max = j
			}
		}
		cols = append(cols, ws.jw[max])
		vals = append(vals, ws.w[max])

		ws.lastjr--
		ws.jw[max] = ws.jw[ws.lastjr]
		ws.w[max] = ws.w[ws.lastjr]
	}
	return cols, vals
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
