// SPDX-License-Identifier: MIT
package distmat

import (
	"fmt"
	"math"
)

// LocalRow is the per-row input spec.md §6 describes: a sparse
// representation with the diagonal first and the row's 2-norm, which the
// factorizer scales its drop tolerance by.
type LocalRow struct {
	Cols []int     // Cols[0] is always firstrow+r, the diagonal
	Vals []float64 // index-aligned with Cols
	Nrm2 float64   // 2-norm of the row, including the diagonal
}

// Distributed is one PE's view of the distributed matrix: its row range
// and the local rows it owns, plus the global partition vector every PE
// needs to classify a column as local or remote (spec.md §3's rowdist).
type Distributed struct {
	RowDist           []int // rowdist[0..P]
	FirstRow, LastRow int
	Rows              []LocalRow
}

// LNRows is the number of rows this PE owns (spec.md's lnrows).
func (d *Distributed) LNRows() int { return d.LastRow - d.FirstRow }

// N is the total row count across all PEs.
func (d *Distributed) N() int { return d.RowDist[len(d.RowDist)-1] }

// Idx2PE returns the PE owning global row idx, per spec.md §4's Idx2PE.
func Idx2PE(rowdist []int, idx int) int {
	lo, hi := 0, len(rowdist)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if rowdist[mid] <= idx {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// entry is one (column, value) pair of a global sparse row, used only by
// this package's fixture builders.
type entry struct {
	col int
	val float64
}

// globalMatrix is an in-memory CSR-ish representation of a full,
// undistributed sparse matrix, used only to build small test fixtures.
type globalMatrix struct {
	n    int
	rows [][]entry // rows[i][0] is always the diagonal
}

// EvenRowDist partitions n rows as evenly as possible across p PEs,
// giving the first (n mod p) PEs one extra row — the same "as equal as
// possible" contract spec.md §3 assumes of rowdist without mandating a
// specific splitting rule.
func EvenRowDist(n, p int) ([]int, error) {
	if n <= 0 || p <= 0 || p > n {
		return nil, fmt.Errorf("distmat.EvenRowDist(%d,%d): %w", n, p, ErrBadPartition)
	}
	dist := make([]int, p+1)
	base, rem := n/p, n%p
	row := 0
	for pe := 0; pe < p; pe++ {
		dist[pe] = row
		row += base
		if pe < rem {
			row++
		}
	}
	dist[p] = n
	return dist, nil
}

// distribute extracts PE pe's local rows out of gm, given rowdist.
func distribute(gm *globalMatrix, rowdist []int, pe int) (*Distributed, error) {
	if pe < 0 || pe >= len(rowdist)-1 {
		return nil, fmt.Errorf("distmat.distribute: pe=%d: %w", pe, ErrBadPartition)
	}
	first, last := rowdist[pe], rowdist[pe+1]
	d := &Distributed{
		RowDist:  rowdist,
		FirstRow: first,
		LastRow:  last,
		Rows:     make([]LocalRow, last-first),
	}
	for i := first; i < last; i++ {
		es := gm.rows[i]
		cols := make([]int, len(es))
		vals := make([]float64, len(es))
		sumSq := 0.0
		for k, e := range es {
			cols[k] = e.col
			vals[k] = e.val
			sumSq += e.val * e.val
		}
		d.Rows[i-first] = LocalRow{Cols: cols, Vals: vals, Nrm2: math.Sqrt(sumSq)}
	}
	return d, nil
}
