// SPDX-License-Identifier: MIT
package rowstore

// ReducedRow is one CSR-like row of the reduced matrix R from spec.md §3:
// Nnz entries are populated, ColInd[0] is always the diagonal (global row
// index), the remaining entries are distinct columns. Cap() is the
// allocated capacity (spec.md's rrowlen); Nnz <= Cap() always holds. A
// reduced row holds the diagonal plus at most maxnz other entries, but
// Cap() is not bounded by maxnz: SetRow keeps a row's earlier, possibly
// larger, storage whenever the new row fits in it.
type ReducedRow struct {
	Nnz    int
	ColInd []int
	Values []float64
}

// Cap reports the allocated row capacity (spec.md's rrowlen).
func (r *ReducedRow) Cap() int { return cap(r.ColInd) }

// ReducedMatrix holds one ReducedRow per still-active local row, indexed
// by that row's position among active rows (spec.md §3's rmat_rcolind[ir]
// style indexing, ir counting from 0 over the currently-active set).
type ReducedMatrix struct {
	Rows []ReducedRow
}

// NewReducedMatrix allocates a ReducedMatrix with capacity for n active
// rows; individual rows start with nil storage and are populated by
// SetRow.
func NewReducedMatrix(n int) *ReducedMatrix {
	return &ReducedMatrix{Rows: make([]ReducedRow, n)}
}

// SetRow writes (cols,vals) into row idx, reusing the row's existing
// backing storage when it already has enough capacity and reallocating
// otherwise — spec.md §4.2's "reused in place when the new row length
// fits the old capacity, otherwise reallocated."
func (m *ReducedMatrix) SetRow(idx int, cols []int, vals []float64) {
	row := &m.Rows[idx]
	nz := len(cols)
	if cap(row.ColInd) < nz {
		row.ColInd = make([]int, nz)
		row.Values = make([]float64, nz)
	} else {
		row.ColInd = row.ColInd[:nz]
		row.Values = row.Values[:nz]
	}
	copy(row.ColInd, cols)
	copy(row.Values, vals)
	row.Nnz = nz
}

// Buffers double-buffers a ReducedMatrix across levels, per spec.md
// §4.2: "two row arrays R_cur, R_next alternate. After level ℓ, the
// freshly produced reduced rows live in R_next; pointers are swapped."
type Buffers struct {
	cur, next *ReducedMatrix
}

// NewBuffers allocates both sides of the double buffer, each sized for n
// active rows.
func NewBuffers(n int) *Buffers {
	return &Buffers{cur: NewReducedMatrix(n), next: NewReducedMatrix(n)}
}

// Cur returns the reduced matrix being read this level.
func (b *Buffers) Cur() *ReducedMatrix { return b.cur }

// Next returns the reduced matrix being written this level.
func (b *Buffers) Next() *ReducedMatrix { return b.next }

// Swap exchanges Cur and Next, making this level's output the next
// level's input. The old Cur's storage is left in place for Next's rows
// to reuse via SetRow's capacity check.
func (b *Buffers) Swap() { b.cur, b.next = b.next, b.cur }
