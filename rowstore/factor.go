// SPDX-License-Identifier: MIT
package rowstore

// Factor holds the completed L, D, U parts of spec.md §3's "Factor LDU"
// for this PE's rows, plus the level bookkeeping (NNodes, NLevels) spec.md
// §6 lists as outputs to the triangular-solve collaborator.
//
// L and U are each a single shared pool sized lnrows*maxnz: row r's slice
// is [rowptr[r]*...] — more precisely [LSRowPtr[r], LERowPtr[r]) into
// LColInd/LValues — so insertion never reallocates; it either appends
// within the row's maxnz budget or, once full, replaces the
// smallest-magnitude existing entry (spec.md §3: "When full, new arrivals
// replace the smallest-|v| entry rather than being appended").
type Factor struct {
	MaxNZ int

	LSRowPtr, LERowPtr []int
	LColInd            []int
	LValues            []float64

	DValues []float64

	USRowPtr, UERowPtr []int
	UColInd            []int
	UValues            []float64

	NNodes  []int
	NLevels int
}

// NewFactor allocates a Factor for lnrows local rows with per-row L/U
// capacity maxnz. Each row's L and U spans start empty at a fixed offset
// r*maxnz into the shared pools.
func NewFactor(lnrows, maxnz int) *Factor {
	pool := lnrows * maxnz
	f := &Factor{
		MaxNZ:    maxnz,
		LSRowPtr: make([]int, lnrows),
		LERowPtr: make([]int, lnrows),
		LColInd:  make([]int, pool),
		LValues:  make([]float64, pool),
		DValues:  make([]float64, lnrows),
		USRowPtr: make([]int, lnrows),
		UERowPtr: make([]int, lnrows),
		UColInd:  make([]int, pool),
		UValues:  make([]float64, pool),
		NNodes:   make([]int, 0, lnrows+1),
	}
	for r := 0; r < lnrows; r++ {
		f.LSRowPtr[r] = r * maxnz
		f.LERowPtr[r] = r * maxnz
		f.USRowPtr[r] = r * maxnz
		f.UERowPtr[r] = r * maxnz
	}
	return f
}

// InsertL inserts (col,val) into row lrow's L entries, per spec.md §4.5
// step 7 / §4.7 step 6 "UpdateL": append while under MaxNZ, otherwise
// replace the smallest-magnitude existing entry only if val exceeds it.
func (f *Factor) InsertL(lrow, col int, val float64) {
	start, end := f.LSRowPtr[lrow], f.LERowPtr[lrow]
	if end-start < f.MaxNZ {
		f.LColInd[end] = col
		f.LValues[end] = val
		f.LERowPtr[lrow] = end + 1
		return
	}
	min := start
	for j := start + 1; j < end; j++ {
		if absf(f.LValues[j]) < absf(f.LValues[min]) {
			min = j
		}
	}
	if absf(f.LValues[min]) < absf(val) {
		f.LColInd[min] = col
		f.LValues[min] = val
	}
}

// LRow returns the populated (cols,vals) slices for row lrow's L entries.
func (f *Factor) LRow(lrow int) ([]int, []float64) {
	s, e := f.LSRowPtr[lrow], f.LERowPtr[lrow]
	return f.LColInd[s:e], f.LValues[s:e]
}

// SetD stores the reciprocal pivot for row lrow, substituting 1/tol and
// reporting true when the pivot is exactly zero — spec.md §7's
// "zero-pivot" kind, recovered rather than fatal.
func (f *Factor) SetD(lrow int, pivot, tol float64) (zeroPivot bool) {
	if pivot == 0 {
		f.DValues[lrow] = 1 / tol
		return true
	}
	f.DValues[lrow] = 1 / pivot
	return false
}

// AppendU writes cols/vals into row lrow's (previously empty) U span;
// callers must present at most MaxNZ entries, already selected by
// magnitude (spec.md §4.5 step 8 — FactorizeSelected sorts the row's
// U-side entries by descending magnitude and truncates them to MaxNZ
// before calling AppendU).
func (f *Factor) AppendU(lrow int, cols []int, vals []float64) {
	start := f.UERowPtr[lrow]
	for i, c := range cols {
		f.UColInd[start+i] = c
		f.UValues[start+i] = vals[i]
	}
	f.UERowPtr[lrow] = start + len(cols)
}

// URow returns the populated (cols,vals) slices for row lrow's U entries.
func (f *Factor) URow(lrow int) ([]int, []float64) {
	s, e := f.USRowPtr[lrow], f.UERowPtr[lrow]
	return f.UColInd[s:e], f.UValues[s:e]
}

// BeginLevel records ndone as the cumulative row count completed through
// the level boundary just reached — spec.md §3's nnodes[ℓ]. Call once
// with the initial ndone before the first level, then once more after
// each level with the updated ndone.
func (f *Factor) BeginLevel(ndone int) {
	f.NNodes = append(f.NNodes, ndone)
	f.NLevels = len(f.NNodes) - 1
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
