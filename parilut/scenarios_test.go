// SPDX-License-Identifier: MIT
package parilut_test

import (
	"bytes"
	"context"
	"log"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/parilut/config"
	"github.com/katalvlaran/parilut/distmat"
	"github.com/katalvlaran/parilut/parilut"
	"github.com/katalvlaran/parilut/pemesh"
	"github.com/stretchr/testify/require"
)

func nrm2(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v * v
	}
	return math.Sqrt(s)
}

// mutualPair builds the 2-row, 2-PE fixture spec.md's scenario S3 names:
// PE 0 owns row 0 with a column into PE 1's row 1, and vice-versa.
func mutualPair() (pe0, pe1 *distmat.Distributed) {
	rowdist := []int{0, 1, 2}
	row0Cols, row0Vals := []int{0, 1}, []float64{2, -1}
	row1Cols, row1Vals := []int{1, 0}, []float64{2, -1}
	pe0 = &distmat.Distributed{
		RowDist: rowdist, FirstRow: 0, LastRow: 1,
		Rows: []distmat.LocalRow{{Cols: row0Cols, Vals: row0Vals, Nrm2: nrm2(row0Vals)}},
	}
	pe1 = &distmat.Distributed{
		RowDist: rowdist, FirstRow: 1, LastRow: 2,
		Rows: []distmat.LocalRow{{Cols: row1Cols, Vals: row1Vals, Nrm2: nrm2(row1Vals)}},
	}
	return pe0, pe1
}

// asymmetricPair builds scenario S5's fixture: PE 0's only row depends on
// PE 1's row, but PE 1's row has no remote dependency of its own, so rule
// 1 alone would let both PEs select at level 0 — only the symmetry
// fix-up (rule 3) catches this and holds PE 1's row back.
func asymmetricPair() (pe0, pe1 *distmat.Distributed) {
	rowdist := []int{0, 1, 2}
	row0Cols, row0Vals := []int{0, 1}, []float64{2, -1}
	row1Cols, row1Vals := []int{1}, []float64{2}
	pe0 = &distmat.Distributed{
		RowDist: rowdist, FirstRow: 0, LastRow: 1,
		Rows: []distmat.LocalRow{{Cols: row0Cols, Vals: row0Vals, Nrm2: nrm2(row0Vals)}},
	}
	pe1 = &distmat.Distributed{
		RowDist: rowdist, FirstRow: 1, LastRow: 2,
		Rows: []distmat.LocalRow{{Cols: row1Cols, Vals: row1Vals, Nrm2: nrm2(row1Vals)}},
	}
	return pe0, pe1
}

// TestScenarioS1SinglePELaplacian1D exercises spec.md §8's S1: a 1-PE, 10
// point 1D Laplacian with maxnz=2 should select every row in one level,
// and every D entry should be positive since the matrix is SPD.
func TestScenarioS1SinglePELaplacian1D(t *testing.T) {
	mesh := pemesh.NewMesh(1)
	params, err := config.New(10, config.WithMaxNZ(2), config.WithTol(1e-3))
	require.NoError(t, err)
	dm, err := distmat.Laplacian1D(10, 1, 0)
	require.NoError(t, err)

	f, perm, err := parilut.Factor(context.Background(), mesh, 0, dm, params)
	require.NoError(t, err)
	require.Equal(t, 1, f.NLevels)
	require.Len(t, perm.Order, 10)

	for r := 0; r < 10; r++ {
		require.Greater(t, f.DValues[r], 0.0, "row %d reciprocal pivot must be positive for an SPD matrix", r)
		lcols, _ := f.LRow(r)
		ucols, _ := f.URow(r)
		require.LessOrEqual(t, len(lcols)+len(ucols), 2)
	}
}

// TestScenarioS3MutualCrossPEDependencyKeepsLowerPE exercises spec.md §8's
// S3: when two PEs' single rows depend on each other, Property 2 forces
// the lower-numbered PE's row into level 0 and the higher-numbered PE's
// row into level 1.
func TestScenarioS3MutualCrossPEDependencyKeepsLowerPE(t *testing.T) {
	mesh := pemesh.NewMesh(2)
	params, err := config.New(2)
	require.NoError(t, err)
	pe0dm, pe1dm := mutualPair()

	var wg sync.WaitGroup
	var f0, f1 *parilutFactorResult
	ctx := context.Background()
	wg.Add(2)
	go func() {
		defer wg.Done()
		f, perm, err := parilut.Factor(ctx, mesh, 0, pe0dm, params)
		require.NoError(t, err)
		f0 = &parilutFactorResult{nnodes: append([]int(nil), f.NNodes...), nlevels: f.NLevels, perm: perm}
	}()
	go func() {
		defer wg.Done()
		f, perm, err := parilut.Factor(ctx, mesh, 1, pe1dm, params)
		require.NoError(t, err)
		f1 = &parilutFactorResult{nnodes: append([]int(nil), f.NNodes...), nlevels: f.NLevels, perm: perm}
	}()
	wg.Wait()

	require.GreaterOrEqual(t, len(f0.nnodes), 2)
	require.GreaterOrEqual(t, len(f1.nnodes), 2)
	require.Equal(t, 1, f0.nnodes[1], "PE 0's row must finish at level 0")
	require.Equal(t, 0, f1.nnodes[1], "PE 1's row must wait past level 0")
	require.Equal(t, 1, f1.nnodes[len(f1.nnodes)-1], "PE 1's row must finish eventually")
}

// TestScenarioS4SingularRowRecoversZeroPivot exercises spec.md §8's S4: a
// row whose pivot reduces to exactly zero gets D[i] == 1/tol and a
// one-line diagnostic, and factorization completes rather than failing.
func TestScenarioS4SingularRowRecoversZeroPivot(t *testing.T) {
	dm := &distmat.Distributed{
		RowDist:  []int{0, 2},
		FirstRow: 0, LastRow: 2,
		Rows: []distmat.LocalRow{
			{Cols: []int{0, 1}, Vals: []float64{0, -1}, Nrm2: nrm2([]float64{0, -1})},
			{Cols: []int{1, 0}, Vals: []float64{2, -1}, Nrm2: nrm2([]float64{2, -1})},
		},
	}
	mesh := pemesh.NewMesh(1)
	params, err := config.New(2, config.WithTol(1e-3))
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	f, _, err := parilut.Factor(context.Background(), mesh, 0, dm, params, parilut.WithLogger(logger))
	require.NoError(t, err)
	require.InDelta(t, 1/params.Tol, f.DValues[0], 1e-12)
	require.Contains(t, buf.String(), "zero pivot")
}

// TestScenarioS5AsymmetrySymmetryFixupRemovesCandidate exercises spec.md
// §8's S5: a send-side row list from a lower-numbered PE names a
// candidate local row on a higher-numbered PE that rule 1 alone would not
// have excluded; the fix-up step must remove it from the level's set.
func TestScenarioS5AsymmetrySymmetryFixupRemovesCandidate(t *testing.T) {
	mesh := pemesh.NewMesh(2)
	params, err := config.New(2)
	require.NoError(t, err)
	pe0dm, pe1dm := asymmetricPair()

	var wg sync.WaitGroup
	var f0, f1 *parilutFactorResult
	ctx := context.Background()
	wg.Add(2)
	go func() {
		defer wg.Done()
		f, perm, err := parilut.Factor(ctx, mesh, 0, pe0dm, params)
		require.NoError(t, err)
		f0 = &parilutFactorResult{nnodes: append([]int(nil), f.NNodes...), nlevels: f.NLevels, perm: perm}
	}()
	go func() {
		defer wg.Done()
		f, perm, err := parilut.Factor(ctx, mesh, 1, pe1dm, params)
		require.NoError(t, err)
		f1 = &parilutFactorResult{nnodes: append([]int(nil), f.NNodes...), nlevels: f.NLevels, perm: perm}
	}()
	wg.Wait()

	require.Equal(t, 1, f0.nnodes[1], "PE 0's dependent row proceeds at level 0")
	require.Equal(t, 0, f1.nnodes[1], "PE 1's row is held back by the symmetry fix-up despite having no remote dependency of its own")
}

// TestScenarioS6LevelOverflowFailsOnAllPEs exercises spec.md §8's S6: a
// sparsity pattern that needs more than one level fails fatally, on every
// PE, once MAXNLEVEL is exhausted.
func TestScenarioS6LevelOverflowFailsOnAllPEs(t *testing.T) {
	mesh := pemesh.NewMesh(2)
	params, err := config.New(2, config.WithMaxNLevel(1))
	require.NoError(t, err)
	pe0dm, pe1dm := mutualPair()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	ctx := context.Background()
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _, err := parilut.Factor(ctx, mesh, 0, pe0dm, params)
		errs[0] = err
	}()
	go func() {
		defer wg.Done()
		_, _, err := parilut.Factor(ctx, mesh, 1, pe1dm, params)
		errs[1] = err
	}()
	wg.Wait()

	require.Error(t, errs[0], "PE 0 shares the global level count and fails with PE 1")
	require.Error(t, errs[1], "PE 1, which must wait past level 0, overflows MAXNLEVEL")
}

// TestScenarioS2FourPEGridAllPermutationsValid exercises part of spec.md
// §8's S2: a 4-PE, 20x20 2D Laplacian completes in at least 2 levels and
// every PE's permutation is a bijection onto its local rows. cmp.Diff
// renders a structural mismatch if any PE's sorted permutation drifts
// from the expected contiguous local-index range.
func TestScenarioS2FourPEGridAllPermutationsValid(t *testing.T) {
	const nx, ny, p = 20, 20, 4
	mesh := pemesh.NewMesh(p)
	params, err := config.New(nx*ny, config.WithMaxNZ(5), config.WithTol(1e-2))
	require.NoError(t, err)

	type result struct {
		perm    parilut.Perm
		nlevels int
		lnrows  int
	}
	results := make([]result, p)
	var wg sync.WaitGroup
	ctx := context.Background()
	for pe := 0; pe < p; pe++ {
		pe := pe
		wg.Add(1)
		go func() {
			defer wg.Done()
			dm, derr := distmat.Laplacian2D(nx, ny, p, pe)
			require.NoError(t, derr)
			f, perm, ferr := parilut.Factor(ctx, mesh, pe, dm, params)
			require.NoError(t, ferr)
			results[pe] = result{perm: perm, nlevels: f.NLevels, lnrows: dm.LNRows()}
		}()
	}
	wg.Wait()

	maxLevels := 0
	for pe := 0; pe < p; pe++ {
		if results[pe].nlevels > maxLevels {
			maxLevels = results[pe].nlevels
		}

		want := make([]int, results[pe].lnrows)
		for i := range want {
			want[i] = i
		}
		got := append([]int(nil), results[pe].perm.Order...)
		sortInts(got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("PE %d permutation is not a bijection onto its local rows (-want +got):\n%s", pe, diff)
		}
	}
	require.GreaterOrEqual(t, maxLevels, 2, "a 20x20 grid split across 4 PEs should need more than one level")
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

type parilutFactorResult struct {
	nnodes  []int
	nlevels int
	perm    parilut.Perm
}
