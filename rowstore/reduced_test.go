// SPDX-License-Identifier: MIT
package rowstore_test

import (
	"testing"

	"github.com/katalvlaran/parilut/rowstore"
	"github.com/stretchr/testify/require"
)

func TestSetRowReusesCapacity(t *testing.T) {
	m := rowstore.NewReducedMatrix(2)
	m.SetRow(0, []int{5, 1, 2}, []float64{1, 2, 3})
	old := m.Rows[0].ColInd

	m.SetRow(0, []int{5, 1}, []float64{9, 8})
	require.Equal(t, 2, m.Rows[0].Nnz)
	require.Equal(t, 5, m.Rows[0].ColInd[0])
	// still the same backing array since 2 <= cap(3)
	require.Equal(t, &old[0], &m.Rows[0].ColInd[0])
}

func TestSetRowGrowsWhenNeeded(t *testing.T) {
	m := rowstore.NewReducedMatrix(1)
	m.SetRow(0, []int{1}, []float64{1})
	m.SetRow(0, []int{1, 2, 3, 4}, []float64{1, 2, 3, 4})
	require.Equal(t, 4, m.Rows[0].Nnz)
	require.GreaterOrEqual(t, m.Rows[0].Cap(), 4)
}

func TestBuffersSwap(t *testing.T) {
	b := rowstore.NewBuffers(1)
	cur := b.Cur()
	next := b.Next()
	require.NotSame(t, cur, next)

	b.Swap()
	require.Same(t, cur, b.Next())
	require.Same(t, next, b.Cur())
}
