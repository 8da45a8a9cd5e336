// SPDX-License-Identifier: MIT
package pemesh_test

import (
	"context"
	"sync"
	"testing"

	"github.com/katalvlaran/parilut/pemesh"
	"github.com/katalvlaran/parilut/rowstore"
	"github.com/stretchr/testify/require"
)

func TestExchangeShipsEntireBatchToEachSendNeighbor(t *testing.T) {
	m := pemesh.NewMesh(2)
	ctx := context.Background()

	f0 := rowstore.NewFactor(2, 4)
	f0.AppendU(0, []int{5, 6}, []float64{1.5, -2.5})
	f0.AppendU(1, []int{7}, []float64{3.0})
	_ = f0.SetD(0, 4.0, 1e-3)
	_ = f0.SetD(1, 2.0, 1e-3)

	plan0 := &pemesh.CommPlan{SNbr: []int{1}}
	plan1 := &pemesh.CommPlan{RNbr: []int{0}}

	var received []pemesh.ReceivedRow
	var counts []int
	var err0, err1 error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, _, err0 = pemesh.Exchange(ctx, m.Endpoint(0), plan0, f0, []int{0, 1}, 0, 2)
	}()
	go func() {
		defer wg.Done()
		received, counts, err1 = pemesh.Exchange(ctx, m.Endpoint(1), plan1, nil, nil, 0, 0)
	}()
	wg.Wait()

	require.NoError(t, err0)
	require.NoError(t, err1)
	require.Equal(t, []int{2}, counts)
	require.Len(t, received, 2)
	require.Equal(t, 0, received[0].Diag)
	require.Equal(t, []int{5, 6}, received[0].UCols)
	require.InDelta(t, 0.25, received[0].D, 1e-9)
	require.Equal(t, 1, received[1].Diag)
	require.Equal(t, []int{7}, received[1].UCols)
}
