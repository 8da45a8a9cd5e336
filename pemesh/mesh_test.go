// SPDX-License-Identifier: MIT
package pemesh_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/parilut/pemesh"
	"github.com/stretchr/testify/require"
)

func TestSendRecvRoundTrip(t *testing.T) {
	m := pemesh.NewMesh(2)
	ctx := context.Background()
	e0, e1 := m.Endpoint(0), m.Endpoint(1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		require.NoError(t, e0.Send(ctx, 1, "hello"))
	}()
	v, err := e1.Recv(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "hello", v)
	wg.Wait()
}

func TestSendRejectsSelf(t *testing.T) {
	m := pemesh.NewMesh(2)
	e0 := m.Endpoint(0)
	require.Panics(t, func() {
		_ = e0.Send(context.Background(), 0, 1)
	})
}

func TestSendRecvBadPeer(t *testing.T) {
	m := pemesh.NewMesh(2)
	e0 := m.Endpoint(0)
	_, err := e0.Recv(context.Background(), 5)
	require.ErrorIs(t, err, pemesh.ErrBadPeer)
}

func TestAllToAllExchangesCounts(t *testing.T) {
	const p = 4
	m := pemesh.NewMesh(p)
	ctx := context.Background()

	results := make([][]int, p)
	var wg sync.WaitGroup
	for pe := 0; pe < p; pe++ {
		pe := pe
		wg.Add(1)
		go func() {
			defer wg.Done()
			send := make([]int, p)
			for j := range send {
				send[j] = pe*10 + j
			}
			recv, err := m.Endpoint(pe).AllToAll(ctx, send)
			require.NoError(t, err)
			results[pe] = recv
		}()
	}
	wg.Wait()

	for pe := 0; pe < p; pe++ {
		for j := 0; j < p; j++ {
			require.Equal(t, j*10+pe, results[pe][j])
		}
	}
}

func TestAllReduceSumAndMax(t *testing.T) {
	const p = 3
	m := pemesh.NewMesh(p)
	ctx := context.Background()

	sums := make([]int, p)
	maxes := make([]int, p)
	var wg sync.WaitGroup
	values := []int{5, 1, 9}
	for pe := 0; pe < p; pe++ {
		pe := pe
		wg.Add(1)
		go func() {
			defer wg.Done()
			ep := m.Endpoint(pe)
			s, err := ep.AllReduceSum(ctx, values[pe])
			require.NoError(t, err)
			sums[pe] = s
			mx, err := ep.AllReduceMax(ctx, values[pe])
			require.NoError(t, err)
			maxes[pe] = mx
		}()
	}
	wg.Wait()

	for pe := 0; pe < p; pe++ {
		require.Equal(t, 15, sums[pe])
		require.Equal(t, 9, maxes[pe])
	}
}

func TestBarrierReleasesAllAtOnce(t *testing.T) {
	const p = 3
	m := pemesh.NewMesh(p)
	ctx := context.Background()

	var mu sync.Mutex
	arrived := 0
	var wg sync.WaitGroup
	for pe := 0; pe < p; pe++ {
		pe := pe
		wg.Add(1)
		go func() {
			defer wg.Done()
			if pe == 0 {
				time.Sleep(5 * time.Millisecond)
			}
			require.NoError(t, m.Endpoint(pe).Barrier(ctx))
			mu.Lock()
			arrived++
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, p, arrived)
}

func TestSendRespectsContextCancellation(t *testing.T) {
	m := pemesh.NewMesh(2)
	ctx, cancel := context.WithCancel(context.Background())
	e0 := m.Endpoint(0)

	// fill the single-slot buffer so the next send must block on ctx.
	require.NoError(t, e0.Send(context.Background(), 1, 1))
	cancel()
	err := e0.Send(ctx, 1, 2)
	require.ErrorIs(t, err, pemesh.ErrCommFailed)
}
