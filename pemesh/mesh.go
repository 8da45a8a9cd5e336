// SPDX-License-Identifier: MIT
package pemesh

import (
	"context"
	"fmt"
	"sync"
)

// Mesh is a fixed-size, in-process group of PEs connected by one
// point-to-point channel per ordered (sender,receiver) pair, plus shared
// state for the all-reduce (T_TERM) and barrier collectives; the
// all-to-all (T_PLAN) runs over the point-to-point channels. Every PE's
// Endpoint is obtained once, up
// front, via Mesh.Endpoint; from then on each PE goroutine talks to the
// mesh only through its own Endpoint — mirrors spec.md §5's "per-PE,
// exclusively owned" resource policy for everything but the transport
// itself.
type Mesh struct {
	n     int
	links [][]chan any // links[from][to], nil on the diagonal

	mu           sync.Mutex
	reduceSum    float64
	reduceCount  int
	reduceDone   chan struct{}
	lastReduce   float64
	barrierCount int
	barrierDone  chan struct{}
}

// NewMesh allocates a Mesh for n PEs. Each ordered pair (i,j), i != j,
// gets its own buffered channel so a send never blocks waiting for the
// matching receive to be posted first — spec.md §4.6's "receives are
// issued asynchronously before sending to prevent deadlock" is honored
// by buffering here instead of requiring a particular call order,
// which is the Go-idiomatic equivalent (a buffered channel IS an
// asynchronous post).
func NewMesh(n int) *Mesh {
	if n <= 0 {
		panic("pemesh.NewMesh: n must be > 0")
	}
	links := make([][]chan any, n)
	for i := range links {
		links[i] = make([]chan any, n)
		for j := range links[i] {
			if i != j {
				links[i][j] = make(chan any, 1)
			}
		}
	}
	return &Mesh{
		n:           n,
		links:       links,
		reduceDone:  make(chan struct{}),
		barrierDone: make(chan struct{}),
	}
}

// N returns the number of PEs in the mesh.
func (m *Mesh) N() int { return m.n }

// Endpoint returns PE pe's handle onto the mesh. Panics if pe is out of
// range: constructing an endpoint for a nonexistent PE is a programmer
// error in the caller that builds the PE goroutines, not a runtime
// condition.
func (m *Mesh) Endpoint(pe int) *Endpoint {
	if pe < 0 || pe >= m.n {
		panic(fmt.Sprintf("pemesh.Endpoint: pe=%d out of range [0,%d)", pe, m.n))
	}
	return &Endpoint{mesh: m, pe: pe}
}

// Endpoint is the per-PE handle onto a Mesh; spec.md §5 assigns exactly
// one to each PE and no other PE ever touches it.
type Endpoint struct {
	mesh *Mesh
	pe   int
}

// PE returns this endpoint's own PE index.
func (e *Endpoint) PE() int { return e.pe }

// Send delivers payload to PE `to`, blocking until the channel accepts it
// or ctx is canceled. Sending to oneself is a programmer error (no PE
// ever needs to message itself in this protocol) and panics rather than
// silently succeeding.
func (e *Endpoint) Send(ctx context.Context, to int, payload any) error {
	if to == e.pe {
		panic("pemesh.Endpoint.Send: cannot send to self")
	}
	if to < 0 || to >= e.mesh.n {
		return fmt.Errorf("pemesh.Send(to=%d): %w", to, ErrBadPeer)
	}
	select {
	case e.mesh.links[e.pe][to] <- payload:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pemesh.Send(%d->%d): %w", e.pe, to, ErrCommFailed)
	}
}

// Recv blocks until a payload sent by PE `from` is available or ctx is
// canceled.
func (e *Endpoint) Recv(ctx context.Context, from int) (any, error) {
	if from < 0 || from >= e.mesh.n {
		return nil, fmt.Errorf("pemesh.Recv(from=%d): %w", from, ErrBadPeer)
	}
	select {
	case v := <-e.mesh.links[from][e.pe]:
		return v, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("pemesh.Recv(%d<-%d): %w", e.pe, from, ErrCommFailed)
	}
}

// AllToAll realizes spec.md §4.4's "all-to-all exchange of per-neighbor
// counts": send[j] is what this PE announces to PE j (T_PLAN), and the
// returned slice's [j] entry is what PE j announced to this PE. Every PE
// in the mesh must call AllToAll concurrently, exactly once per level,
// for this to complete.
func (e *Endpoint) AllToAll(ctx context.Context, send []int) ([]int, error) {
	if len(send) != e.mesh.n {
		panic("pemesh.AllToAll: send must have one entry per PE")
	}
	recv := make([]int, e.mesh.n)
	recv[e.pe] = send[e.pe]

	errCh := make(chan error, 2*e.mesh.n)
	var wg sync.WaitGroup
	for j := 0; j < e.mesh.n; j++ {
		if j == e.pe {
			continue
		}
		wg.Add(1)
		go func(j int) {
			defer wg.Done()
			if err := e.sendNoSelfCheck(ctx, j, send[j]); err != nil {
				errCh <- err
			}
		}(j)
	}
	for j := 0; j < e.mesh.n; j++ {
		if j == e.pe {
			continue
		}
		v, err := e.Recv(ctx, j)
		if err != nil {
			errCh <- err
			continue
		}
		recv[j] = v.(int)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	return recv, nil
}

// sendNoSelfCheck is Send without the self-send panic guard, used
// internally by AllToAll which already skips j==pe itself.
func (e *Endpoint) sendNoSelfCheck(ctx context.Context, to int, payload any) error {
	select {
	case e.mesh.links[e.pe][to] <- payload:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pemesh.AllToAll(%d->%d): %w", e.pe, to, ErrCommFailed)
	}
}

// AllReduceSum realizes spec.md §6's T_TERM: every PE contributes value
// (its ntogo), and every PE receives the same global sum (GlobalSESum).
func (e *Endpoint) AllReduceSum(ctx context.Context, value int) (int, error) {
	v, err := e.mesh.allReduce(ctx, float64(value), sumReduce)
	return int(v), err
}

// AllReduceMax realizes spec.md §4.4's GlobalSEMax(ntogo);
// ComputeCommInfo records its result as CommPlan.MaxNToGo (maxntogo).
func (e *Endpoint) AllReduceMax(ctx context.Context, value int) (int, error) {
	v, err := e.mesh.allReduce(ctx, float64(value), maxReduce)
	return int(v), err
}

func sumReduce(acc, v float64) float64 {
	return acc + v
}

func maxReduce(acc, v float64) float64 {
	if v > acc {
		return v
	}
	return acc
}

// allReduce is a generic counting-barrier reduction: the last of n
// arrivals computes the combined value and wakes everyone else up.
// combine is applied pairwise starting from the first contribution in
// each generation (so it must be commutative/associative — sum and max
// both are).
func (m *Mesh) allReduce(ctx context.Context, value float64, combine func(acc, v float64) float64) (float64, error) {
	m.mu.Lock()
	if m.reduceCount == 0 {
		m.reduceSum = value
	} else {
		m.reduceSum = combine(m.reduceSum, value)
	}
	m.reduceCount++
	if m.reduceCount == m.n {
		m.lastReduce = m.reduceSum
		m.reduceCount = 0
		m.reduceSum = 0
		done := m.reduceDone
		m.reduceDone = make(chan struct{})
		m.mu.Unlock()
		close(done)
		return m.lastReduce, nil
	}
	done := m.reduceDone
	m.mu.Unlock()

	select {
	case <-done:
		m.mu.Lock()
		res := m.lastReduce
		m.mu.Unlock()
		return res, nil
	case <-ctx.Done():
		return 0, fmt.Errorf("pemesh.allReduce: %w", ErrCommFailed)
	}
}

// Barrier blocks the calling PE until every PE in the mesh has called
// Barrier for this generation. The level driver does not call it: the
// boundary between row exchange and reduction comes from Exchange, which
// returns only after every receive it posted has completed.
func (e *Endpoint) Barrier(ctx context.Context) error {
	m := e.mesh
	m.mu.Lock()
	m.barrierCount++
	if m.barrierCount == m.n {
		m.barrierCount = 0
		done := m.barrierDone
		m.barrierDone = make(chan struct{})
		m.mu.Unlock()
		close(done)
		return nil
	}
	done := m.barrierDone
	m.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pemesh.Barrier: %w", ErrCommFailed)
	}
}
