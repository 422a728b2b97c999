// Package joinpool is an additive convenience (spec.md §5's concurrency
// model made concrete): fan a batch of independent probe blocks out
// across a bounded goroutine pool and join each against the same
// HashJoin, relying on the engine's relaxed/CAS used-flag atomics for
// correctness under concurrent probing.
//
// Grounded on the teacher's use of github.com/panjf2000/ants for bounded
// background task pools, adopted here as the pack's answer to "pool of
// goroutines doing bounded concurrent work" instead of an unbounded
// sync.WaitGroup fan-out.
package joinpool

import (
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/arenadata/colhashjoin/pkg/container/batch"
	"github.com/arenadata/colhashjoin/pkg/join"
	"github.com/arenadata/colhashjoin/pkg/join/crossjoin"
	"github.com/arenadata/colhashjoin/pkg/logutil"
)

// Result pairs a probe block's output with its originating index, since
// the pool completes tasks out of submission order.
type Result struct {
	Index int
	Block *batch.Batch
	Err   error
}

// ProbeAll joins every block in probes against h, using at most
// poolSize concurrent workers (ants.DefaultAntsPoolSize if poolSize<=0).
// Results are returned in the same order as probes regardless of
// completion order.
func ProbeAll(h *join.HashJoin, probes []*batch.Batch, poolSize int) ([]Result, error) {
	if poolSize <= 0 {
		poolSize = ants.DefaultAntsPoolSize
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]Result, len(probes))
	var wg sync.WaitGroup
	wg.Add(len(probes))

	for i, p := range probes {
		i, p := i, p
		task := func() {
			defer wg.Done()
			var cont *crossjoin.Continuation
			out, _, err := h.Join(p, cont)
			results[i] = Result{Index: i, Block: out, Err: err}
			if err != nil {
				logutil.Error("probe task failed", zap.Int("index", i), zap.Error(err))
			}
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			results[i] = Result{Index: i, Err: err}
		}
	}

	wg.Wait()
	return results, nil
}
