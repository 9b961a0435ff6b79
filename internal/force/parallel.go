package force

import "sync"

// minChunk is the smallest per-worker node range worth a goroutine.
const minChunk = 64

// forRange runs fn over [0, n), fanned out across e.Workers goroutines
// when parallelism is enabled and the range is large enough to pay for
// it. It returns only after every chunk completes, which is the barrier
// between phases.
func (e *Engine) forRange(n int, fn func(start, end int)) {
	workers := e.Workers
	if workers <= 1 || n < 2*minChunk {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(s, t int) {
			defer wg.Done()
			fn(s, t)
		}(start, end)
	}
	wg.Wait()
}
