package parallel

import "sync"
import "sync/atomic"

// LoopStopper is an interface to check if the loop should stop.
type LoopStopper interface {

	// Load reports true if the loop should stop.
	Load() bool
}

// Loop represents the number of goroutines to run.
type Loop int

// LoopUntil starts l goroutines that share the counter 0..limit-1. Each
// index is processed exactly once until yield returns true for one of them,
// which stops the others as soon as they check the stopper.
// It reports whether the loop was stopped by yield.
func (l Loop) LoopUntil(limit uint32, yield func(i uint32, ender LoopStopper) bool) bool {
	var (
		i     atomic.Uint32
		ender atomic.Bool
		found atomic.Bool
		wg    sync.WaitGroup
	)
	if l < 1 {
		l = 1
	}

	for n := 0; n < int(l); n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !ender.Load() {
				current := i.Add(1) - 1
				if current >= limit {
					return
				}
				if yield(current, &ender) {
					found.Store(true)
					ender.Store(true)
					return
				}
			}
		}()
	}

	wg.Wait()
	return found.Load()
}
