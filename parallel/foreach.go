// Package parallel contains parallel LoopUntil and ForEach plus the order independent output Hasher.
package parallel

import "sync"

// ForEach executes body for 0..length-1 with at most limit concurrent goroutines.
// A limit of zero or below means 1.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}
