package tracking

import (
	"context"
	"sync"
)

// Sweep evaluates fn for every job index in parallel and waits for all of
// them. Each call must be self-contained: jobs write only to their own
// index of caller-owned result slices. The first error encountered in
// index order is returned; a canceled context aborts jobs that have not
// started.
func Sweep(ctx context.Context, n int, fn func(i int) error) error {
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			errs[idx] = fn(idx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
