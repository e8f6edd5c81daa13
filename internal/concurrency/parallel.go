// Package concurrency runs bounded worker pools over slices.
package concurrency

import (
	"context"
	"sync"
)

// Options bounds a worker pool.
type Options struct {
	// MaxWorkers caps the goroutines in flight. <=0 means DefaultWorkers.
	MaxWorkers int
}

const DefaultWorkers = 4

func DefaultOptions() Options {
	return Options{MaxWorkers: DefaultWorkers}
}

func (o Options) workers(n int) int {
	w := o.MaxWorkers
	if w <= 0 {
		w = DefaultWorkers
	}
	if w > n {
		w = n
	}
	return w
}

// Map calls fn for every item on a bounded pool and returns the results in
// input order. errs[i] is fn's error for items[i]. Items not started before
// ctx is done get ctx.Err().
func Map[T any, R any](
	ctx context.Context,
	items []T,
	opts Options,
	fn func(ctx context.Context, index int, item T) (R, error),
) (results []R, errs []error) {
	results = make([]R, len(items))
	errs = make([]error, len(items))
	if len(items) == 0 {
		return results, errs
	}

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < opts.workers(len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = fn(ctx, i, items[i])
			}
		}()
	}
	wg.Wait()

	return results, errs
}

// ForEach calls fn for every item on a bounded pool and returns the non-nil
// errors in completion order. Items not started before ctx is done are
// skipped.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts Options,
	fn func(ctx context.Context, index int, item T) error,
) []error {
	if len(items) == 0 {
		return nil
	}

	jobs := make(chan int, len(items))
	errCh := make(chan error, len(items))

	var wg sync.WaitGroup
	for w := 0; w < opts.workers(len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					if err := fn(ctx, i, items[i]); err != nil {
						errCh <- err
					}
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(errCh)

	var out []error
	for err := range errCh {
		out = append(out, err)
	}
	return out
}
