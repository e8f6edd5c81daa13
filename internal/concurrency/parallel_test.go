package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxWorkers != DefaultWorkers {
		t.Errorf("Expected MaxWorkers to be %d, got %d", DefaultWorkers, opts.MaxWorkers)
	}
}

func TestMap(t *testing.T) {
	ctx := context.Background()

	results, errs := Map(ctx, []int{}, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		return "", nil
	})
	if len(results) != 0 || len(errs) != 0 {
		t.Errorf("Expected empty output for empty input, got %v %v", results, errs)
	}

	input := []int{1, 2, 3, 4, 5}
	results, errs = Map(ctx, input, Options{MaxWorkers: 2}, func(ctx context.Context, index int, item int) (string, error) {
		if item%2 == 0 {
			return "", errors.New("even number error")
		}
		return string(rune('a' + item - 1)), nil
	})
	expected := []string{"a", "", "c", "", "e"}
	for i := range input {
		if results[i] != expected[i] {
			t.Errorf("Expected result at index %d to be %q, got %q", i, expected[i], results[i])
		}
		if (errs[i] != nil) != (input[i]%2 == 0) {
			t.Errorf("Unexpected error at index %d: %v", i, errs[i])
		}
	}
}

func TestMapOrder(t *testing.T) {
	input := []int{5, 3, 1, 4, 2}

	results, _ := Map(context.Background(), input, DefaultOptions(), func(ctx context.Context, index int, item int) (int, error) {
		time.Sleep(time.Duration(item) * 5 * time.Millisecond)
		return item, nil
	})

	for i, res := range results {
		if res != input[i] {
			t.Errorf("Expected result at index %d to be %d, got %d", i, input[i], res)
		}
	}
}

func TestMapCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	_, errs := Map(ctx, []int{1, 2, 3}, DefaultOptions(), func(ctx context.Context, index int, item int) (int, error) {
		calls.Add(1)
		return item, nil
	})

	if calls.Load() != 0 {
		t.Errorf("Expected no calls after cancellation, got %d", calls.Load())
	}
	for i, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled at index %d, got %v", i, err)
		}
	}
}

func TestForEach(t *testing.T) {
	ctx := context.Background()

	if errs := ForEach(ctx, []int{}, DefaultOptions(), func(ctx context.Context, index int, item int) error {
		return nil
	}); errs != nil {
		t.Errorf("Expected nil errors for empty input, got %v", errs)
	}

	input := []int{1, 2, 3, 4, 5}
	results := make([]string, len(input))
	errs := ForEach(ctx, input, DefaultOptions(), func(ctx context.Context, index int, item int) error {
		results[index] = string(rune('a' + item - 1))
		return nil
	})
	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %d", len(errs))
	}
	for i, want := range []string{"a", "b", "c", "d", "e"} {
		if results[i] != want {
			t.Errorf("Expected result at index %d to be %s, got %s", i, want, results[i])
		}
	}

	errs = ForEach(ctx, input, Options{MaxWorkers: -1}, func(ctx context.Context, index int, item int) error {
		if item%2 == 0 {
			return errors.New("even number error")
		}
		return nil
	})
	if len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(errs))
	}

	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()
	errs = ForEach(cancelCtx, input, DefaultOptions(), func(ctx context.Context, index int, item int) error {
		return errors.New("should not run")
	})
	if len(errs) != 0 {
		t.Errorf("Expected no errors with cancelled context, got %d", len(errs))
	}
}

func TestForEachBoundsWorkers(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 12)

	ForEach(context.Background(), items, Options{MaxWorkers: 3}, func(ctx context.Context, index int, item int) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})

	if peak.Load() > 3 {
		t.Errorf("Expected at most 3 workers in flight, saw %d", peak.Load())
	}
}
