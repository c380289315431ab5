package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	dErrors "kanadia/pkg/domain-errors"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes  int32
	Errors     int32
	BadFormats int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.BadFormats
}

// RunConcurrent executes fn in parallel goroutines and counts outcomes.
// Errors coded CodeBadFormat are counted apart from other failures.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, badFormats atomic.Int32

	for i := range goroutines {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := fn(idx)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, &dErrors.Error{Code: dErrors.CodeBadFormat}):
				badFormats.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes:  successes.Load(),
		Errors:     errs.Load(),
		BadFormats: badFormats.Load(),
	}
}
