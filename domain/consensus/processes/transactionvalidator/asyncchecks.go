package transactionvalidator

import (
	"context"
	"sync"
	"sync/atomic"
)

// AsyncCheck is a single pending verification future: a script check, a
// proof check, or a signature check, each run as an independent
// goroutine.
type AsyncCheck func(ctx context.Context) error

// AsyncChecks is an unordered pool of pending AsyncCheck futures. It
// completes successfully only when every pushed check succeeds; the
// first check to fail cancels the ones still outstanding via ctx and
// is the error Check returns (spec §4.7, §8 "AsyncChecks = a.and(b)").
type AsyncChecks struct {
	checks []AsyncCheck
}

// NewAsyncChecks returns an empty AsyncChecks set.
func NewAsyncChecks() *AsyncChecks {
	return &AsyncChecks{}
}

// Push appends a single check to the set.
func (a *AsyncChecks) Push(check AsyncCheck) {
	a.checks = append(a.checks, check)
}

// And extends the receiver with every check in other, returning the
// receiver for fluent chaining (spec §4.7 "extend by another
// AsyncChecks").
func (a *AsyncChecks) And(other *AsyncChecks) *AsyncChecks {
	a.checks = append(a.checks, other.checks...)
	return a
}

// Len reports how many checks are pending.
func (a *AsyncChecks) Len() int {
	return len(a.checks)
}

// Check awaits every pending check. It returns nil only if all succeed;
// on the first failure it cancels the shared context (dropping the
// remaining in-flight checks to release their resources, per spec §9's
// "avoid shared mutable accumulators; errors are surfaced by the pool
// itself") and returns that first error. Completion order is not
// observable; only the first reported error is.
func (a *AsyncChecks) Check(ctx context.Context) error {
	if len(a.checks) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(len(a.checks))

	errChan := make(chan error, 1)
	var reported uint32

	for _, check := range a.checks {
		check := check
		spawn(func() {
			defer wg.Done()
			if err := check(ctx); err != nil {
				if atomic.AddUint32(&reported, 1) == 1 {
					errChan <- err
				}
			}
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-errChan:
		cancel()
		<-done
		return err
	case <-done:
		return nil
	}
}
