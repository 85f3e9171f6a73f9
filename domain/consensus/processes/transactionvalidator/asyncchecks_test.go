package transactionvalidator

import (
	"context"
	"testing"

	"github.com/pkg/errors"
)

func TestAsyncChecksAllSucceed(t *testing.T) {
	checks := NewAsyncChecks()
	var ran [5]bool
	for i := range ran {
		i := i
		checks.Push(func(ctx context.Context) error {
			ran[i] = true
			return nil
		})
	}

	if err := checks.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range ran {
		if !v {
			t.Errorf("check %d did not run", i)
		}
	}
}

func TestAsyncChecksFirstFailureWins(t *testing.T) {
	checks := NewAsyncChecks()
	wantErr := errors.New("boom")
	checks.Push(func(ctx context.Context) error { return nil })
	checks.Push(func(ctx context.Context) error { return wantErr })
	checks.Push(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := checks.Check(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestAsyncChecksCancelsOutstandingOnFailure(t *testing.T) {
	checks := NewAsyncChecks()
	canceled := make(chan struct{})

	checks.Push(func(ctx context.Context) error {
		return errors.New("fails immediately")
	})
	checks.Push(func(ctx context.Context) error {
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	})

	if err := checks.Check(context.Background()); err == nil {
		t.Fatal("expected an error")
	}

	select {
	case <-canceled:
	default:
		t.Error("the outstanding check's context should have been canceled")
	}
}

func TestAsyncChecksEmpty(t *testing.T) {
	if err := NewAsyncChecks().Check(context.Background()); err != nil {
		t.Errorf("an empty check set should succeed trivially: %v", err)
	}
}

func TestAsyncChecksAnd(t *testing.T) {
	a := NewAsyncChecks()
	a.Push(func(ctx context.Context) error { return nil })
	b := NewAsyncChecks()
	b.Push(func(ctx context.Context) error { return nil })
	b.Push(func(ctx context.Context) error { return nil })

	combined := a.And(b)
	if combined.Len() != 3 {
		t.Errorf("expected 3 checks after And, got %d", combined.Len())
	}
}
