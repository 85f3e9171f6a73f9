package externalapi

import "testing"

func TestAmountAddOverflow(t *testing.T) {
	if _, err := Amount(MaxAmount).Add(1); err == nil {
		t.Error("expected an error adding past MaxAmount")
	}
	if _, err := Amount(-MaxAmount).Add(-1); err == nil {
		t.Error("expected an error subtracting past -MaxAmount")
	}
}

func TestAmountAddWithinRange(t *testing.T) {
	got, err := Amount(100).Add(50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 150 {
		t.Errorf("got %d, want 150", got)
	}
}

func TestAmountSub(t *testing.T) {
	got, err := Amount(100).Sub(30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 70 {
		t.Errorf("got %d, want 70", got)
	}
}

func TestAmountNonNegative(t *testing.T) {
	if err := Amount(0).NonNegative(); err != nil {
		t.Errorf("zero should be non-negative: %v", err)
	}
	if err := Amount(-1).NonNegative(); err == nil {
		t.Error("expected an error for a negative amount")
	}
}

func TestValueBalanceRemainingTransactionValue(t *testing.T) {
	vb := NewValueBalance()
	if err := vb.AddTransparentInput(100_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := vb.AddTransparentOutput(60_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := vb.AddShieldedValueBalance(-30_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fee, err := vb.RemainingTransactionValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee != 10_000 {
		t.Errorf("got fee %d, want 10000", fee)
	}
}

func TestValueBalanceOverflowPropagates(t *testing.T) {
	vb := NewValueBalance()
	if err := vb.AddTransparentInput(MaxAmount); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := vb.AddTransparentInput(MaxAmount); err == nil {
		t.Error("expected an overflow error adding a second MaxAmount input")
	}
}
