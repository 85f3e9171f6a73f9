package externalapi

import (
	"errors"
	"testing"
)

func TestTransactionErrorMessage(t *testing.T) {
	err := NewTransactionError(ErrNoInputs, "transaction %s has no inputs", "abc")
	want := "NoInputs: transaction abc has no inputs"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestTransactionErrorEmptyMessage(t *testing.T) {
	err := NewTransactionError(ErrWrongVersion, "")
	if err.Error() != "WrongVersion" {
		t.Errorf("got %q, want bare kind string", err.Error())
	}
}

func TestTransactionErrorIsMatchesByKind(t *testing.T) {
	a := NewTransactionError(ErrKomodoAbsurdFee, "fee too high")
	b := NewTransactionError(ErrKomodoAbsurdFee, "a completely different message")
	c := NewTransactionError(ErrKomodoLowFeeLimit, "")

	if !errors.Is(a, b) {
		t.Error("two TransactionErrors with the same kind should match via errors.Is")
	}
	if errors.Is(a, c) {
		t.Error("TransactionErrors with different kinds should not match")
	}
}

func TestTransactionErrorKindStringUnknown(t *testing.T) {
	var k TransactionErrorKind = 999
	if k.String() == "" {
		t.Error("an unknown kind should still render a non-empty string")
	}
}
