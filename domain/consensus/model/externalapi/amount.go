package externalapi

import "github.com/pkg/errors"

// Amount represents a signed quantity of zatoshi (the base Zcash/Komodo
// unit). Arithmetic on Amount is checked: overflow and underflow of the
// int64 range are hard errors rather than silent wraparound.
type Amount int64

// MaxAmount is the maximum number of zatoshi that may ever exist.
const MaxAmount = 21_000_000 * 100_000_000

// Add returns a+b, or an error if the result overflows int64 or exceeds
// MaxAmount in absolute value.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, errors.Errorf("amount overflow: %d + %d", a, b)
	}
	if sum > MaxAmount || sum < -MaxAmount {
		return 0, errors.Errorf("amount out of range: %d", sum)
	}
	return sum, nil
}

// Sub returns a-b, or an error on overflow/out-of-range, per Add.
func (a Amount) Sub(b Amount) (Amount, error) {
	return a.Add(-b)
}

// NonNegative returns an error if a is negative. Used wherever the model
// requires a non-negative amount (e.g. transparent output values).
func (a Amount) NonNegative() error {
	if a < 0 {
		return errors.Errorf("amount must be non-negative: %d", a)
	}
	return nil
}

// ValueBalance accumulates signed amounts across a transaction's
// transparent and shielded value flows and reports the miner fee that
// remains once every flow is summed to zero-sum.
type ValueBalance struct {
	transparentIn  Amount
	transparentOut Amount
	shieldedValue  Amount
}

// NewValueBalance returns a zeroed ValueBalance accumulator.
func NewValueBalance() *ValueBalance {
	return &ValueBalance{}
}

// AddTransparentInput adds a resolved transparent input value.
func (vb *ValueBalance) AddTransparentInput(amount Amount) error {
	sum, err := vb.transparentIn.Add(amount)
	if err != nil {
		return errors.Wrap(err, "transparent input value overflow")
	}
	vb.transparentIn = sum
	return nil
}

// AddTransparentOutput adds a transaction's declared transparent output
// value.
func (vb *ValueBalance) AddTransparentOutput(amount Amount) error {
	sum, err := vb.transparentOut.Add(amount)
	if err != nil {
		return errors.Wrap(err, "transparent output value overflow")
	}
	vb.transparentOut = sum
	return nil
}

// AddShieldedValueBalance adds the net value that a shielded bundle
// (Sprout/Sapling/Orchard) moves into the transparent pool. A negative
// value indicates value moving into the shielded pool.
func (vb *ValueBalance) AddShieldedValueBalance(amount Amount) error {
	sum, err := vb.shieldedValue.Add(amount)
	if err != nil {
		return errors.Wrap(err, "shielded value balance overflow")
	}
	vb.shieldedValue = sum
	return nil
}

// RemainingTransactionValue is the miner fee: everything that flowed in
// (transparent inputs, net shielded value released) minus everything
// that flowed out (transparent outputs). A non-coinbase transaction
// with a negative remainder has an invalid (negative) fee.
func (vb *ValueBalance) RemainingTransactionValue() (Amount, error) {
	in, err := vb.transparentIn.Add(vb.shieldedValue)
	if err != nil {
		return 0, errors.Wrap(err, "value balance overflow")
	}
	fee, err := in.Sub(vb.transparentOut)
	if err != nil {
		return 0, errors.Wrap(err, "value balance overflow")
	}
	return fee, nil
}
