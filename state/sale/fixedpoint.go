package sale

import (
	"github.com/holiman/uint256"
)

// RateScale is the fixed-point scale of the per-second unlock rate.
const RateScale uint64 = 1_000_000_000_000

// PercentScale is 100% for the instant unlock percentage (three decimals).
const PercentScale uint64 = 100_000

// All helpers truncate toward zero and report overflow instead of wrapping.

func checkedAdd(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

func checkedSub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

func checkedMul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// unlockRate is tokens per second multiplied by RateScale.
func unlockRate(tokens *uint256.Int, seconds uint64) (*uint256.Int, error) {
	if seconds == 0 {
		return nil, ErrVestingNotEnabled
	}
	scaled, err := checkedMul(tokens, uint256.NewInt(RateScale))
	if err != nil {
		return nil, err
	}
	return scaled.Div(scaled, uint256.NewInt(seconds)), nil
}

// unlockedOver descales rate × elapsed. The truncation error of a single
// call is below one token.
func unlockedOver(rate *uint256.Int, elapsed uint64) (*uint256.Int, error) {
	z, err := checkedMul(rate, uint256.NewInt(elapsed))
	if err != nil {
		return nil, err
	}
	return z.Div(z, uint256.NewInt(RateScale)), nil
}

// percentOf returns amount × percent / PercentScale.
func percentOf(amount *uint256.Int, percent uint64) (*uint256.Int, error) {
	if percent == 0 {
		return new(uint256.Int), nil
	}
	z, err := checkedMul(amount, uint256.NewInt(percent))
	if err != nil {
		return nil, err
	}
	return z.Div(z, uint256.NewInt(PercentScale)), nil
}

func minInt(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int).Set(a)
	}
	return new(uint256.Int).Set(b)
}
