package sale

import (
	"context"

	"github.com/holiman/uint256"
	"tokensale/engine/library"
)

// Initialize configures the sale once. The caller becomes its owner.
func (m *Mind) Initialize(ctx context.Context, caller library.Account, p Params) error {
	return m.execute(ctx, "initialize", caller, func(o *op) error {
		c, err := o.config()
		if err != nil {
			return err
		}
		if c.Initialized {
			return ErrAlreadyInitialized
		}
		if err = validateParams(p); err != nil {
			return err
		}
		if library.IsZeroAccount(m.self) {
			return ErrZeroValueArgumentInjected
		}
		c = Config{
			Initialized:          true,
			Owner:                caller,
			Account:              m.self,
			Token:                p.Token,
			Currency:             p.Currency,
			ClaimToken:           p.ClaimToken,
			PricePerToken:        p.PricePerToken,
			TotalTokensAvailable: p.TotalTokensAvailable,
			VestingSeconds:       p.VestingSeconds,
		}
		if c.VestingEnabled() {
			c.InstantUnlockPercent = p.InstantUnlockPercent
		}
		if err = o.putConfig(c); err != nil {
			return err
		}
		if err = o.putTotal(new(uint256.Int)); err != nil {
			return err
		}
		o.emit(Initialized{
			Owner:                c.Owner,
			Token:                c.Token,
			Currency:             c.Currency,
			ClaimToken:           c.ClaimToken,
			PricePerToken:        c.PricePerToken.Dec(),
			TotalTokensAvailable: c.TotalTokensAvailable.Dec(),
			VestingSeconds:       c.VestingSeconds,
			InstantUnlockPercent: c.InstantUnlockPercent,
		})
		return nil
	})
}

func validateParams(p Params) error {
	if p.PricePerToken.IsZero() {
		return ErrZeroValueArgumentInjected
	}
	if library.IsZeroAccount(p.Token) || library.IsZeroAccount(p.Currency) {
		return ErrZeroValueArgumentInjected
	}
	if p.TotalTokensAvailable.IsZero() {
		return ErrZeroValueArgumentInjected
	}
	if p.VestingSeconds != 0 {
		if p.VestingSeconds < MinVestingSeconds {
			return ErrVestingLengthTooShort
		}
		if p.VestingSeconds > MaxVestingSeconds {
			return ErrVestingLengthTooLong
		}
		if p.InstantUnlockPercent > PercentScale {
			return ErrInvalidPercentage
		}
	}
	if library.IsZeroAccount(p.ClaimToken) {
		return ErrZeroValueArgumentInjected
	}
	return fitsArithmetic(&p.TotalTokensAvailable, &p.PricePerToken)
}

// fitsArithmetic rejects a configuration whose largest purchase cost or
// largest scaled rate would not fit in 256 bits.
func fitsArithmetic(total, price *uint256.Int) error {
	if _, err := checkedMul(total, price); err != nil {
		return err
	}
	if _, err := checkedMul(total, uint256.NewInt(RateScale)); err != nil {
		return err
	}
	return nil
}
