package sale

import (
	"context"

	"github.com/holiman/uint256"
	"tokensale/engine/library"
)

// UpdatePrice changes the price of future purchases. Owner only.
func (m *Mind) UpdatePrice(ctx context.Context, caller library.Account, price *uint256.Int) error {
	return m.execute(ctx, "update price", caller, func(o *op) error {
		c, err := o.initializedConfig()
		if err != nil {
			return err
		}
		if caller != c.Owner {
			return ErrOnlyOwner
		}
		if price == nil || price.IsZero() {
			return ErrZeroValueArgumentInjected
		}
		if err = fitsArithmetic(&c.TotalTokensAvailable, price); err != nil {
			return err
		}
		c.PricePerToken.Set(price)
		if err = o.putConfig(c); err != nil {
			return err
		}
		o.emit(PriceUpdated{PricePerToken: price.Dec()})
		return nil
	})
}

func (m *Mind) Owner() (owner library.Account, err error) {
	err = m.view(func(o *op) error {
		c, err := o.initializedConfig()
		owner = c.Owner
		return err
	})
	return
}
