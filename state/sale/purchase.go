package sale

import (
	"context"

	"github.com/holiman/uint256"
	"tokensale/engine/library"
)

// Purchase buys amount tokens for caller at the current price. The cost is
// pulled from caller to the owner on the currency ledger.
func (m *Mind) Purchase(ctx context.Context, caller library.Account, amount *uint256.Int) error {
	return m.execute(ctx, "purchase", caller, func(o *op) error {
		c, err := o.initializedConfig()
		if err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return ErrZeroValueArgumentInjected
		}
		p, err := o.purchaser(caller)
		if err != nil {
			return err
		}
		if !p.TokensPurchased.IsZero() {
			return ErrOnlyOnePurchase
		}
		total, err := o.total()
		if err != nil {
			return err
		}
		newTotal, err := checkedAdd(total, amount)
		if err != nil || newTotal.Gt(&c.TotalTokensAvailable) {
			return ErrSoldOut
		}
		cost, err := checkedMul(amount, &c.PricePerToken)
		if err != nil {
			return err
		}
		p.TokensPurchased.Set(amount)
		p.PurchasedAt = o.now
		if err = o.putPurchaser(p); err != nil {
			return err
		}
		if err = o.putTotal(newTotal); err != nil {
			return err
		}
		o.emit(Purchased{Account: caller, Amount: amount.Dec(), Cost: cost.Dec()})
		return m.transferFrom(o, c.Currency, caller, c.Owner, cost)
	})
}
