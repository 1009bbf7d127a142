package sale

import (
	"context"

	"github.com/holiman/uint256"
	"tokensale/engine/library"
)

// ClaimDirect releases the caller's vested tokens to the caller. Purchasers
// who enabled delegation must claim through the claim token instead.
func (m *Mind) ClaimDirect(ctx context.Context, caller library.Account) (released *uint256.Int, err error) {
	err = m.execute(ctx, "claim", caller, func(o *op) error {
		c, err := o.initializedConfig()
		if err != nil {
			return err
		}
		p, err := o.purchaser(caller)
		if err != nil {
			return err
		}
		if p.Delegated() {
			return ErrAlreadyTokenized
		}
		released, err = m.claimFor(o, c, caller, caller)
		return err
	})
	return
}

// ClaimAsDelegate releases purchaser's vested tokens to the caller, who must
// hold purchaser's claim token.
func (m *Mind) ClaimAsDelegate(ctx context.Context, caller, purchaser library.Account) (released *uint256.Int, err error) {
	err = m.execute(ctx, "claim as delegate", caller, func(o *op) error {
		c, err := o.initializedConfig()
		if err != nil {
			return err
		}
		p, err := o.purchaser(purchaser)
		if err != nil {
			return err
		}
		holder := m.claimTokenHolder(o, c, &p.ClaimTokenID)
		if library.IsZeroAccount(holder) || holder != caller {
			return ErrOnlyOwner
		}
		released, err = m.claimFor(o, c, purchaser, caller)
		return err
	})
	return
}

// ClaimUnlocked releases everything the caller bought when the sale has no
// vesting schedule.
func (m *Mind) ClaimUnlocked(ctx context.Context, caller library.Account) (released *uint256.Int, err error) {
	err = m.execute(ctx, "claim unlocked", caller, func(o *op) error {
		c, err := o.initializedConfig()
		if err != nil {
			return err
		}
		if c.VestingEnabled() {
			return ErrTokensAreVested
		}
		p, err := o.purchaser(caller)
		if err != nil {
			return err
		}
		if !p.TokensClaimed.IsZero() {
			return ErrAllTokensClaimed
		}
		if p.TokensPurchased.IsZero() {
			return ErrNoTokensPurchased
		}
		amount := new(uint256.Int).Set(&p.TokensPurchased)
		p.TokensClaimed.Set(amount)
		p.ClaimedAt = o.now
		if err = o.putPurchaser(p); err != nil {
			return err
		}
		o.emit(Claimed{Account: caller, Recipient: caller, Amount: amount.Dec()})
		if err = m.transfer(o, c.Token, caller, amount); err != nil {
			return err
		}
		released = amount
		return nil
	})
	return
}
