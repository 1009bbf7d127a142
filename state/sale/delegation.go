package sale

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"tokensale/engine/library"
)

// EnableDelegation binds the caller's remaining claims to claimTokenID.
// From then on only the holder of that token can claim, and the binding
// cannot be changed.
func (m *Mind) EnableDelegation(ctx context.Context, caller library.Account, claimTokenID *uint256.Int) error {
	return m.execute(ctx, "enable delegation", caller, func(o *op) error {
		c, err := o.initializedConfig()
		if err != nil {
			return err
		}
		if !c.VestingEnabled() {
			return ErrVestingNotEnabled
		}
		p, err := o.purchaser(caller)
		if err != nil {
			return err
		}
		if p.TokensPurchased.IsZero() {
			return ErrNoTokensVested
		}
		if p.Delegated() {
			return ErrAlreadyTokenized
		}
		if claimTokenID == nil || claimTokenID.IsZero() {
			return ErrZeroValueArgumentInjected
		}
		if !p.TokensClaimed.Lt(&p.TokensPurchased) {
			return ErrAllTokensClaimed
		}
		p.ClaimTokenID.Set(claimTokenID)
		if err = o.putPurchaser(p); err != nil {
			return err
		}
		o.emit(DelegationEnabled{Account: caller, ClaimTokenID: claimTokenID.Dec()})
		return nil
	})
}

// claimTokenHolder asks the registry who holds id. Any failure resolves to
// the zero account, which never matches a caller.
func (m *Mind) claimTokenHolder(o *op, c Config, id *uint256.Int) library.Account {
	if id.IsZero() {
		return library.ZeroAccount
	}
	registry, err := m.assets.ClaimTokens(c.ClaimToken)
	if err != nil {
		library.LogCLI(fmt.Sprintf("claim token registry %s: %s", c.ClaimToken, err), 2)
		return library.ZeroAccount
	}
	owner, err := registry.OwnerOf(o.ctx, id)
	if err != nil {
		library.LogCLI(fmt.Sprintf("owner of claim token %s: %s", id.Dec(), err), 3)
		return library.ZeroAccount
	}
	return owner
}
