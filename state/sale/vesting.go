package sale

import (
	"github.com/holiman/uint256"
	"tokensale/engine/library"
)

// Release is the outcome of one claim against a purchaser's schedule.
type Release struct {
	Amount    uint256.Int
	Claimed   uint256.Int // TokensClaimed after the release
	ClaimedAt uint64
}

// computeRelease applies the linear schedule of c to p at now. It does not
// check preconditions.
func computeRelease(c Config, p Purchaser, now uint64) (r Release, err error) {
	remaining := p.Remaining()
	fullUnlock := p.PurchasedAt + c.VestingSeconds
	if now >= fullUnlock {
		r.Amount.Set(remaining)
		r.Claimed.Set(&p.TokensPurchased)
		r.ClaimedAt = fullUnlock
		return r, nil
	}

	baseline := p.PurchasedAt
	if !p.TokensClaimed.IsZero() {
		baseline = p.ClaimedAt
	}
	var elapsed uint64
	if now > baseline {
		elapsed = now - baseline
	}

	instantPortion, err := percentOf(&p.TokensPurchased, c.InstantUnlockPercent)
	if err != nil {
		return r, err
	}
	vested, err := checkedSub(&p.TokensPurchased, instantPortion)
	if err != nil {
		return r, err
	}
	rate, err := unlockRate(vested, c.VestingSeconds)
	if err != nil {
		return r, err
	}
	release, err := unlockedOver(rate, elapsed)
	if err != nil {
		return r, err
	}
	if p.TokensClaimed.IsZero() {
		if release, err = checkedAdd(release, instantPortion); err != nil {
			return r, err
		}
	}
	release = minInt(release, remaining)

	r.Amount.Set(release)
	r.Claimed.Add(&p.TokensClaimed, release)
	r.ClaimedAt = now
	return r, nil
}

// claimFor releases whatever purchaser has vested to recipient.
func (m *Mind) claimFor(o *op, c Config, purchaser, recipient library.Account) (*uint256.Int, error) {
	if !c.VestingEnabled() {
		return nil, ErrVestingNotEnabled
	}
	p, err := o.purchaser(purchaser)
	if err != nil {
		return nil, err
	}
	if p.TokensPurchased.IsZero() {
		return nil, ErrNoTokensVested
	}
	if !p.TokensClaimed.Lt(&p.TokensPurchased) {
		return nil, ErrAllTokensClaimed
	}
	r, err := computeRelease(c, p, o.now)
	if err != nil {
		return nil, err
	}
	p.TokensClaimed = r.Claimed
	p.ClaimedAt = r.ClaimedAt
	if err = o.putPurchaser(p); err != nil {
		return nil, err
	}
	o.emit(Claimed{Account: purchaser, Recipient: recipient, Amount: r.Amount.Dec()})
	if err = m.transfer(o, c.Token, recipient, &r.Amount); err != nil {
		return nil, err
	}
	return &r.Amount, nil
}
