package sale

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"tokensale/engine/library"
)

const (
	MinVestingSeconds uint64 = 86_400
	MaxVestingSeconds uint64 = 31_536_000
)

// Operation kinds. Content is the JSON payload of the same name.
const (
	KindInitialize       = 640800
	KindPurchase         = 640802
	KindEnableDelegation = 640804
	KindClaimDirect      = 640806
	KindClaimAsDelegate  = 640808
	KindClaimUnlocked    = 640810
	KindUpdatePrice      = 640812
)

// Config is written once by Initialize. Only PricePerToken changes afterwards.
type Config struct {
	Initialized          bool
	Owner                library.Account
	Account              library.Account // the sale's own account on both ledgers
	Token                library.Account
	Currency             library.Account
	ClaimToken           library.Account
	PricePerToken        uint256.Int
	TotalTokensAvailable uint256.Int
	VestingSeconds       uint64
	InstantUnlockPercent uint64
}

func (c Config) VestingEnabled() bool {
	return c.VestingSeconds != 0
}

// Purchaser is everything the sale knows about one account.
type Purchaser struct {
	Account         library.Account
	TokensPurchased uint256.Int
	PurchasedAt     uint64
	TokensClaimed   uint256.Int
	ClaimedAt       uint64
	ClaimTokenID    uint256.Int
}

func (p Purchaser) Delegated() bool {
	return !p.ClaimTokenID.IsZero()
}

// Remaining is purchased minus claimed.
func (p Purchaser) Remaining() *uint256.Int {
	if p.TokensPurchased.Lt(&p.TokensClaimed) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(&p.TokensPurchased, &p.TokensClaimed)
}

// Params are the arguments of Initialize.
type Params struct {
	Token                library.Account
	Currency             library.Account
	ClaimToken           library.Account
	PricePerToken        uint256.Int
	TotalTokensAvailable uint256.Int
	VestingSeconds       uint64
	InstantUnlockPercent uint64
}

type Mapped map[library.Account]Purchaser

//Kind640800 initializes the sale. The author becomes the owner.
type Kind640800 struct {
	Token                library.Account `json:"token"`
	Currency             library.Account `json:"currency"`
	ClaimToken           library.Account `json:"claim_token"`
	PricePerToken        string          `json:"price_per_token"`
	TotalTokensAvailable string          `json:"total_tokens_available"`
	VestingSeconds       uint64          `json:"vesting_seconds"`
	InstantUnlockPercent uint64          `json:"instant_unlock_percent"`
}

func (k Kind640800) Params() (p Params, err error) {
	p = Params{
		Token:                k.Token,
		Currency:             k.Currency,
		ClaimToken:           k.ClaimToken,
		VestingSeconds:       k.VestingSeconds,
		InstantUnlockPercent: k.InstantUnlockPercent,
	}
	if err = decodeAmount(k.PricePerToken, &p.PricePerToken); err != nil {
		return p, fmt.Errorf("price_per_token: %w", err)
	}
	if err = decodeAmount(k.TotalTokensAvailable, &p.TotalTokensAvailable); err != nil {
		return p, fmt.Errorf("total_tokens_available: %w", err)
	}
	return p, nil
}

//Kind640802 buys Amount tokens at the configured price
type Kind640802 struct {
	Amount string `json:"amount"`
}

//Kind640804 binds the author's claim rights to a claim token
type Kind640804 struct {
	ClaimTokenID string `json:"claim_token_id"`
}

//Kind640806 claims vested tokens for the author. No payload.
type Kind640806 struct{}

//Kind640808 claims on behalf of Purchaser as the holder of their claim token
type Kind640808 struct {
	Purchaser library.Account `json:"purchaser"`
}

//Kind640810 claims everything when the sale has no vesting. No payload.
type Kind640810 struct{}

//Kind640812 sets a new price. Owner only.
type Kind640812 struct {
	PricePerToken string `json:"price_per_token"`
}

func decodeAmount(s string, z *uint256.Int) error {
	if s == "" {
		z.Clear()
		return nil
	}
	if err := z.SetFromDecimal(s); err != nil {
		return fmt.Errorf("%q is not a decimal amount: %w", s, err)
	}
	return nil
}

type configRecord struct {
	Initialized          bool            `json:"initialized"`
	Owner                library.Account `json:"owner"`
	Account              library.Account `json:"account"`
	Token                library.Account `json:"token"`
	Currency             library.Account `json:"currency"`
	ClaimToken           library.Account `json:"claim_token"`
	PricePerToken        string          `json:"price_per_token"`
	TotalTokensAvailable string          `json:"total_tokens_available"`
	VestingSeconds       uint64          `json:"vesting_seconds"`
	InstantUnlockPercent uint64          `json:"instant_unlock_percent"`
}

func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(configRecord{
		Initialized:          c.Initialized,
		Owner:                c.Owner,
		Account:              c.Account,
		Token:                c.Token,
		Currency:             c.Currency,
		ClaimToken:           c.ClaimToken,
		PricePerToken:        c.PricePerToken.Dec(),
		TotalTokensAvailable: c.TotalTokensAvailable.Dec(),
		VestingSeconds:       c.VestingSeconds,
		InstantUnlockPercent: c.InstantUnlockPercent,
	})
}

func (c *Config) UnmarshalJSON(b []byte) error {
	var r configRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*c = Config{
		Initialized:          r.Initialized,
		Owner:                r.Owner,
		Account:              r.Account,
		Token:                r.Token,
		Currency:             r.Currency,
		ClaimToken:           r.ClaimToken,
		VestingSeconds:       r.VestingSeconds,
		InstantUnlockPercent: r.InstantUnlockPercent,
	}
	if err := decodeAmount(r.PricePerToken, &c.PricePerToken); err != nil {
		return err
	}
	return decodeAmount(r.TotalTokensAvailable, &c.TotalTokensAvailable)
}

type purchaserRecord struct {
	Account         library.Account `json:"account"`
	TokensPurchased string          `json:"tokens_purchased"`
	PurchasedAt     uint64          `json:"purchased_at"`
	TokensClaimed   string          `json:"tokens_claimed"`
	ClaimedAt       uint64          `json:"claimed_at"`
	ClaimTokenID    string          `json:"claim_token_id"`
}

func (p Purchaser) MarshalJSON() ([]byte, error) {
	return json.Marshal(purchaserRecord{
		Account:         p.Account,
		TokensPurchased: p.TokensPurchased.Dec(),
		PurchasedAt:     p.PurchasedAt,
		TokensClaimed:   p.TokensClaimed.Dec(),
		ClaimedAt:       p.ClaimedAt,
		ClaimTokenID:    p.ClaimTokenID.Dec(),
	})
}

func (p *Purchaser) UnmarshalJSON(b []byte) error {
	var r purchaserRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*p = Purchaser{
		Account:     r.Account,
		PurchasedAt: r.PurchasedAt,
		ClaimedAt:   r.ClaimedAt,
	}
	if err := decodeAmount(r.TokensPurchased, &p.TokensPurchased); err != nil {
		return err
	}
	if err := decodeAmount(r.TokensClaimed, &p.TokensClaimed); err != nil {
		return err
	}
	return decodeAmount(r.ClaimTokenID, &p.ClaimTokenID)
}
