package sale

import (
	"tokensale/engine/library"
)

// Receipt kinds published for committed operations.
const (
	KindPurchased         = 640850
	KindDelegationEnabled = 640852
	KindClaimed           = 640854
	KindPriceUpdated      = 640856
	KindInitialized       = 640858
)

// Event is a receipt of a committed operation.
type Event interface {
	Kind() int
}

type Initialized struct {
	Owner                library.Account `json:"owner"`
	Token                library.Account `json:"token"`
	Currency             library.Account `json:"currency"`
	ClaimToken           library.Account `json:"claim_token"`
	PricePerToken        string          `json:"price_per_token"`
	TotalTokensAvailable string          `json:"total_tokens_available"`
	VestingSeconds       uint64          `json:"vesting_seconds"`
	InstantUnlockPercent uint64          `json:"instant_unlock_percent"`
}

type Purchased struct {
	Account library.Account `json:"account"`
	Amount  string          `json:"amount"`
	Cost    string          `json:"cost"`
}

type DelegationEnabled struct {
	Account      library.Account `json:"account"`
	ClaimTokenID string          `json:"claim_token_id"`
}

type Claimed struct {
	Account   library.Account `json:"account"`
	Recipient library.Account `json:"recipient"`
	Amount    string          `json:"amount"`
}

type PriceUpdated struct {
	PricePerToken string `json:"price_per_token"`
}

func (Initialized) Kind() int       { return KindInitialized }
func (Purchased) Kind() int         { return KindPurchased }
func (DelegationEnabled) Kind() int { return KindDelegationEnabled }
func (Claimed) Kind() int           { return KindClaimed }
func (PriceUpdated) Kind() int      { return KindPriceUpdated }

// Sink receives receipts after their operation has committed.
type Sink interface {
	Emit(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

type discard struct{}

func (discard) Emit(Event) {}
