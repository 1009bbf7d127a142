package claimtokens

import (
	"tokensale/engine/library"
)

const (
	KindMint     = 640870
	KindTransfer = 640872
)

//Kind640870 mints TokenID on Registry to To, or to the author when To is empty.
//Only the registry's issuer may mint.
type Kind640870 struct {
	Registry library.Account `json:"registry"`
	TokenID  string          `json:"token_id"`
	To       library.Account `json:"to,omitempty"`
}

//Kind640872 moves TokenID on Registry from the author to To
type Kind640872 struct {
	Registry library.Account `json:"registry"`
	TokenID  string          `json:"token_id"`
	To       library.Account `json:"to"`
}

// Mapped is token id (decimal) to owner.
type Mapped map[string]library.Account
