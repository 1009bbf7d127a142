package assets

import (
	"tokensale/engine/library"
)

const (
	KindApprove  = 640860
	KindTransfer = 640862
)

//Kind640860 lets Spender move up to Amount of the author's units on Ledger
type Kind640860 struct {
	Ledger  library.Account `json:"ledger"`
	Spender library.Account `json:"spender"`
	Amount  string          `json:"amount"`
}

//Kind640862 sends Amount of the author's units on Ledger to To
type Kind640862 struct {
	Ledger library.Account `json:"ledger"`
	To     library.Account `json:"to"`
	Amount string          `json:"amount"`
}

// Mapped is ledger id to account to balance.
type Mapped map[library.Account]map[library.Account]string
