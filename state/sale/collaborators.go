package sale

import (
	"context"

	"github.com/holiman/uint256"
	"tokensale/engine/library"
)

// FungibleAsset is an external ledger of interchangeable units.
type FungibleAsset interface {
	Transfer(ctx context.Context, from, to library.Account, amount *uint256.Int) (bool, error)
	TransferFrom(ctx context.Context, operator, from, to library.Account, amount *uint256.Int) (bool, error)
}

// ClaimTokenRegistry is an external registry of unique claim tokens.
type ClaimTokenRegistry interface {
	OwnerOf(ctx context.Context, tokenID *uint256.Int) (library.Account, error)
}

// Directory resolves the ledger ids stored in Config.
type Directory interface {
	Fungible(id library.Account) (FungibleAsset, error)
	ClaimTokens(id library.Account) (ClaimTokenRegistry, error)
}

// Clock is the ledger's notion of now, in seconds.
type Clock interface {
	Now() uint64
}
