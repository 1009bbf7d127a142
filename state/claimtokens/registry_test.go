package claimtokens

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"tokensale/storage"
	"tokensale/storage/memory"
)

func TestMintTransferOwnerOf(t *testing.T) {
	ctx := context.Background()
	r := New(memory.New(), "registry", "issuer")
	id := uint256.NewInt(7)

	_, err := r.OwnerOf(ctx, id)
	require.Error(t, err)

	require.NoError(t, r.Mint(ctx, "issuer", "alice", id))
	require.Error(t, r.Mint(ctx, "issuer", "bob", id), "ids are unique")
	require.Error(t, r.Mint(ctx, "issuer", "bob", uint256.NewInt(0)))
	require.Error(t, r.Mint(ctx, "issuer", "", uint256.NewInt(8)))

	owner, err := r.OwnerOf(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "alice", owner)

	require.Error(t, r.Transfer(ctx, "bob", "carol", id), "only the holder moves a token")
	require.NoError(t, r.Transfer(ctx, "alice", "bob", id))
	owner, err = r.OwnerOf(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "bob", owner)

	require.Equal(t, Mapped{"7": "bob"}, r.GetMapped())
}

func TestOnlyTheIssuerMints(t *testing.T) {
	ctx := context.Background()
	r := New(memory.New(), "registry", "issuer")
	id := uint256.NewInt(7)

	err := r.Mint(ctx, "stranger", "stranger", id)
	require.ErrorIs(t, err, ErrNotIssuer)
	_, err = r.OwnerOf(ctx, id)
	require.Error(t, err, "nothing was minted")

	closed := New(memory.New(), "registry", "")
	require.ErrorIs(t, closed.Mint(ctx, "", "alice", id), ErrNotIssuer)
}

func TestOwnersSurviveInTheStore(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	id := uint256.NewInt(3)
	require.NoError(t, New(db, "registry", "issuer").Mint(ctx, "issuer", "alice", id))

	owner, err := New(db, "registry", "issuer").OwnerOf(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "alice", owner)
}

func TestTransferStagedInBatch(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	r := New(db, "registry", "issuer")
	id := uint256.NewInt(3)
	require.NoError(t, r.Mint(ctx, "issuer", "alice", id))

	b := storage.NewBatch(db.Begin(true))
	inBatch := storage.WithBatch(ctx, b)
	require.NoError(t, r.Transfer(inBatch, "alice", "bob", id))
	owner, err := r.OwnerOf(inBatch, id)
	require.NoError(t, err)
	require.Equal(t, "bob", owner, "the batch sees its own transfer")
	b.Discard()

	owner, err = r.OwnerOf(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "alice", owner, "a discarded batch leaves no trace")
}
