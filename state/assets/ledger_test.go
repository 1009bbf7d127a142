package assets

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"
	"tokensale/state/claimtokens"
	"tokensale/storage"
	"tokensale/storage/memory"
)

func TestLedgerTransfer(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.New(), "usd")
	require.NoError(t, l.Mint(ctx, "alice", uint256.NewInt(100)))
	require.Error(t, l.Mint(ctx, "", uint256.NewInt(1)))

	ok, err := l.Transfer(ctx, "alice", "bob", uint256.NewInt(40))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Transfer(ctx, "alice", "bob", uint256.NewInt(61))
	require.NoError(t, err)
	require.False(t, ok, "cannot overdraw")

	require.Equal(t, uint64(60), l.BalanceOf("alice").Uint64())
	require.Equal(t, uint64(40), l.BalanceOf("bob").Uint64())
	require.Equal(t, uint64(100), l.TotalSupply().Uint64())
}

func TestLedgerTransferFromSpendsAllowance(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.New(), "usd")
	require.NoError(t, l.Mint(ctx, "alice", uint256.NewInt(100)))

	ok, err := l.TransferFrom(ctx, "sale", "alice", "owner", uint256.NewInt(10))
	require.NoError(t, err)
	require.False(t, ok, "no allowance yet")

	require.NoError(t, l.Approve(ctx, "alice", "sale", uint256.NewInt(30)))
	ok, err = l.TransferFrom(ctx, "sale", "alice", "owner", uint256.NewInt(25))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(5), l.Allowance("alice", "sale").Uint64())
	require.Equal(t, uint64(25), l.BalanceOf("owner").Uint64())

	ok, err = l.TransferFrom(ctx, "sale", "alice", "owner", uint256.NewInt(6))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHaltedLedgerErrors(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(memory.New(), "usd")
	require.NoError(t, l.Mint(ctx, "alice", uint256.NewInt(1)))
	l.Halt(true)
	_, err := l.Transfer(ctx, "alice", "bob", uint256.NewInt(1))
	require.ErrorIs(t, err, ErrHalted)
	l.Halt(false)
	ok, err := l.Transfer(ctx, "alice", "bob", uint256.NewInt(1))
	require.NoError(t, err)
	require.True(t, ok)
}

func signed(t *testing.T, sk string, kind int, content interface{}) nostr.Event {
	t.Helper()
	b, err := json.Marshal(content)
	require.NoError(t, err)
	pk, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)
	e := nostr.Event{PubKey: pk, CreatedAt: nostr.Timestamp(time.Now().Unix()), Kind: kind, Tags: nostr.Tags{}, Content: string(b)}
	require.NoError(t, e.Sign(sk))
	return e
}

func TestDirectoryHandlesLedgerAndRegistryEvents(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)

	ctx := context.Background()
	db := memory.New()
	d := NewDirectory()
	usd := NewLedger(db, "usd")
	require.NoError(t, usd.Mint(ctx, pk, uint256.NewInt(50)))
	d.AddLedger(usd)
	d.AddRegistry(claimtokens.New(db, "nft", pk))

	_, err = d.HandleEvent(ctx, signed(t, sk, KindApprove, Kind640860{Ledger: "usd", Spender: "sale", Amount: "20"}))
	require.NoError(t, err)
	require.Equal(t, uint64(20), usd.Allowance(pk, "sale").Uint64())

	m, err := d.HandleEvent(ctx, signed(t, sk, KindTransfer, Kind640862{Ledger: "usd", To: "bob", Amount: "5"}))
	require.NoError(t, err)
	require.Equal(t, "45", m["usd"][pk])
	require.Equal(t, "5", m["usd"]["bob"])

	_, err = d.HandleEvent(ctx, signed(t, sk, KindTransfer, Kind640862{Ledger: "eur", To: "bob", Amount: "5"}))
	require.Error(t, err)

	_, err = d.HandleEvent(ctx, signed(t, sk, claimtokens.KindMint, claimtokens.Kind640870{Registry: "nft", TokenID: "3"}))
	require.NoError(t, err)
	_, err = d.HandleEvent(ctx, signed(t, sk, claimtokens.KindTransfer, claimtokens.Kind640872{Registry: "nft", TokenID: "3", To: "bob"}))
	require.NoError(t, err)

	r, err := d.ClaimTokens("nft")
	require.NoError(t, err)
	owner, err := r.OwnerOf(ctx, uint256.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, "bob", owner)

	_, err = d.Fungible("eur")
	require.Error(t, err)
}

func TestStrangersCannotMintClaimTokens(t *testing.T) {
	ctx := context.Background()
	issuer, stranger := nostr.GeneratePrivateKey(), nostr.GeneratePrivateKey()
	issuerPk, err := nostr.GetPublicKey(issuer)
	require.NoError(t, err)
	db := memory.New()
	d := NewDirectory()
	d.AddRegistry(claimtokens.New(db, "nft", issuerPk))

	_, err = d.HandleEvent(ctx, signed(t, stranger, claimtokens.KindMint, claimtokens.Kind640870{Registry: "nft", TokenID: "7"}))
	require.ErrorIs(t, err, claimtokens.ErrNotIssuer)

	_, err = d.HandleEvent(ctx, signed(t, issuer, claimtokens.KindMint, claimtokens.Kind640870{Registry: "nft", TokenID: "7", To: "alice"}))
	require.NoError(t, err)
	r, err := d.Registry("nft")
	require.NoError(t, err)
	owner, err := r.OwnerOf(ctx, uint256.NewInt(7))
	require.NoError(t, err)
	require.Equal(t, "alice", owner)
}

func TestLedgerStateSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	l := NewLedger(db, "usd")
	require.NoError(t, l.Mint(ctx, "alice", uint256.NewInt(100)))
	require.NoError(t, l.Approve(ctx, "alice", "sale", uint256.NewInt(30)))
	ok, err := l.TransferFrom(ctx, "sale", "alice", "owner", uint256.NewInt(10))
	require.NoError(t, err)
	require.True(t, ok)

	reopened := NewLedger(db, "usd")
	require.Equal(t, uint64(90), reopened.BalanceOf("alice").Uint64())
	require.Equal(t, uint64(10), reopened.BalanceOf("owner").Uint64())
	require.Equal(t, uint64(20), reopened.Allowance("alice", "sale").Uint64())
	require.Equal(t, uint64(100), reopened.TotalSupply().Uint64())
	require.Equal(t, map[string]string{"alice": "90", "owner": "10"}, reopened.Balances())
}

func TestDiscardedBatchUndoesMovement(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	l := NewLedger(db, "usd")
	require.NoError(t, l.Mint(ctx, "alice", uint256.NewInt(100)))

	b := storage.NewBatch(db.Begin(true))
	ok, err := l.Transfer(storage.WithBatch(ctx, b), "alice", "bob", uint256.NewInt(40))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(100), l.BalanceOf("alice").Uint64(), "nothing is visible before commit")
	b.Discard()
	require.Equal(t, uint64(100), l.BalanceOf("alice").Uint64())
	require.True(t, l.BalanceOf("bob").IsZero())

	b = storage.NewBatch(db.Begin(true))
	ok, err = l.Transfer(storage.WithBatch(ctx, b), "alice", "bob", uint256.NewInt(40))
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, b.Commit())
	require.Equal(t, uint64(40), l.BalanceOf("bob").Uint64())
}

func TestSeedMintsOnce(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	balances := map[string]map[string]string{"usd": {"alice": "50"}}

	d := NewDirectory()
	d.AddLedger(NewLedger(db, "usd"))
	seeded, err := d.Seed(ctx, db, balances)
	require.NoError(t, err)
	require.True(t, seeded)

	again := NewDirectory()
	usd := NewLedger(db, "usd")
	again.AddLedger(usd)
	seeded, err = again.Seed(ctx, db, balances)
	require.NoError(t, err)
	require.False(t, seeded)
	require.Equal(t, uint64(50), usd.BalanceOf("alice").Uint64())

	_, err = NewDirectory().Seed(ctx, memory.New(), balances)
	require.Error(t, err, "unknown ledger")
}
