package main

import (
	"context"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"tokensale/engine/actors"
	"tokensale/engine/helpers"
	"tokensale/engine/library"
	"tokensale/state/assets"
	"tokensale/state/sale"
)

func TestBuildEngineFromConfig(t *testing.T) {
	w, err := actors.WalletFromPrivateKey(nostr.GeneratePrivateKey())
	require.NoError(t, err)
	buyer, err := actors.WalletFromPrivateKey(nostr.GeneratePrivateKey())
	require.NoError(t, err)

	for _, backend := range []string{"memory", "badger"} {
		t.Run(backend, func(t *testing.T) {
			conf := viper.New()
			conf.Set("rootDir", t.TempDir()+"/")
			actors.InitConfig(conf)
			actors.SetConfig(conf)
			conf.Set("storage", backend)
			conf.Set("saleAccount", w.Account)
			conf.Set("genesisBalances", map[string]map[string]string{
				"token":    {w.Account: "1000"},
				"currency": {buyer.Account: "50"},
			})

			var published []nostr.Event
			e, err := buildEngine(conf, w, func(ev nostr.Event) { published = append(published, ev) })
			require.NoError(t, err)
			defer e.shutdown()

			l, err := e.directory.Ledger("token")
			require.NoError(t, err)
			require.Equal(t, uint64(1000), l.BalanceOf(w.Account).Uint64())
			_, err = e.directory.Registry("claimtokens")
			require.NoError(t, err)

			ctx := context.Background()
			initialize, err := helpers.OperationEvent(w, sale.KindInitialize, sale.Kind640800{
				Token: "token", Currency: "currency", ClaimToken: "claimtokens",
				PricePerToken: "5", TotalTokensAvailable: "100",
			}, actors.ReplayPrevention)
			require.NoError(t, err)
			require.NoError(t, e.conductor.HandleEvent(ctx, initialize))

			approve, err := helpers.OperationEvent(buyer, assets.KindApprove, assets.Kind640860{Ledger: "currency", Spender: w.Account, Amount: "50"}, actors.ReplayPrevention)
			require.NoError(t, err)
			require.NoError(t, e.conductor.HandleEvent(ctx, approve))
			purchase, err := helpers.OperationEvent(buyer, sale.KindPurchase, sale.Kind640802{Amount: "10"}, approve.ID)
			require.NoError(t, err)
			require.NoError(t, e.conductor.HandleEvent(ctx, purchase))

			total, err := e.sale.TotalPurchased()
			require.NoError(t, err)
			require.Equal(t, uint64(10), total.Uint64())
			require.NotEmpty(t, published)
		})
	}

	t.Run("unknown storage", func(t *testing.T) {
		conf := viper.New()
		conf.Set("rootDir", t.TempDir()+"/")
		actors.InitConfig(conf)
		conf.Set("storage", "postgres")
		_, err := buildEngine(conf, w, func(nostr.Event) {})
		require.Error(t, err)
	})
}

func TestRestartKeepsBalances(t *testing.T) {
	w, err := actors.WalletFromPrivateKey(nostr.GeneratePrivateKey())
	require.NoError(t, err)
	buyer, err := actors.WalletFromPrivateKey(nostr.GeneratePrivateKey())
	require.NoError(t, err)
	conf := viper.New()
	conf.Set("rootDir", t.TempDir()+"/")
	actors.InitConfig(conf)
	actors.SetConfig(conf)
	conf.Set("storage", "badger")
	conf.Set("saleAccount", w.Account)
	conf.Set("genesisBalances", map[string]map[string]string{
		"token":    {w.Account: "1000"},
		"currency": {buyer.Account: "50"},
	})
	ctx := context.Background()
	operation := func(t *testing.T, signer library.Wallet, kind int, content interface{}, prev library.Sha256) nostr.Event {
		e, err := helpers.OperationEvent(signer, kind, content, prev)
		require.NoError(t, err)
		return e
	}

	e, err := buildEngine(conf, w, func(nostr.Event) {})
	require.NoError(t, err)
	initialize := operation(t, w, sale.KindInitialize, sale.Kind640800{
		Token: "token", Currency: "currency", ClaimToken: "claimtokens",
		PricePerToken: "5", TotalTokensAvailable: "100",
	}, actors.ReplayPrevention)
	require.NoError(t, e.conductor.HandleEvent(ctx, initialize))
	approve := operation(t, buyer, assets.KindApprove, assets.Kind640860{Ledger: "currency", Spender: w.Account, Amount: "50"}, actors.ReplayPrevention)
	require.NoError(t, e.conductor.HandleEvent(ctx, approve))
	purchase := operation(t, buyer, sale.KindPurchase, sale.Kind640802{Amount: "10"}, approve.ID)
	require.NoError(t, e.conductor.HandleEvent(ctx, purchase))
	claim := operation(t, buyer, sale.KindClaimUnlocked, sale.Kind640810{}, purchase.ID)
	require.NoError(t, e.conductor.HandleEvent(ctx, claim))
	e.shutdown()

	e, err = buildEngine(conf, w, func(nostr.Event) {})
	require.NoError(t, err)
	defer e.shutdown()

	token, err := e.directory.Ledger("token")
	require.NoError(t, err)
	currency, err := e.directory.Ledger("currency")
	require.NoError(t, err)
	require.Equal(t, uint64(10), token.BalanceOf(buyer.Account).Uint64())
	require.Equal(t, uint64(990), token.BalanceOf(w.Account).Uint64())
	require.Equal(t, uint64(1000), token.TotalSupply().Uint64(), "genesis is minted once")
	require.Equal(t, uint64(50), currency.BalanceOf(w.Account).Uint64())
	require.True(t, currency.BalanceOf(buyer.Account).IsZero())
	require.True(t, currency.Allowance(buyer.Account, w.Account).IsZero())

	p, err := e.sale.Purchaser(buyer.Account)
	require.NoError(t, err)
	require.Equal(t, uint64(10), p.TokensPurchased.Uint64())
	require.Equal(t, uint64(10), p.TokensClaimed.Uint64())

	require.Error(t, e.conductor.HandleEvent(ctx, purchase), "replayed after restart")
	again := operation(t, buyer, sale.KindClaimUnlocked, sale.Kind640810{}, claim.ID)
	require.ErrorIs(t, e.conductor.HandleEvent(ctx, again), sale.ErrAllTokensClaimed)
	require.Equal(t, uint64(10), token.BalanceOf(buyer.Account).Uint64())
}
