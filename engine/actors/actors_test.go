package actors

import (
	"io"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"tokensale/engine/library"
)

func TestWalletFromPrivateKeyMatchesNostr(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	w, err := WalletFromPrivateKey(sk)
	require.NoError(t, err)
	pk, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)
	require.Equal(t, pk, w.Account)

	_, err = WalletFromPrivateKey("not hex")
	require.Error(t, err)
}

func TestCurrentStateSnapshotIsSigned(t *testing.T) {
	w, err := WalletFromPrivateKey(nostr.GeneratePrivateKey())
	require.NoError(t, err)

	s := NewCurrentState()
	_, ok := s.AppendState("rockets", 1)
	require.False(t, ok)
	_, ok = s.AppendState("saleHash", 42)
	require.False(t, ok)
	snapshot, ok := s.AppendState("saleHash", library.Sha256Sum("x"))
	require.True(t, ok)
	require.Equal(t, library.Sha256Sum("x"), snapshot.SaleHash)

	b, err := s.JSON()
	require.NoError(t, err)
	e, err := CurrentStateEventBuilder(w, string(b))
	require.NoError(t, err)
	require.Equal(t, KindCurrentState, e.Kind)
	valid, err := e.CheckSignature()
	require.NoError(t, err)
	require.True(t, valid)
}

func TestInitConfigAndFlatFiles(t *testing.T) {
	conf := viper.New()
	conf.Set("rootDir", t.TempDir()+"/")
	InitConfig(conf)
	SetConfig(conf)
	require.Equal(t, "badger", conf.GetString("storage"))
	require.Equal(t, "token", conf.GetString("tokenLedger"))

	conf.Set("genesisBalances", map[string]map[string]string{"token": {"sale": "1000"}})
	g, err := GenesisBalances(conf)
	require.NoError(t, err)
	require.Equal(t, "1000", g["token"]["sale"])

	_, ok := Open("snapshots", "current")
	require.False(t, ok)
	Write("snapshots", "current", []byte("state"))
	f, ok := Open("snapshots", "current")
	require.True(t, ok)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "state", string(b))
}
