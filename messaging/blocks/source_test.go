package blocks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"
	"tokensale/engine/library"
)

func wallet(t *testing.T) library.Wallet {
	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)
	return library.Wallet{PrivateKey: sk, Account: pk}
}

func TestSourceLatest(t *testing.T) {
	hash := strings.Repeat("0a", 32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/blocks/tip/hash":
			fmt.Fprint(w, hash)
		case "/block/" + hash:
			fmt.Fprintf(w, `{"id":"%s","height":800000,"timestamp":1690168629,"mediantime":1690166000,"difficulty":52}`, hash)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	b, err := NewSource(srv.URL + "/").Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(800000), b.Height)
	require.Equal(t, hash, b.Hash)
	require.Equal(t, int64(1690166000), b.MedianTime.Unix())
	require.Equal(t, int64(1690168629), b.MinerTime.Unix())
}

func TestSourceRejectsBadTip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "nope")
	}))
	defer srv.Close()
	_, err := NewSource(srv.URL).Latest(context.Background())
	require.ErrorContains(t, err, "invalid hash")

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	_, err = NewSource(down.URL).Latest(context.Background())
	require.ErrorContains(t, err, "503")
}

func TestEventFeedsChain(t *testing.T) {
	w := wallet(t)
	c := NewChain(w.Account)
	b := Block{Height: 10, Hash: strings.Repeat("11", 32), MedianTime: unix(5000), MinerTime: unix(5100), Difficulty: 3}

	e, err := Event(w, b)
	require.NoError(t, err)
	ok, err := e.CheckSignature()
	require.NoError(t, err)
	require.True(t, ok)

	m, err := c.HandleEvent(e)
	require.NoError(t, err)
	require.Equal(t, b.Hash, m[10].Hash)
	require.Equal(t, uint64(5000), c.Now())

	other := wallet(t)
	e, err = Event(other, Block{Height: 11, Hash: b.Hash, MedianTime: unix(6000), MinerTime: unix(6000)})
	require.NoError(t, err)
	_, err = c.HandleEvent(e)
	require.ErrorContains(t, err, "not the block source")
}

func unix(s int64) time.Time { return time.Unix(s, 0) }
