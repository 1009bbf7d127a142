package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"
	"tokensale/engine/actors"
	"tokensale/messaging/blocks"
)

type fakeTip struct {
	block blocks.Block
	err   error
}

func (f *fakeTip) Latest(context.Context) (blocks.Block, error) { return f.block, f.err }

func TestAnnouncerOnlyMovesForward(t *testing.T) {
	w, err := actors.WalletFromPrivateKey(nostr.GeneratePrivateKey())
	require.NoError(t, err)
	tip := &fakeTip{block: blocks.Block{Height: 5, Hash: "aa", MedianTime: time.Unix(1000, 0), MinerTime: time.Unix(1000, 0)}}
	var sent []nostr.Event
	accept := 1
	a := &announcer{
		source: tip,
		wallet: w,
		send: func(_ context.Context, events []nostr.Event, _ []string) int {
			sent = append(sent, events...)
			return accept
		},
	}
	chain := blocks.NewChain(w.Account)

	require.True(t, a.check(context.Background()))
	require.False(t, a.check(context.Background()))
	require.Len(t, sent, 1)
	_, err = chain.HandleEvent(sent[0])
	require.NoError(t, err)
	require.Equal(t, uint64(1000), chain.Now())

	tip.err = errors.New("explorer down")
	require.False(t, a.check(context.Background()))

	tip.err = nil
	tip.block.Height = 6
	accept = 0
	require.False(t, a.check(context.Background()))
	require.Equal(t, int64(5), a.height)

	accept = 1
	require.True(t, a.check(context.Background()))
	require.Len(t, sent, 3)
}
