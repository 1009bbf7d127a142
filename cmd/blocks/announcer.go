package main

import (
	"context"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"tokensale/engine/library"
	"tokensale/messaging/blocks"
)

type tipper interface {
	Latest(ctx context.Context) (blocks.Block, error)
}

type announcer struct {
	source tipper
	wallet library.Wallet
	relays []string
	send   func(ctx context.Context, events []nostr.Event, relays []string) int
	height int64
}

func (a *announcer) run(ctx context.Context, interval time.Duration) {
	a.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			a.check(ctx)
		}
	}
}

// check publishes the tip if it is higher than the last one announced.
func (a *announcer) check(ctx context.Context) bool {
	block, err := a.source.Latest(ctx)
	if err != nil {
		library.LogCLI(err.Error(), 3)
		return false
	}
	if block.Height <= a.height {
		return false
	}
	e, err := blocks.Event(a.wallet, block)
	if err != nil {
		library.LogCLI(err.Error(), 1)
		return false
	}
	if a.send(ctx, []nostr.Event{e}, a.relays) == 0 {
		library.LogCLI("no relay accepted block "+block.Hash, 2)
		return false
	}
	library.LogCLI("announced block "+block.Hash, 4)
	a.height = block.Height
	return true
}
