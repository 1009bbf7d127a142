package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/viper"
	"tokensale/engine/actors"
	"tokensale/engine/helpers"
	"tokensale/engine/library"
	"tokensale/messaging/relays"
)

// sender delivers a signed operation. It returns how many relays took it.
type sender func(ctx context.Context, e nostr.Event, relays []string) int

func publishToRelays(ctx context.Context, e nostr.Event, r []string) int {
	return relays.PublishToRelays(ctx, []nostr.Event{e}, r)
}

type operator struct {
	conf *viper.Viper
	send sender
	out  func() io.Writer
}

func (o *operator) wallet() (library.Wallet, error) {
	if sk := o.conf.GetString("key"); sk != "" {
		return actors.WalletFromPrivateKey(sk)
	}
	return actors.MyWallet(), nil
}

func (o *operator) previous(ctx context.Context, w library.Wallet) (library.Sha256, error) {
	if p := o.conf.GetString("previous"); p != "" {
		return p, nil
	}
	engine := o.conf.GetString("engine")
	if engine == "" {
		return actors.ReplayPrevention, nil
	}
	return relays.NextReplayTag(ctx, o.conf.GetStringSlice("relays"), engine, w.Account)
}

// submit signs content as kind and publishes it, or prints it on a dry run.
func (o *operator) submit(ctx context.Context, kind int, content interface{}) error {
	w, err := o.wallet()
	if err != nil {
		return err
	}
	prev, err := o.previous(ctx, w)
	if err != nil {
		return err
	}
	e, err := helpers.OperationEvent(w, kind, content, prev)
	if err != nil {
		return err
	}
	if o.conf.GetBool("dry-run") {
		b, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(o.out(), string(b))
		return err
	}
	r := o.conf.GetStringSlice("relays")
	if n := o.send(ctx, e, r); n == 0 {
		return fmt.Errorf("no relay accepted %s", e.ID)
	}
	_, err = fmt.Fprintln(o.out(), e.ID)
	return err
}
