package eventcatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"tokensale/engine/actors"
	"tokensale/engine/library"
	"tokensale/messaging/blocks"
	"tokensale/state/assets"
	"tokensale/state/sale"
)

// Filters selects every operation that replies to the sale root, plus block
// headers when a block source is configured.
func Filters(blockSource library.Account) nostr.Filters {
	var kinds []int
	kinds = append(kinds, sale.Kinds...)
	kinds = append(kinds, assets.Kinds...)
	filters := nostr.Filters{{
		Kinds: kinds,
		Tags:  nostr.TagMap{"e": []string{actors.SaleRoot}},
	}}
	if !library.IsZeroAccount(blockSource) {
		filters = append(filters, nostr.Filter{
			Kinds:   []int{blocks.KindBlock},
			Authors: []string{blockSource},
		})
	}
	return filters
}

// SubscribeToSale forwards every correctly signed event matching filters from
// relayURL to eChan until ctx is done. The subscription is rebuilt when the
// relay goes quiet, drops the connection, or the machine wakes from sleep.
// eose is signalled once per subscription.
func SubscribeToSale(ctx context.Context, relayURL string, filters nostr.Filters, eChan chan<- nostr.Event, eose chan<- bool) {
	var sleepChan = make(chan bool)
	sleeper(sleepChan)
	for {
		err := subscribe(ctx, relayURL, filters, eChan, eose, sleepChan)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			library.LogCLI(err.Error(), 2)
		}
		library.LogCLI("Restarting Eventcatcher", 4)
		select {
		case <-time.After(time.Second * 5):
		case <-ctx.Done():
			return
		}
	}
}

func subscribe(parent context.Context, relayURL string, filters nostr.Filters, eChan chan<- nostr.Event, eose chan<- bool, sleepChan <-chan bool) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	relay, err := nostr.RelayConnect(ctx, relayURL)
	if err != nil {
		return fmt.Errorf("could not connect to %s: %w", relayURL, err)
	}
	defer relay.Close()
	library.LogCLI("Connecting to "+relay.URL, 4)
	sub, err := relay.Subscribe(ctx, filters)
	if err != nil {
		return fmt.Errorf("could not subscribe to %s: %w", relayURL, err)
	}
	defer sub.Unsub()

	go func() {
		select {
		case <-sub.EndOfStoredEvents:
			select {
			case eose <- true:
			case <-ctx.Done():
			}
		case <-ctx.Done():
		}
	}()
	lastEventTime := time.Now()
	for {
		select {
		case <-sleepChan:
			library.LogCLI("system sleep detected, resubscribing", 2)
			return nil
		case ev, ok := <-sub.Events:
			if !ok || ev == nil {
				return fmt.Errorf("terminating connection to relay %s", relayURL)
			}
			lastEventTime = time.Now()
			sane := library.ValidateSaneExecutionTime()
			if ok, _ := ev.CheckSignature(); ok {
				select {
				case eChan <- *ev:
				case <-ctx.Done():
					sane()
					return nil
				}
			} else {
				library.LogCLI(fmt.Sprintf("dropping event %s with a bad signature", ev.ID), 3)
			}
			sane()
		case <-time.After(time.Minute):
			if time.Since(lastEventTime) > time.Minute*10 {
				return fmt.Errorf("relay %s has been quiet since %s", relayURL, lastEventTime.Format(time.RFC3339))
			}
		case <-ctx.Done():
			return nil
		}
	}
}
