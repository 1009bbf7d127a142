package actors

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"tokensale/engine/library"
)

// StartRelaysForPublishing connects to every relay and returns a channel whose
// events are published to all of them. Relays that cannot be reached are
// skipped. The publishers stop when the terminate channel closes.
func StartRelaysForPublishing(ctx context.Context, relays []string) chan nostr.Event {
	sendChan := make(chan nostr.Event)
	var chans []chan nostr.Event
	for _, s := range relays {
		relay, err := nostr.RelayConnect(ctx, s)
		if err != nil {
			library.LogCLI(fmt.Sprintf("could not connect to relay %s: %s", s, err), 2)
			continue
		}
		events := make(chan nostr.Event, 64)
		chans = append(chans, events)
		go func(relay *nostr.Relay, events chan nostr.Event) {
			for {
				select {
				case e := <-events:
					sane := library.ValidateSaneExecutionTime()
					if _, err := relay.Publish(ctx, e); err != nil {
						library.LogCLI(fmt.Sprintf("could not publish %s to %s: %s", e.ID, relay.URL, err), 2)
					}
					sane()
				case <-ctx.Done():
					relay.Close()
					return
				}
			}
		}(relay, events)
	}
	go func() {
		for {
			select {
			case e := <-sendChan:
				for _, events := range chans {
					select {
					case events <- e:
					default:
						library.LogCLI(fmt.Sprintf("publish queue full, dropping %s", e.ID), 2)
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return sendChan
}
