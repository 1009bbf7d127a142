package relays

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"tokensale/engine/library"
)

// PublishToRelays sends events, in order, to every relay. It returns the
// number of relays that accepted all of them.
func PublishToRelays(ctx context.Context, events []nostr.Event, relays []string) int {
	var wg sync.WaitGroup
	accepted := make(chan bool, len(relays))
	for _, relay := range relays {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			sane := library.ValidateSaneExecutionTime()
			defer sane()
			mainRelay, err := nostr.RelayConnect(ctx, url)
			if err != nil {
				library.LogCLI(fmt.Sprintf("could not connect to relay %s: %s", url, err), 2)
				accepted <- false
				return
			}
			defer mainRelay.Close()
			for _, event := range events {
				status, err := mainRelay.Publish(ctx, event)
				if err != nil {
					library.LogCLI(fmt.Sprintf("could not publish %s to relay %s: %s", event.ID, url, err), 2)
					accepted <- false
					return
				}
				library.LogCLI(fmt.Sprintf("%s published to %s: %v", event.ID, url, status), 4)
			}
			accepted <- true
		}(relay)
	}
	wg.Wait()
	close(accepted)
	n := 0
	for ok := range accepted {
		if ok {
			n++
		}
	}
	return n
}

// FetchLatest asks every relay for events matching filters and returns the
// newest one. ok is false when no relay had a match before timeout.
func FetchLatest(ctx context.Context, filters nostr.Filters, relays []string, timeout time.Duration) (n nostr.Event, ok bool) {
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, url := range relays {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			relay, err := nostr.RelayConnect(ctx, url)
			if err != nil {
				library.LogCLI(fmt.Sprintf("could not connect to relay %s: %s", url, err), 3)
				return
			}
			defer relay.Close()
			ctxsub, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			sub, err := relay.Subscribe(ctxsub, filters)
			if err != nil {
				library.LogCLI(err.Error(), 2)
				return
			}
			defer sub.Unsub()
			for {
				select {
				case ev, open := <-sub.Events:
					if !open || ev == nil {
						return
					}
					if valid, _ := ev.CheckSignature(); !valid {
						continue
					}
					mu.Lock()
					if !ok || ev.CreatedAt > n.CreatedAt {
						n = *ev
						ok = true
					}
					mu.Unlock()
				case <-sub.EndOfStoredEvents:
					return
				case <-ctxsub.Done():
					return
				}
			}
		}(url)
	}
	wg.Wait()
	return
}
