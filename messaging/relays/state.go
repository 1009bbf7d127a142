package relays

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"tokensale/engine/actors"
	"tokensale/engine/library"
)

// NextReplayTag finds the ID an operation by account must follow, using the
// newest state snapshot published by engine.
func NextReplayTag(ctx context.Context, relays []string, engine, account library.Account) (library.Sha256, error) {
	filters := nostr.Filters{{
		Kinds:   []int{actors.KindCurrentState},
		Authors: []string{engine},
		Limit:   1,
	}}
	latest, ok := FetchLatest(ctx, filters, relays, 10*time.Second)
	if !ok {
		return actors.ReplayPrevention, nil
	}
	return ReplayTagFromState(latest, account)
}

// ReplayTagFromState reads account's last applied operation out of a snapshot.
func ReplayTagFromState(snapshot nostr.Event, account library.Account) (library.Sha256, error) {
	var state struct {
		Replay map[library.Account]library.Sha256 `json:"replay"`
	}
	if err := json.Unmarshal([]byte(snapshot.Content), &state); err != nil {
		return "", fmt.Errorf("state snapshot %s: %w", snapshot.ID, err)
	}
	if last, ok := state.Replay[account]; ok {
		return last, nil
	}
	return actors.ReplayPrevention, nil
}
