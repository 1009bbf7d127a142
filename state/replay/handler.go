package replay

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"tokensale/engine/library"
	"tokensale/storage"
)

// HandleEvent applies event through fn if its replay tag names the last event
// applied for its author. fn gets a context carrying the batch the chain
// advances in, so the minds it calls stage their changes there and the event
// and its effects commit together or not at all.
func (r *Replay) HandleEvent(ctx context.Context, event nostr.Event, fn func(ctx context.Context) error) error {
	claimedHash, ok := library.GetReplayTag(event)
	if !ok {
		return fmt.Errorf("event %s has no replay tag", event.ID)
	}
	b := storage.NewBatch(r.db.Begin(true))
	defer b.Discard()
	b.Lock(r.mutex)
	current, err := r.current(b, event.PubKey)
	if err != nil {
		return err
	}
	if claimedHash != current {
		return fmt.Errorf("event %s follows %s but the last event from %s is %s", event.ID, claimedHash, event.PubKey, current)
	}
	if err = fn(storage.WithBatch(ctx, b)); err != nil {
		return err
	}
	if err = r.upsert(b, event.PubKey, event.ID); err != nil {
		return err
	}
	if err = b.Commit(); err != nil {
		return fmt.Errorf("event %s: commit: %w", event.ID, err)
	}
	return nil
}
