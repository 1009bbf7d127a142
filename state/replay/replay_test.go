package replay

import (
	"context"
	"errors"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"
	"tokensale/engine/library"
	"tokensale/storage"
	"tokensale/storage/memory"
)

func chained(pubkey, id, prev string) nostr.Event {
	return nostr.Event{ID: id, PubKey: pubkey, Tags: nostr.Tags{{"r", prev}}}
}

func TestChainAdvancesOnlyOnSuccess(t *testing.T) {
	genesis := library.Sha256Sum("genesis")
	first, second := library.Sha256Sum("first"), library.Sha256Sum("second")
	ctx := context.Background()
	r := New(memory.New(), genesis)
	applied := 0
	apply := func(context.Context) error { applied++; return nil }

	require.Error(t, r.HandleEvent(ctx, nostr.Event{ID: first, PubKey: "alice"}, apply), "missing tag")
	require.Error(t, r.HandleEvent(ctx, chained("alice", first, second), apply), "wrong predecessor")

	require.EqualError(t, r.HandleEvent(ctx, chained("alice", first, genesis), func(context.Context) error { return errors.New("rejected") }), "rejected")
	current, err := r.GetCurrentHashForAccount("alice")
	require.NoError(t, err)
	require.Equal(t, genesis, current)

	require.NoError(t, r.HandleEvent(ctx, chained("alice", first, genesis), apply))
	require.Error(t, r.HandleEvent(ctx, chained("alice", first, genesis), apply), "replayed")
	require.NoError(t, r.HandleEvent(ctx, chained("alice", second, first), apply))
	require.NoError(t, r.HandleEvent(ctx, chained("bob", first, genesis), apply))
	require.Equal(t, 3, applied)

	m, err := r.GetMapped()
	require.NoError(t, err)
	require.Equal(t, Mapped{"alice": second, "bob": first}, m)

	h, err := r.GetStateHash()
	require.NoError(t, err)
	require.Len(t, h, 64)
}

// brokenDisk fails every commit while broken is set.
type brokenDisk struct {
	*memory.Database
	broken bool
}

func (d *brokenDisk) Begin(writable bool) storage.ChangeSet {
	cs := d.Database.Begin(writable)
	if !writable || !d.broken {
		return cs
	}
	return memory.NewChangeSet(cs.Get, func(map[string][]byte) error { return errors.New("disk full") }, cs.Discard)
}

func TestEffectsAndChainCommitTogether(t *testing.T) {
	ctx := context.Background()
	genesis := library.Sha256Sum("genesis")
	first := library.Sha256Sum("first")
	db := &brokenDisk{Database: memory.New(), broken: true}
	r := New(db, genesis)
	stage := func(ctx context.Context) error {
		b, ok := storage.BatchFrom(ctx)
		require.True(t, ok, "fn runs inside the replay batch")
		return b.Put("effect", []byte(first))
	}

	require.ErrorContains(t, r.HandleEvent(ctx, chained("alice", first, genesis), stage), "disk full")
	current, err := r.GetCurrentHashForAccount("alice")
	require.NoError(t, err)
	require.Equal(t, genesis, current)
	_, err = db.Begin(false).Get("effect")
	require.ErrorIs(t, err, storage.ErrNotFound)

	db.broken = false
	require.NoError(t, r.HandleEvent(ctx, chained("alice", first, genesis), stage))
	v, err := db.Begin(false).Get("effect")
	require.NoError(t, err)
	require.Equal(t, first, string(v))
	current, err = r.GetCurrentHashForAccount("alice")
	require.NoError(t, err)
	require.Equal(t, first, current)
}
