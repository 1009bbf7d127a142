package relays

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"
	"tokensale/engine/actors"
)

func TestReplayTagFromState(t *testing.T) {
	snapshot := nostr.Event{ID: "s", Content: `{"replay":{"alice":"abc"},"sale":{}}`}
	tag, err := ReplayTagFromState(snapshot, "alice")
	require.NoError(t, err)
	require.Equal(t, "abc", tag)

	tag, err = ReplayTagFromState(snapshot, "bob")
	require.NoError(t, err)
	require.Equal(t, actors.ReplayPrevention, tag)

	_, err = ReplayTagFromState(nostr.Event{Content: "nope"}, "bob")
	require.Error(t, err)
}
