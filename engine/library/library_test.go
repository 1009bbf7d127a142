package library

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"
)

func TestEventQueueKeepsOrderWhileGrowing(t *testing.T) {
	q := NewEventQueue(2)
	for i := 0; i < 5; i++ {
		q.Push(&nostr.Event{Kind: i})
	}
	e, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 0, e.Kind)
	q.Push(&nostr.Event{Kind: 5})
	require.Equal(t, 5, q.Len())
	for i := 1; i <= 5; i++ {
		e, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, i, e.Kind)
	}
	_, ok = q.Pop()
	require.False(t, ok)
}

func TestIsZeroAccount(t *testing.T) {
	require.True(t, IsZeroAccount(""))
	require.True(t, IsZeroAccount(ZeroAccount))
	require.False(t, IsZeroAccount("00000000000000000000000000000000000000000000000000000000000000a1"))
}

func TestGetReplayTag(t *testing.T) {
	prev := Sha256Sum("previous")
	e := nostr.Event{Tags: nostr.Tags{nostr.Tag{"e", "abc"}, nostr.Tag{"r", prev}}}
	r, ok := GetReplayTag(e)
	require.True(t, ok)
	require.Equal(t, prev, r)

	_, ok = GetReplayTag(nostr.Event{Tags: nostr.Tags{nostr.Tag{"r", "short"}}})
	require.False(t, ok)
}
