package blocks

import (
	"strconv"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"
)

func header(source string, height, median int64, hash string) nostr.Event {
	return nostr.Event{
		ID:     hash,
		Kind:   KindBlock,
		PubKey: source,
		Tags: nostr.Tags{
			{"hash", hash},
			{"height", strconv.FormatInt(height, 10)},
			{"minertime", strconv.FormatInt(median+600, 10)},
			{"mediantime", strconv.FormatInt(median, 10)},
			{"difficulty", "1"},
		},
	}
}

func TestManualNeverGoesBack(t *testing.T) {
	c := NewManual(100)
	c.Set(50)
	require.Equal(t, uint64(100), c.Now())
	c.Advance(25)
	c.Set(200)
	require.Equal(t, uint64(200), c.Now())
}

func TestSystemIsMonotonic(t *testing.T) {
	c := NewSystem()
	a := c.Now()
	require.NotZero(t, a)
	require.GreaterOrEqual(t, c.Now(), a)
}

func TestChainFollowsTip(t *testing.T) {
	source := "aa"
	c := NewChain(source)
	require.Equal(t, uint64(0), c.Now())

	_, err := c.HandleEvent(header(source, 10, 1_000, "h10"))
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), c.Now())

	_, err = c.HandleEvent(header(source, 10, 2_000, "h10"))
	require.Error(t, err)
	_, err = c.HandleEvent(header(source, 9, 2_000, "h9"))
	require.Error(t, err)
	_, err = c.HandleEvent(header("bb", 11, 2_000, "h11"))
	require.Error(t, err)

	m, err := c.HandleEvent(header(source, 11, 1_500, "h11"))
	require.NoError(t, err)
	require.Len(t, m, 2)
	require.Equal(t, uint64(1_500), c.Now())

	// a tip with an earlier median time does not move the clock back
	_, err = c.HandleEvent(header(source, 12, 1_200, "h12"))
	require.NoError(t, err)
	require.Equal(t, uint64(1_500), c.Now())
}
