package eventcatcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"tokensale/engine/actors"
	"tokensale/messaging/blocks"
	"tokensale/state/sale"
)

func TestFilters(t *testing.T) {
	f := Filters("")
	require.Len(t, f, 1)
	require.Contains(t, f[0].Kinds, sale.KindPurchase)
	require.Equal(t, []string{actors.SaleRoot}, f[0].Tags["e"])

	f = Filters("b0b")
	require.Len(t, f, 2)
	require.Equal(t, []int{blocks.KindBlock}, f[1].Kinds)
	require.Equal(t, []string{"b0b"}, f[1].Authors)
}
