package eventconductor

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"tokensale/engine/helpers"
	"tokensale/engine/library"
	"tokensale/state/sale"
)

// Receipts publishes a signed receipt for every committed sale operation.
type Receipts struct {
	wallet  library.Wallet
	publish func(nostr.Event)
}

var _ sale.Sink = (*Receipts)(nil)

func NewReceipts(wallet library.Wallet, publish func(nostr.Event)) *Receipts {
	return &Receipts{wallet: wallet, publish: publish}
}

func (r *Receipts) Emit(e sale.Event) {
	receipt, err := helpers.ReceiptEvent(r.wallet, e.Kind(), e)
	if err != nil {
		library.LogCLI(fmt.Sprintf("could not build receipt of kind %d: %s", e.Kind(), err), 1)
		return
	}
	r.publish(receipt)
}
