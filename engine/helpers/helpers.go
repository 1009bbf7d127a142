package helpers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"tokensale/engine/actors"
	"tokensale/engine/library"
)

// OperationEvent signs content as an operation of kind. previous is the ID of
// the author's last applied operation, or actors.ReplayPrevention for the first.
func OperationEvent(w library.Wallet, kind int, content interface{}, previous library.Sha256) (r nostr.Event, err error) {
	b, err := json.Marshal(content)
	if err != nil {
		return r, fmt.Errorf("encoding kind %d: %w", kind, err)
	}
	r = nostr.Event{
		PubKey:    w.Account,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Kind:      kind,
		Tags: nostr.Tags{
			nostr.Tag{"e", actors.SaleRoot, "", "root"},
			nostr.Tag{"r", previous},
		},
		Content: string(b),
	}
	err = r.Sign(w.PrivateKey)
	return
}

// ReceiptEvent signs a receipt for a committed operation.
func ReceiptEvent(w library.Wallet, kind int, content interface{}) (r nostr.Event, err error) {
	b, err := json.Marshal(content)
	if err != nil {
		return r, fmt.Errorf("encoding receipt kind %d: %w", kind, err)
	}
	r = nostr.Event{
		PubKey:    w.Account,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Kind:      kind,
		Tags: nostr.Tags{
			nostr.Tag{"e", actors.Receipts, "", "reply"},
			nostr.Tag{"e", actors.SaleRoot, "", "root"},
		},
		Content: string(b),
	}
	err = r.Sign(w.PrivateKey)
	return
}
