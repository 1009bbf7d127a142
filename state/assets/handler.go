package assets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nbd-wtf/go-nostr"
	"tokensale/state/claimtokens"
)

// Kinds lists the ledger and registry operations the directory handles.
var Kinds = []int{KindApprove, KindTransfer, claimtokens.KindMint, claimtokens.KindTransfer}

// HandleEvent applies a signed ledger or registry operation. The author is
// the owner of the units or token being moved. Changes are staged in the
// batch carried by ctx when there is one. The returned balances are committed
// ones.
func (d *Directory) HandleEvent(ctx context.Context, event nostr.Event) (m Mapped, err error) {
	switch event.Kind {
	case KindApprove:
		err = d.handle640860(ctx, event)
	case KindTransfer:
		err = d.handle640862(ctx, event)
	case claimtokens.KindMint:
		err = d.handle640870(ctx, event)
	case claimtokens.KindTransfer:
		err = d.handle640872(ctx, event)
	default:
		return nil, fmt.Errorf("I am the assets mind, event %s was sent to me but I don't know how to handle kind %d", event.ID, event.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", event.ID, err)
	}
	return d.GetMapped(), nil
}

func parseAmount(s string) (*uint256.Int, error) {
	z, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a decimal amount: %w", s, err)
	}
	return z, nil
}

func (d *Directory) handle640860(ctx context.Context, event nostr.Event) error {
	var unmarshalled Kind640860
	if err := json.Unmarshal([]byte(event.Content), &unmarshalled); err != nil {
		return err
	}
	l, err := d.Ledger(unmarshalled.Ledger)
	if err != nil {
		return err
	}
	amount, err := parseAmount(unmarshalled.Amount)
	if err != nil {
		return err
	}
	return l.Approve(ctx, event.PubKey, unmarshalled.Spender, amount)
}

func (d *Directory) handle640862(ctx context.Context, event nostr.Event) error {
	var unmarshalled Kind640862
	if err := json.Unmarshal([]byte(event.Content), &unmarshalled); err != nil {
		return err
	}
	l, err := d.Ledger(unmarshalled.Ledger)
	if err != nil {
		return err
	}
	amount, err := parseAmount(unmarshalled.Amount)
	if err != nil {
		return err
	}
	ok, err := l.Transfer(ctx, event.PubKey, unmarshalled.To, amount)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s could not send %s on %s", event.PubKey, amount.Dec(), l.ID())
	}
	return nil
}

func (d *Directory) handle640870(ctx context.Context, event nostr.Event) error {
	var unmarshalled claimtokens.Kind640870
	if err := json.Unmarshal([]byte(event.Content), &unmarshalled); err != nil {
		return err
	}
	r, err := d.Registry(unmarshalled.Registry)
	if err != nil {
		return err
	}
	id, err := parseAmount(unmarshalled.TokenID)
	if err != nil {
		return err
	}
	to := unmarshalled.To
	if to == "" {
		to = event.PubKey
	}
	return r.Mint(ctx, event.PubKey, to, id)
}

func (d *Directory) handle640872(ctx context.Context, event nostr.Event) error {
	var unmarshalled claimtokens.Kind640872
	if err := json.Unmarshal([]byte(event.Content), &unmarshalled); err != nil {
		return err
	}
	r, err := d.Registry(unmarshalled.Registry)
	if err != nil {
		return err
	}
	id, err := parseAmount(unmarshalled.TokenID)
	if err != nil {
		return err
	}
	return r.Transfer(ctx, event.PubKey, unmarshalled.To, id)
}
