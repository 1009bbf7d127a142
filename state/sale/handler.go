package sale

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nbd-wtf/go-nostr"
)

// Kinds lists every operation kind the sale mind handles.
var Kinds = []int{
	KindInitialize,
	KindPurchase,
	KindEnableDelegation,
	KindClaimDirect,
	KindClaimAsDelegate,
	KindClaimUnlocked,
	KindUpdatePrice,
}

// HandleEvent applies a signed operation event. The author is the caller.
// Signatures are checked by the conductor before events reach a mind.
func (m *Mind) HandleEvent(ctx context.Context, event nostr.Event) (Mapped, error) {
	var err error
	switch event.Kind {
	case KindInitialize:
		err = m.handle640800(ctx, event)
	case KindPurchase:
		err = m.handle640802(ctx, event)
	case KindEnableDelegation:
		err = m.handle640804(ctx, event)
	case KindClaimDirect:
		_, err = m.ClaimDirect(ctx, event.PubKey)
	case KindClaimAsDelegate:
		err = m.handle640808(ctx, event)
	case KindClaimUnlocked:
		_, err = m.ClaimUnlocked(ctx, event.PubKey)
	case KindUpdatePrice:
		err = m.handle640812(ctx, event)
	default:
		return nil, fmt.Errorf("I am the sale mind, event %s was sent to me but I don't know how to handle kind %d", event.ID, event.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", event.ID, err)
	}
	return m.getMapped(ctx)
}

func unmarshalContent(event nostr.Event, v interface{}) error {
	if err := json.Unmarshal([]byte(event.Content), v); err != nil {
		return fmt.Errorf("%s reported for event %s", err.Error(), event.ID)
	}
	return nil
}

func (m *Mind) handle640800(ctx context.Context, event nostr.Event) error {
	var unmarshalled Kind640800
	if err := unmarshalContent(event, &unmarshalled); err != nil {
		return err
	}
	params, err := unmarshalled.Params()
	if err != nil {
		return err
	}
	return m.Initialize(ctx, event.PubKey, params)
}

func (m *Mind) handle640802(ctx context.Context, event nostr.Event) error {
	var unmarshalled Kind640802
	if err := unmarshalContent(event, &unmarshalled); err != nil {
		return err
	}
	amount := new(uint256.Int)
	if err := decodeAmount(unmarshalled.Amount, amount); err != nil {
		return err
	}
	return m.Purchase(ctx, event.PubKey, amount)
}

func (m *Mind) handle640804(ctx context.Context, event nostr.Event) error {
	var unmarshalled Kind640804
	if err := unmarshalContent(event, &unmarshalled); err != nil {
		return err
	}
	id := new(uint256.Int)
	if err := decodeAmount(unmarshalled.ClaimTokenID, id); err != nil {
		return err
	}
	return m.EnableDelegation(ctx, event.PubKey, id)
}

func (m *Mind) handle640808(ctx context.Context, event nostr.Event) error {
	var unmarshalled Kind640808
	if err := unmarshalContent(event, &unmarshalled); err != nil {
		return err
	}
	_, err := m.ClaimAsDelegate(ctx, event.PubKey, unmarshalled.Purchaser)
	return err
}

func (m *Mind) handle640812(ctx context.Context, event nostr.Event) error {
	var unmarshalled Kind640812
	if err := unmarshalContent(event, &unmarshalled); err != nil {
		return err
	}
	price := new(uint256.Int)
	if err := decodeAmount(unmarshalled.PricePerToken, price); err != nil {
		return err
	}
	return m.UpdatePrice(ctx, event.PubKey, price)
}
