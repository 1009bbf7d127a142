package actors

import (
	"encoding/json"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
	"tokensale/engine/library"
)

// KindCurrentState is a signed snapshot of everything this engine holds.
const KindCurrentState = 10311

type CurrentState struct {
	Sale      any            `json:"sale"`
	SaleHash  library.Sha256 `json:"sale_hash"`
	Assets    any            `json:"assets"`
	Replay    any            `json:"replay"`
	Blocks    any            `json:"blocks,omitempty"`
	LastEvent library.Sha256 `json:"last_event"`
	mu        *deadlock.Mutex
}

func NewCurrentState() *CurrentState {
	return &CurrentState{mu: &deadlock.Mutex{}}
}

// AppendState replaces the named part and returns a copy of the whole.
func (c *CurrentState) AppendState(name string, state any) (CurrentState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case "sale":
		c.Sale = state
	case "saleHash":
		h, ok := state.(library.Sha256)
		if !ok {
			return CurrentState{}, false
		}
		c.SaleHash = h
	case "assets":
		c.Assets = state
	case "replay":
		c.Replay = state
	case "blocks":
		c.Blocks = state
	case "lastEvent":
		h, ok := state.(library.Sha256)
		if !ok {
			return CurrentState{}, false
		}
		c.LastEvent = h
	default:
		return CurrentState{}, false
	}
	return c.copy(), true
}

func (c *CurrentState) CurrentStateMap() CurrentState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copy()
}

func (c *CurrentState) copy() CurrentState {
	cp := *c
	cp.mu = nil
	return cp
}

func (c *CurrentState) JSON() ([]byte, error) {
	s := c.CurrentStateMap()
	return json.Marshal(s)
}

// CurrentStateEventBuilder signs state as a snapshot event replying to CurrentStates.
func CurrentStateEventBuilder(w library.Wallet, state string) (nostr.Event, error) {
	e := nostr.Event{
		PubKey:    w.Account,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Kind:      KindCurrentState,
		Tags:      nostr.Tags{nostr.Tag{"e", CurrentStates, "", "reply"}, nostr.Tag{"e", SaleRoot, "", "root"}},
		Content:   state,
	}
	err := e.Sign(w.PrivateKey)
	return e, err
}
