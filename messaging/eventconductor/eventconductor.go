package eventconductor

import (
	"context"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/slices"
	"tokensale/engine/actors"
	"tokensale/engine/library"
	"tokensale/messaging/blocks"
	"tokensale/state/assets"
	"tokensale/state/replay"
	"tokensale/state/sale"
)

// Minds are the state machines events are routed to. Chain is optional.
type Minds struct {
	Sale   *sale.Mind
	Assets *assets.Directory
	Replay *replay.Replay
	Chain  *blocks.Chain
}

// Conductor verifies incoming events, applies each at most once through the
// replay mind, and publishes a signed state snapshot after every change.
type Conductor struct {
	minds         Minds
	state         *actors.CurrentState
	wallet        library.Wallet
	publish       func(nostr.Event)
	eventsInState map[library.Sha256]struct{}
	mu            *deadlock.Mutex
}

func New(minds Minds, wallet library.Wallet, publish func(nostr.Event)) *Conductor {
	return &Conductor{
		minds:         minds,
		state:         actors.NewCurrentState(),
		wallet:        wallet,
		publish:       publish,
		eventsInState: make(map[library.Sha256]struct{}),
		mu:            &deadlock.Mutex{},
	}
}

// Run handles events from in until ctx is done. Events are queued as they
// arrive and handled in arrival order on every tick.
func (c *Conductor) Run(ctx context.Context, in <-chan nostr.Event, tick time.Duration) {
	actors.GetWaitGroup().Add(1)
	defer actors.GetWaitGroup().Done()
	queue := library.NewEventQueue(16)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case e, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			queue.Push(&e)
		case <-ticker.C:
			for {
				event, ok := queue.Pop()
				if !ok {
					break
				}
				if err := c.HandleEvent(ctx, *event); err != nil {
					library.LogCLI(err.Error(), 2)
				}
			}
		case <-ctx.Done():
			library.LogCLI(fmt.Sprintf("Event conductor has shut down with %d events unhandled", queue.Len()), 4)
			return
		}
	}
}

// HandleEvent applies a single event.
func (c *Conductor) HandleEvent(ctx context.Context, e nostr.Event) error {
	if ok, err := e.CheckSignature(); !ok {
		return fmt.Errorf("event %s has an invalid signature: %v", e.ID, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.eventsInState[e.ID]; exists {
		return fmt.Errorf("event %s is already in our local state", e.ID)
	}
	library.LogCLI(fmt.Sprintf("Attempting to handle event %s of kind %d", e.ID, e.Kind), 3)
	mindName, err := c.routeEvent(ctx, e)
	if err != nil {
		return err
	}
	c.eventsInState[e.ID] = struct{}{}
	library.LogCLI(fmt.Sprintf("Handled event %s in the %s mind", e.ID, mindName), 4)
	return c.publishState(e.ID)
}

func (c *Conductor) routeEvent(ctx context.Context, e nostr.Event) (mindName string, err error) {
	switch k := e.Kind; {
	case k == blocks.KindBlock && c.minds.Chain != nil:
		mindName = "blocks"
		_, err = c.minds.Chain.HandleEvent(e)
	case slices.Contains(sale.Kinds, k):
		mindName = "sale"
		err = c.minds.Replay.HandleEvent(ctx, e, func(ctx context.Context) error {
			_, err := c.minds.Sale.HandleEvent(ctx, e)
			return err
		})
	case slices.Contains(assets.Kinds, k):
		mindName = "assets"
		err = c.minds.Replay.HandleEvent(ctx, e, func(ctx context.Context) error {
			_, err := c.minds.Assets.HandleEvent(ctx, e)
			return err
		})
	default:
		err = fmt.Errorf("no mind to handle kind %d", k)
	}
	return
}

func (c *Conductor) publishState(last library.Sha256) error {
	saleState, err := c.minds.Sale.GetMapped()
	if err != nil {
		return err
	}
	saleHash, err := c.minds.Sale.StateHash()
	if err != nil {
		return err
	}
	replayState, err := c.minds.Replay.GetMapped()
	if err != nil {
		return err
	}
	c.state.AppendState("sale", saleState)
	c.state.AppendState("saleHash", saleHash)
	c.state.AppendState("assets", c.minds.Assets.GetMapped())
	c.state.AppendState("replay", replayState)
	if c.minds.Chain != nil {
		if tip, ok := c.minds.Chain.Tip(); ok {
			c.state.AppendState("blocks", tip)
		}
	}
	c.state.AppendState("lastEvent", last)
	b, err := c.state.JSON()
	if err != nil {
		return err
	}
	snapshot, err := actors.CurrentStateEventBuilder(c.wallet, string(b))
	if err != nil {
		return err
	}
	c.publish(snapshot)
	return nil
}

// CurrentState is the last state this conductor published.
func (c *Conductor) CurrentState() actors.CurrentState {
	return c.state.CurrentStateMap()
}
