package blocks

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
	"tokensale/engine/library"
)

// Chain keeps time by block headers announced by a trusted source. Now is
// the median time of the tip, so every engine that saw the same headers
// agrees on it.
type Chain struct {
	source library.Account
	blocks Mapped
	m      monotonic
	mutex  *deadlock.Mutex
}

func NewChain(source library.Account) *Chain {
	return &Chain{
		source: source,
		blocks: make(Mapped),
		m:      monotonic{mutex: &deadlock.Mutex{}},
		mutex:  &deadlock.Mutex{},
	}
}

func (c *Chain) Now() uint64 {
	t, ok := c.Tip()
	if !ok {
		return c.m.observe(0)
	}
	return c.m.observe(uint64(t.MedianTime.Unix()))
}

func (c *Chain) Tip() (t Block, b bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.tip()
}

func (c *Chain) tip() (t Block, b bool) {
	for _, block := range c.blocks {
		if block.Height > t.Height {
			t = block
			b = true
		}
	}
	return
}

func (c *Chain) HandleEvent(event nostr.Event) (m Mapped, e error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if event.Kind != KindBlock {
		return nil, fmt.Errorf("invalid kind")
	}
	if event.PubKey != c.source {
		return nil, fmt.Errorf("event %s: pubkey %s is not the block source", event.ID, event.PubKey)
	}

	hash, ok := library.GetFirstTag(event, "hash")
	if !ok {
		return nil, fmt.Errorf("failed to get block hash from event")
	}
	heightInt, err := intTag(event, "height")
	if err != nil {
		return nil, err
	}
	minerTimeInt, err := intTag(event, "minertime")
	if err != nil {
		return nil, err
	}
	mediantimeInt, err := intTag(event, "mediantime")
	if err != nil {
		return nil, err
	}
	difficultyInt, err := intTag(event, "difficulty")
	if err != nil {
		return nil, err
	}

	if existing, exists := c.blocks[heightInt]; exists {
		if existing.Hash == hash {
			return nil, fmt.Errorf("we already have this block")
		}
	}
	t, ok := c.tip()
	if ok {
		if t.Height >= heightInt {
			return nil, fmt.Errorf("this block is not higher than our current block")
		}
	}
	c.blocks[heightInt] = Block{
		Height:     heightInt,
		Hash:       hash,
		MedianTime: time.Unix(mediantimeInt, 0),
		MinerTime:  time.Unix(minerTimeInt, 0),
		Difficulty: difficultyInt,
	}
	return c.getMapped(), nil
}

func intTag(event nostr.Event, name string) (int64, error) {
	s, ok := library.GetFirstTag(event, name)
	if !ok {
		return 0, fmt.Errorf("failed to get block %s from event", name)
	}
	return strconv.ParseInt(s, 10, 64)
}

func (c *Chain) getMapped() Mapped {
	m := make(Mapped, len(c.blocks))
	for h, b := range c.blocks {
		m[h] = b
	}
	return m
}
