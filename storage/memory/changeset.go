package memory

import (
	"fmt"

	"tokensale/storage"
)

type GetFunc = func(key string) ([]byte, error)
type CommitFunc = func(map[string][]byte) error
type DiscardFunc = func()

// ChangeSet buffers writes in a map so Get sees values updated with Put,
// whatever the backing store does. Commit hands the whole map to the backend.
type ChangeSet struct {
	get     GetFunc
	commit  CommitFunc
	discard DiscardFunc
	pending map[string][]byte
	done    bool
}

var _ storage.ChangeSet = (*ChangeSet)(nil)

// NewChangeSet builds a change set over a backend. A nil commit makes it read-only.
func NewChangeSet(get GetFunc, commit CommitFunc, discard DiscardFunc) *ChangeSet {
	return &ChangeSet{
		get:     get,
		commit:  commit,
		discard: discard,
		pending: make(map[string][]byte),
	}
}

func (c *ChangeSet) Get(key string) ([]byte, error) {
	if c.done {
		return nil, fmt.Errorf("get %s: change set is closed", key)
	}
	if v, ok := c.pending[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return c.get(key)
}

func (c *ChangeSet) Put(key string, value []byte) error {
	if c.done {
		return fmt.Errorf("put %s: change set is closed", key)
	}
	if c.commit == nil {
		return storage.ErrReadOnly
	}
	c.pending[key] = append([]byte(nil), value...)
	return nil
}

func (c *ChangeSet) Commit() error {
	if c.done {
		return fmt.Errorf("commit: change set is closed")
	}
	if c.commit == nil {
		return storage.ErrReadOnly
	}
	defer c.Discard()
	if len(c.pending) == 0 {
		return nil
	}
	return c.commit(c.pending)
}

func (c *ChangeSet) Discard() {
	if c.done {
		return
	}
	c.done = true
	c.pending = nil
	if c.discard != nil {
		c.discard()
	}
}
