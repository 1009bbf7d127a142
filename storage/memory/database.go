package memory

import (
	"github.com/sasha-s/go-deadlock"
	"tokensale/storage"
)

// Database is an in-process key-value store.
type Database struct {
	mu      *deadlock.RWMutex
	entries map[string][]byte
}

var _ storage.Beginner = (*Database)(nil)

func New() *Database {
	return &Database{
		mu:      &deadlock.RWMutex{},
		entries: make(map[string][]byte),
	}
}

// Begin begins a change set.
func (d *Database) Begin(writable bool) storage.ChangeSet {
	var commit CommitFunc
	if writable {
		commit = d.put
	}
	return NewChangeSet(d.get, commit, nil)
}

// Export copies every committed entry. Used for snapshots and the engine's state view.
func (d *Database) Export() map[string][]byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m := make(map[string][]byte, len(d.entries))
	for k, v := range d.entries {
		m[k] = append([]byte(nil), v...)
	}
	return m
}

func (d *Database) get(key string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.entries[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (d *Database) put(entries map[string][]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, v := range entries {
		d.entries[k] = v
	}
	return nil
}
