package badger

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sasha-s/go-deadlock"
	"tokensale/engine/library"
	"tokensale/storage"
	"tokensale/storage/memory"
)

// Database is a change set store backed by Badger.
type Database struct {
	badger *badger.DB
	ready  bool
	mu     *deadlock.RWMutex
	done   chan struct{}
}

var _ storage.Beginner = (*Database)(nil)

// New opens (or creates) the database in dir.
func New(dir string) (*Database, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("open badger: create %q: %w", dir, err)
	}

	opts := badger.DefaultOptions(dir).WithLogger(logger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	d := &Database{
		badger: db,
		ready:  true,
		mu:     &deadlock.RWMutex{},
		done:   make(chan struct{}),
	}
	go d.gc()
	return d, nil
}

// Begin begins a change set. Reads go through a read-only transaction; the
// pending writes are applied in a single update transaction on commit.
func (d *Database) Begin(writable bool) storage.ChangeSet {
	rd := d.badger.NewTransaction(false)

	get := func(key string) ([]byte, error) {
		item, err := rd.Get([]byte(key))
		switch {
		case err == nil:
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil, storage.ErrNotFound
		default:
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		v, err := item.ValueCopy(nil)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		return v, nil
	}

	var commit memory.CommitFunc
	if writable {
		commit = func(entries map[string][]byte) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			if !d.ready {
				return fmt.Errorf("commit: database is closed")
			}
			return d.badger.Update(func(txn *badger.Txn) error {
				for k, v := range entries {
					if err := txn.Set([]byte(k), v); err != nil {
						return fmt.Errorf("set %s: %w", k, err)
					}
				}
				return nil
			})
		}
	}

	return memory.NewChangeSet(get, commit, rd.Discard)
}

// Close closes the underlying database.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ready {
		return nil
	}
	d.ready = false
	close(d.done)
	return d.badger.Close()
}

func (d *Database) gc() {
	for {
		select {
		case <-d.done:
			return
		case <-time.After(time.Hour):
		}

		d.mu.RLock()
		if !d.ready {
			d.mu.RUnlock()
			return
		}
		// Run GC if 50% space could be reclaimed
		err := d.badger.RunValueLogGC(0.5)
		d.mu.RUnlock()
		if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
			library.LogCLI(fmt.Sprintf("badger GC failed: %s", err), 1)
		}
	}
}
