package sale

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/slices"
	"tokensale/engine/library"
	"tokensale/storage"
)

const (
	keyConfig     = "sale/config"
	keyTotal      = "sale/total"
	keyPurchasers = "sale/purchasers"
	keyPurchaser  = "sale/purchaser/"
)

// Mind owns the sale. Every operation runs under its mutex inside one change
// set; nothing it stages is visible until the change set commits.
type Mind struct {
	db     storage.Beginner
	assets Directory
	clock  Clock
	sink   Sink
	self   library.Account
	mutex  *deadlock.Mutex
}

type Option func(*Mind)

// WithSink delivers receipts of committed operations to s.
func WithSink(s Sink) Option {
	return func(m *Mind) {
		m.sink = s
	}
}

// New returns the sale mind for the sale account self.
func New(db storage.Beginner, assets Directory, clock Clock, self library.Account, opts ...Option) *Mind {
	m := &Mind{
		db:     db,
		assets: assets,
		clock:  clock,
		sink:   discard{},
		self:   self,
		mutex:  &deadlock.Mutex{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Account is the sale's own account on the ledgers.
func (m *Mind) Account() library.Account {
	return m.self
}

// op is one operation in flight. ctx carries cs so collaborators stage their
// moves in the same batch.
type op struct {
	ctx    context.Context
	cs     *storage.Batch
	now    uint64
	events []Event
}

func (o *op) emit(e Event) {
	o.events = append(o.events, e)
}

// execute runs fn inside the batch carried by ctx, or a batch of its own that
// it commits only if fn succeeds. Receipts go to the sink once the batch
// commits. When fn fails inside a caller's batch, the caller must discard it.
func (m *Mind) execute(ctx context.Context, name string, caller library.Account, fn func(o *op) error) error {
	b, owned, ctx := storage.Join(ctx, m.db)
	if owned {
		defer b.Discard()
	}
	b.Lock(m.mutex)
	o := &op{ctx: ctx, cs: b, now: m.clock.Now()}
	if err := fn(o); err != nil {
		library.LogCLI(fmt.Sprintf("%s by %s rejected at %d: %s", name, caller, o.now, err), 3)
		return err
	}
	b.OnCommit(func() {
		library.LogCLI(fmt.Sprintf("%s by %s handled at %d", name, caller, o.now), 4)
		for _, e := range o.events {
			m.sink.Emit(e)
		}
	})
	if !owned {
		return nil
	}
	if err := b.Commit(); err != nil {
		library.LogCLI(fmt.Sprintf("%s by %s could not be committed: %s", name, caller, err), 1)
		return fmt.Errorf("%s: commit: %w", name, err)
	}
	return nil
}

// view runs fn against a read-only change set.
func (m *Mind) view(fn func(o *op) error) error {
	return m.viewIn(context.Background(), fn)
}

// viewIn reads through the batch carried by ctx when there is one, so it sees
// what the batch has staged.
func (m *Mind) viewIn(ctx context.Context, fn func(o *op) error) error {
	if b, ok := storage.BatchFrom(ctx); ok {
		b.Lock(m.mutex)
		return fn(&op{ctx: ctx, cs: b, now: m.clock.Now()})
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	b := storage.NewBatch(m.db.Begin(false))
	defer b.Discard()
	return fn(&op{ctx: ctx, cs: b, now: m.clock.Now()})
}

func (o *op) load(key string, v interface{}) (bool, error) {
	b, err := o.cs.Get(key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err = json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (o *op) store(key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err = o.cs.Put(key, b); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (o *op) config() (c Config, err error) {
	_, err = o.load(keyConfig, &c)
	return
}

// initializedConfig loads the config and fails with ErrNotInitialized before
// anything else is looked at.
func (o *op) initializedConfig() (Config, error) {
	c, err := o.config()
	if err != nil {
		return c, err
	}
	if !c.Initialized {
		return c, ErrNotInitialized
	}
	return c, nil
}

func (o *op) putConfig(c Config) error {
	return o.store(keyConfig, c)
}

func (o *op) total() (*uint256.Int, error) {
	var s string
	if _, err := o.load(keyTotal, &s); err != nil {
		return nil, err
	}
	z := new(uint256.Int)
	if err := decodeAmount(s, z); err != nil {
		return nil, fmt.Errorf("decode %s: %w", keyTotal, err)
	}
	return z, nil
}

func (o *op) putTotal(z *uint256.Int) error {
	return o.store(keyTotal, z.Dec())
}

// purchaser returns the record for account, or an empty one.
func (o *op) purchaser(account library.Account) (p Purchaser, err error) {
	_, err = o.load(keyPurchaser+account, &p)
	p.Account = account
	return
}

func (o *op) putPurchaser(p Purchaser) error {
	if err := o.store(keyPurchaser+p.Account, p); err != nil {
		return err
	}
	accounts, err := o.accounts()
	if err != nil {
		return err
	}
	i, found := slices.BinarySearch(accounts, p.Account)
	if found {
		return nil
	}
	return o.store(keyPurchasers, slices.Insert(accounts, i, p.Account))
}

// accounts lists every purchaser in ascending order.
func (o *op) accounts() (a []library.Account, err error) {
	_, err = o.load(keyPurchasers, &a)
	return
}

func (m *Mind) transfer(o *op, ledger, to library.Account, amount *uint256.Int) error {
	asset, err := m.assets.Fungible(ledger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	ok, err := asset.Transfer(o.ctx, m.self, to, amount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if !ok {
		return ErrTransferFailed
	}
	return nil
}

func (m *Mind) transferFrom(o *op, ledger, from, to library.Account, amount *uint256.Int) error {
	asset, err := m.assets.Fungible(ledger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	ok, err := asset.TransferFrom(o.ctx, m.self, from, to, amount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if !ok {
		return ErrTransferFailed
	}
	return nil
}
