package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/maps"
	"tokensale/engine/library"
	"tokensale/state/claimtokens"
	"tokensale/state/sale"
	"tokensale/storage"
)

const keyGenesis = "assets/genesis"

// Directory holds the ledgers and claim token registries running in this
// engine and resolves them by id for the sale.
type Directory struct {
	fungibles   map[library.Account]*Ledger
	claimTokens map[library.Account]*claimtokens.Registry
	mutex       *deadlock.Mutex
}

var _ sale.Directory = (*Directory)(nil)

func NewDirectory() *Directory {
	return &Directory{
		fungibles:   make(map[library.Account]*Ledger),
		claimTokens: make(map[library.Account]*claimtokens.Registry),
		mutex:       &deadlock.Mutex{},
	}
}

// AddLedger registers l, replacing any ledger with the same id.
func (d *Directory) AddLedger(l *Ledger) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.fungibles[l.ID()] = l
}

func (d *Directory) AddRegistry(r *claimtokens.Registry) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.claimTokens[r.ID()] = r
}

func (d *Directory) Ledger(id library.Account) (*Ledger, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	l, ok := d.fungibles[id]
	if !ok {
		return nil, fmt.Errorf("no fungible ledger %s", id)
	}
	return l, nil
}

func (d *Directory) Registry(id library.Account) (*claimtokens.Registry, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	r, ok := d.claimTokens[id]
	if !ok {
		return nil, fmt.Errorf("no claim token registry %s", id)
	}
	return r, nil
}

func (d *Directory) Fungible(id library.Account) (sale.FungibleAsset, error) {
	l, err := d.Ledger(id)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (d *Directory) ClaimTokens(id library.Account) (sale.ClaimTokenRegistry, error) {
	r, err := d.Registry(id)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *Directory) GetMapped() Mapped {
	d.mutex.Lock()
	ledgers := maps.Values(d.fungibles)
	d.mutex.Unlock()
	m := make(Mapped, len(ledgers))
	for _, l := range ledgers {
		m[l.ID()] = l.Balances()
	}
	return m
}

// Seed mints balances, ledger id to account to decimal amount, the first time
// it runs against db. Later calls find the balances already in the store and
// mint nothing. Ledgers named in balances must already be added.
func (d *Directory) Seed(ctx context.Context, db storage.Beginner, balances map[library.Account]map[library.Account]string) (bool, error) {
	b := storage.NewBatch(db.Begin(true))
	defer b.Discard()
	if _, err := b.Get(keyGenesis); err == nil {
		return false, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}
	ctx = storage.WithBatch(ctx, b)
	for id, accounts := range balances {
		l, err := d.Ledger(id)
		if err != nil {
			return false, fmt.Errorf("genesis: %w", err)
		}
		for account, amount := range accounts {
			z, err := uint256.FromDecimal(amount)
			if err != nil {
				return false, fmt.Errorf("genesis balance of %s on %s: %w", account, id, err)
			}
			if err = l.Mint(ctx, account, z); err != nil {
				return false, err
			}
		}
	}
	if err := b.Put(keyGenesis, []byte("seeded")); err != nil {
		return false, err
	}
	return true, b.Commit()
}
