package sale

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/holiman/uint256"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"tokensale/engine/library"
)

func (m *Mind) Config() (c Config, err error) {
	err = m.view(func(o *op) error {
		c, err = o.initializedConfig()
		return err
	})
	return
}

// Purchaser returns the record for account. Accounts that never bought get
// an empty record.
func (m *Mind) Purchaser(account library.Account) (p Purchaser, err error) {
	err = m.view(func(o *op) error {
		p, err = o.purchaser(account)
		return err
	})
	return
}

func (m *Mind) TotalPurchased() (total *uint256.Int, err error) {
	err = m.view(func(o *op) error {
		total, err = o.total()
		return err
	})
	return
}

// Claimable is what a claim by account would release right now. Nothing is
// changed.
func (m *Mind) Claimable(account library.Account) (amount *uint256.Int, err error) {
	amount = new(uint256.Int)
	err = m.view(func(o *op) error {
		c, err := o.initializedConfig()
		if err != nil {
			return err
		}
		p, err := o.purchaser(account)
		if err != nil {
			return err
		}
		if !p.TokensClaimed.Lt(&p.TokensPurchased) {
			return nil
		}
		if !c.VestingEnabled() {
			if p.TokensClaimed.IsZero() {
				amount.Set(&p.TokensPurchased)
			}
			return nil
		}
		r, err := computeRelease(c, p, o.now)
		if err != nil {
			return err
		}
		amount.Set(&r.Amount)
		return nil
	})
	return
}

// GetMapped copies every purchaser record.
func (m *Mind) GetMapped() (Mapped, error) {
	return m.getMapped(context.Background())
}

func (m *Mind) getMapped(ctx context.Context) (Mapped, error) {
	mapped := make(Mapped)
	err := m.viewIn(ctx, func(o *op) error {
		accounts, err := o.accounts()
		if err != nil {
			return err
		}
		for _, account := range accounts {
			p, err := o.purchaser(account)
			if err != nil {
				return err
			}
			mapped[account] = p
		}
		return nil
	})
	return mapped, err
}

// StateHash commits to the config, the running total and every purchaser
// record in account order.
func (m *Mind) StateHash() (library.Sha256, error) {
	var b bytes.Buffer
	err := m.view(func(o *op) error {
		c, err := o.config()
		if err != nil {
			return err
		}
		total, err := o.total()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(&b)
		if err = enc.Encode(c); err != nil {
			return err
		}
		b.WriteString(total.Dec())
		accounts, err := o.accounts()
		if err != nil {
			return err
		}
		for _, account := range accounts {
			p, err := o.purchaser(account)
			if err != nil {
				return err
			}
			if err = enc.Encode(p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return library.Sha256Sum(b.Bytes()), nil
}

// Accounts lists the purchasers of a mapped view in ascending order.
func (mapped Mapped) Accounts() []library.Account {
	keys := maps.Keys(mapped)
	slices.Sort(keys)
	return keys
}
