package assets

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

// ErrHalted is returned by every movement on a halted ledger.
var ErrHalted = errors.New("ledger is halted")

// Ledger is a fungible asset: balances plus allowances that let an operator
// move units on an owner's behalf. A transfer that cannot be covered returns
// false and changes nothing. Balances live in the store; movements are staged
// in the batch carried by the context so they commit together with the
// operation that caused them.
type Ledger struct {
	db     storage.Beginner
	id     library.Account
	halted bool
	mutex  *deadlock.Mutex
}

func NewLedger(db storage.Beginner, id library.Account) *Ledger {
	return &Ledger{
		db:    db,
		id:    id,
		mutex: &deadlock.Mutex{},
	}
}

func (l *Ledger) ID() library.Account {
	return l.id
}

// Halt stops or resumes every movement of units.
func (l *Ledger) Halt(halted bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.halted = halted
}

func (l *Ledger) key(parts ...string) string {
	k := "assets/" + l.id
	for _, p := range parts {
		k += "/" + p
	}
	return k
}

func (l *Ledger) amount(s storage.Store, key string) (*uint256.Int, error) {
	b, err := s.Get(key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return new(uint256.Int), nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", l.id, err)
	}
	z, err := uint256.FromDecimal(string(b))
	if err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", l.id, key, err)
	}
	return z, nil
}

func (l *Ledger) balance(s storage.Store, account library.Account) (*uint256.Int, error) {
	return l.amount(s, l.key("balance", account))
}

func (l *Ledger) allowance(s storage.Store, owner, spender library.Account) (*uint256.Int, error) {
	return l.amount(s, l.key("allowance", owner, spender))
}

func (l *Ledger) accounts(s storage.Store) (a []library.Account, err error) {
	b, err := s.Get(l.key("accounts"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", l.id, err)
	}
	err = json.Unmarshal(b, &a)
	return
}

func (l *Ledger) putBalance(s storage.Store, account library.Account, z *uint256.Int) error {
	if err := s.Put(l.key("balance", account), []byte(z.Dec())); err != nil {
		return err
	}
	accounts, err := l.accounts(s)
	if err != nil {
		return err
	}
	i, found := slices.BinarySearch(accounts, account)
	if found {
		return nil
	}
	b, err := json.Marshal(slices.Insert(accounts, i, account))
	if err != nil {
		return err
	}
	return s.Put(l.key("accounts"), b)
}

// update runs fn in the batch carried by ctx, or in one of its own.
func (l *Ledger) update(ctx context.Context, fn func(b *storage.Batch) error) error {
	b, owned, _ := storage.Join(ctx, l.db)
	if owned {
		defer b.Discard()
	}
	b.Lock(l.mutex)
	if err := fn(b); err != nil {
		return err
	}
	if owned {
		return b.Commit()
	}
	return nil
}

func (l *Ledger) Mint(ctx context.Context, to library.Account, amount *uint256.Int) error {
	if library.IsZeroAccount(to) {
		return fmt.Errorf("cannot mint to the zero account")
	}
	return l.update(ctx, func(b *storage.Batch) error {
		supply, err := l.amount(b, l.key("supply"))
		if err != nil {
			return err
		}
		if _, overflow := supply.AddOverflow(supply, amount); overflow {
			return fmt.Errorf("minting %s on %s would overflow the supply", amount.Dec(), l.id)
		}
		balance, err := l.balance(b, to)
		if err != nil {
			return err
		}
		if err = l.putBalance(b, to, balance.Add(balance, amount)); err != nil {
			return err
		}
		return b.Put(l.key("supply"), []byte(supply.Dec()))
	})
}

func (l *Ledger) Approve(ctx context.Context, owner, spender library.Account, amount *uint256.Int) error {
	if library.IsZeroAccount(spender) {
		return fmt.Errorf("cannot approve the zero account")
	}
	return l.update(ctx, func(b *storage.Batch) error {
		return b.Put(l.key("allowance", owner, spender), []byte(amount.Dec()))
	})
}

// view reads committed state. Errors are logged and read as zero.
func (l *Ledger) view(fn func(s storage.Store) (*uint256.Int, error)) *uint256.Int {
	var z *uint256.Int
	err := storage.Read(context.Background(), l.db, func(s storage.Store) (err error) {
		z, err = fn(s)
		return
	})
	if err != nil {
		library.LogCLI(err.Error(), 1)
		return new(uint256.Int)
	}
	return z
}

func (l *Ledger) BalanceOf(account library.Account) *uint256.Int {
	return l.view(func(s storage.Store) (*uint256.Int, error) { return l.balance(s, account) })
}

func (l *Ledger) Allowance(owner, spender library.Account) *uint256.Int {
	return l.view(func(s storage.Store) (*uint256.Int, error) { return l.allowance(s, owner, spender) })
}

func (l *Ledger) TotalSupply() *uint256.Int {
	return l.view(func(s storage.Store) (*uint256.Int, error) { return l.amount(s, l.key("supply")) })
}

func (l *Ledger) Transfer(ctx context.Context, from, to library.Account, amount *uint256.Int) (ok bool, err error) {
	err = l.update(ctx, func(b *storage.Batch) error {
		if l.halted {
			return ErrHalted
		}
		ok, err = l.move(b, from, to, amount)
		return err
	})
	return ok && err == nil, err
}

func (l *Ledger) TransferFrom(ctx context.Context, operator, from, to library.Account, amount *uint256.Int) (ok bool, err error) {
	err = l.update(ctx, func(b *storage.Batch) error {
		if l.halted {
			return ErrHalted
		}
		allowed, err := l.allowance(b, from, operator)
		if err != nil {
			return err
		}
		if allowed.Lt(amount) {
			library.LogCLI(fmt.Sprintf("%s: %s may move %s of %s's units, not %s", l.id, operator, allowed.Dec(), from, amount.Dec()), 3)
			return nil
		}
		if ok, err = l.move(b, from, to, amount); !ok || err != nil {
			return err
		}
		return b.Put(l.key("allowance", from, operator), []byte(allowed.Sub(allowed, amount).Dec()))
	})
	return ok && err == nil, err
}

// move stages a movement in b. It writes nothing when it returns false.
func (l *Ledger) move(b *storage.Batch, from, to library.Account, amount *uint256.Int) (bool, error) {
	if library.IsZeroAccount(to) {
		return false, nil
	}
	fromBalance, err := l.balance(b, from)
	if err != nil {
		return false, err
	}
	if fromBalance.Lt(amount) {
		library.LogCLI(fmt.Sprintf("%s: %s holds %s, cannot send %s", l.id, from, fromBalance.Dec(), amount.Dec()), 3)
		return false, nil
	}
	if err = l.putBalance(b, from, fromBalance.Sub(fromBalance, amount)); err != nil {
		return false, err
	}
	toBalance, err := l.balance(b, to)
	if err != nil {
		return false, err
	}
	return true, l.putBalance(b, to, toBalance.Add(toBalance, amount))
}

// Balances copies every non-zero balance as a decimal string.
func (l *Ledger) Balances() map[library.Account]string {
	m := make(map[library.Account]string)
	err := storage.Read(context.Background(), l.db, func(s storage.Store) error {
		accounts, err := l.accounts(s)
		if err != nil {
			return err
		}
		for _, account := range accounts {
			b, err := l.balance(s, account)
			if err != nil {
				return err
			}
			if !b.IsZero() {
				m[account] = b.Dec()
			}
		}
		return nil
	})
	if err != nil {
		library.LogCLI(err.Error(), 1)
	}
	return m
}
