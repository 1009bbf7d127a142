package replay

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/slices"
	"tokensale/engine/library"
	"tokensale/storage"
)

const (
	keyAccounts = "replay/accounts"
	keyAccount  = "replay/account/"
)

// Mapped is account to the ID of its last applied event.
type Mapped map[library.Account]library.Sha256

// Replay makes every operation name the event before it in its author's
// chain, so a signed operation can only ever be applied once.
type Replay struct {
	db      storage.Beginner
	genesis library.Sha256
	mutex   *deadlock.Mutex
}

// New returns a replay mind. Accounts start their chain at genesis.
func New(db storage.Beginner, genesis library.Sha256) *Replay {
	return &Replay{
		db:      db,
		genesis: genesis,
		mutex:   &deadlock.Mutex{},
	}
}

func (r *Replay) GetCurrentHashForAccount(account library.Account) (library.Sha256, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	cs := r.db.Begin(false)
	defer cs.Discard()
	return r.current(cs, account)
}

func (r *Replay) current(cs storage.Store, account library.Account) (library.Sha256, error) {
	b, err := cs.Get(keyAccount + account)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return r.genesis, nil
	case err != nil:
		return "", fmt.Errorf("replay: load %s: %w", account, err)
	}
	return library.Sha256(b), nil
}

func (r *Replay) accounts(cs storage.Store) (a []library.Account, err error) {
	b, err := cs.Get(keyAccounts)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("replay: load accounts: %w", err)
	}
	err = json.Unmarshal(b, &a)
	return
}

func (r *Replay) upsert(cs storage.Store, account library.Account, last library.Sha256) error {
	if err := cs.Put(keyAccount+account, []byte(last)); err != nil {
		return err
	}
	accounts, err := r.accounts(cs)
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
	return cs.Put(keyAccounts, b)
}

func (r *Replay) GetMapped() (Mapped, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	cs := r.db.Begin(false)
	defer cs.Discard()
	return r.getMapped(cs)
}

func (r *Replay) getMapped(cs storage.Store) (Mapped, error) {
	accounts, err := r.accounts(cs)
	if err != nil {
		return nil, err
	}
	m := make(Mapped, len(accounts))
	for _, account := range accounts {
		if m[account], err = r.current(cs, account); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// GetStateHash hashes the last event ID of every account, in account order.
func (r *Replay) GetStateHash() (library.Sha256, error) {
	m, err := r.GetMapped()
	if err != nil {
		return "", err
	}
	b := bytes.Buffer{}
	for _, account := range sortedAccounts(m) {
		decodedString, err := hex.DecodeString(m[account])
		if err != nil {
			return "", fmt.Errorf("replay: %s has a malformed event id: %w", account, err)
		}
		b.Write(decodedString)
	}
	return library.Sha256Sum(b.Bytes()), nil
}

func sortedAccounts(m Mapped) []library.Account {
	var sl []library.Account
	for account := range m {
		sl = append(sl, account)
	}
	slices.Sort(sl)
	return sl
}
