package claimtokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sasha-s/go-deadlock"
	"tokensale/engine/library"
	"tokensale/storage"
)

// ErrNotIssuer is returned when anyone but the issuer mints.
var ErrNotIssuer = errors.New("only the issuer can mint claim tokens")

// Registry records who holds each claim token. Token ids are unique and
// never burned. Owners live in the store and changes are staged in the batch
// carried by the context, like the fungible ledgers.
type Registry struct {
	db     storage.Beginner
	id     library.Account
	issuer library.Account
	mutex  *deadlock.Mutex
}

// New returns the registry id. Only issuer can mint; a zero issuer disables minting.
func New(db storage.Beginner, id, issuer library.Account) *Registry {
	return &Registry{
		db:     db,
		id:     id,
		issuer: issuer,
		mutex:  &deadlock.Mutex{},
	}
}

func (r *Registry) ID() library.Account {
	return r.id
}

func (r *Registry) Issuer() library.Account {
	return r.issuer
}

func (r *Registry) ownerKey(tokenID *uint256.Int) string {
	return "claimtokens/" + r.id + "/owner/" + tokenID.Dec()
}

func (r *Registry) tokensKey() string {
	return "claimtokens/" + r.id + "/tokens"
}

func (r *Registry) owner(s storage.Store, tokenID *uint256.Int) (library.Account, bool, error) {
	b, err := s.Get(r.ownerKey(tokenID))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return library.ZeroAccount, false, nil
	case err != nil:
		return library.ZeroAccount, false, fmt.Errorf("%s: %w", r.id, err)
	}
	return library.Account(b), true, nil
}

func (r *Registry) tokens(s storage.Store) (ids []string, err error) {
	b, err := s.Get(r.tokensKey())
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", r.id, err)
	}
	err = json.Unmarshal(b, &ids)
	return
}

func (r *Registry) update(ctx context.Context, fn func(b *storage.Batch) error) error {
	b, owned, _ := storage.Join(ctx, r.db)
	if owned {
		defer b.Discard()
	}
	b.Lock(r.mutex)
	if err := fn(b); err != nil {
		return err
	}
	if owned {
		return b.Commit()
	}
	return nil
}

// OwnerOf sees transfers staged in the batch carried by ctx.
func (r *Registry) OwnerOf(ctx context.Context, tokenID *uint256.Int) (owner library.Account, err error) {
	err = storage.Read(ctx, r.db, func(s storage.Store) error {
		var ok bool
		if owner, ok, err = r.owner(s, tokenID); err == nil && !ok {
			err = fmt.Errorf("claim token %s does not exist on %s", tokenID.Dec(), r.id)
		}
		return err
	})
	return
}

// Mint creates tokenID held by to. caller must be the issuer.
func (r *Registry) Mint(ctx context.Context, caller, to library.Account, tokenID *uint256.Int) error {
	if library.IsZeroAccount(r.issuer) || caller != r.issuer {
		return fmt.Errorf("%s minting claim token %s on %s: %w", caller, tokenID.Dec(), r.id, ErrNotIssuer)
	}
	if library.IsZeroAccount(to) {
		return fmt.Errorf("cannot mint claim token %s to the zero account", tokenID.Dec())
	}
	if tokenID.IsZero() {
		return fmt.Errorf("claim token id 0 is reserved")
	}
	return r.update(ctx, func(b *storage.Batch) error {
		owner, ok, err := r.owner(b, tokenID)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("claim token %s is already held by %s", tokenID.Dec(), owner)
		}
		if err = b.Put(r.ownerKey(tokenID), []byte(to)); err != nil {
			return err
		}
		ids, err := r.tokens(b)
		if err != nil {
			return err
		}
		enc, err := json.Marshal(append(ids, tokenID.Dec()))
		if err != nil {
			return err
		}
		return b.Put(r.tokensKey(), enc)
	})
}

// Transfer moves tokenID from from to to. Only the current holder can move it.
func (r *Registry) Transfer(ctx context.Context, from, to library.Account, tokenID *uint256.Int) error {
	if library.IsZeroAccount(to) {
		return fmt.Errorf("cannot transfer claim token %s to the zero account", tokenID.Dec())
	}
	return r.update(ctx, func(b *storage.Batch) error {
		owner, ok, err := r.owner(b, tokenID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("claim token %s does not exist", tokenID.Dec())
		}
		if owner != from {
			return fmt.Errorf("%s tried to transfer claim token %s but it is held by %s", from, tokenID.Dec(), owner)
		}
		return b.Put(r.ownerKey(tokenID), []byte(to))
	})
}

func (r *Registry) GetMapped() Mapped {
	m := make(Mapped)
	err := storage.Read(context.Background(), r.db, func(s storage.Store) error {
		ids, err := r.tokens(s)
		if err != nil {
			return err
		}
		for _, id := range ids {
			z, err := uint256.FromDecimal(id)
			if err != nil {
				return err
			}
			owner, _, err := r.owner(s, z)
			if err != nil {
				return err
			}
			m[id] = owner
		}
		return nil
	})
	if err != nil {
		library.LogCLI(err.Error(), 1)
	}
	return m
}
