package storage

import (
	"context"
	"sync"
)

// Batch is a change set shared by every mind one operation touches. Minds
// find it in the context, stage their writes in it and hold their locks until
// it commits or is discarded, so either all of the operation lands or none of
// it does. Minds sharing a batch must share the store it was begun on.
type Batch struct {
	ChangeSet
	held      []sync.Locker
	committed []func()
	finished  bool
}

func NewBatch(cs ChangeSet) *Batch {
	return &Batch{ChangeSet: cs}
}

// Lock acquires mu until the batch is finished. A mutex already held by this
// batch is not locked again.
func (b *Batch) Lock(mu sync.Locker) {
	for _, h := range b.held {
		if h == mu {
			return
		}
	}
	mu.Lock()
	b.held = append(b.held, mu)
}

// OnCommit runs fn after a successful commit, before any lock is released.
func (b *Batch) OnCommit(fn func()) {
	b.committed = append(b.committed, fn)
}

func (b *Batch) Commit() error {
	if b.finished {
		return b.ChangeSet.Commit()
	}
	err := b.ChangeSet.Commit()
	if err == nil {
		for _, fn := range b.committed {
			fn()
		}
	}
	b.finish()
	return err
}

func (b *Batch) Discard() {
	b.ChangeSet.Discard()
	b.finish()
}

func (b *Batch) finish() {
	if b.finished {
		return
	}
	b.finished = true
	for i := len(b.held) - 1; i >= 0; i-- {
		b.held[i].Unlock()
	}
	b.held = nil
	b.committed = nil
}

type batchKey struct{}

// WithBatch returns a context carrying b.
func WithBatch(ctx context.Context, b *Batch) context.Context {
	return context.WithValue(ctx, batchKey{}, b)
}

// BatchFrom returns the batch carried by ctx, if any.
func BatchFrom(ctx context.Context) (*Batch, bool) {
	b, ok := ctx.Value(batchKey{}).(*Batch)
	return b, ok && !b.finished
}

// Join returns the batch carried by ctx, or begins a new one on db. The
// caller owns a new batch: it must commit or discard it.
func Join(ctx context.Context, db Beginner) (b *Batch, owned bool, _ context.Context) {
	if b, ok := BatchFrom(ctx); ok {
		return b, false, ctx
	}
	b = NewBatch(db.Begin(true))
	return b, true, WithBatch(ctx, b)
}

// Read runs fn on the batch carried by ctx, so it sees staged writes, or on
// a read-only change set of db.
func Read(ctx context.Context, db Beginner, fn func(Store) error) error {
	if b, ok := BatchFrom(ctx); ok {
		return fn(b)
	}
	cs := db.Begin(false)
	defer cs.Discard()
	return fn(cs)
}
