// Package storage defines the change set boundary every sale operation runs
// inside. Writes staged in a change set become visible to other change sets
// only when it commits; a discarded change set leaves no trace.
package storage

import "errors"

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("not found")

// ErrReadOnly is returned by Put on a change set that was begun read-only.
var ErrReadOnly = errors.New("change set is read-only")

// Store reads and writes values by key.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// ChangeSet is a Store whose writes are pending until Commit.
type ChangeSet interface {
	Store

	// Commit applies every pending write as one unit.
	Commit() error

	// Discard drops pending writes. It is safe to call after Commit.
	Discard()
}

// A Beginner can begin change sets.
type Beginner interface {
	Begin(writable bool) ChangeSet
}
