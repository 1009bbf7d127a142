// Package storagetest runs the same behavioural checks against every storage backend.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"tokensale/storage"
)

type Opener func(t *testing.T) storage.Beginner

func TestSuite(t *testing.T, open Opener) {
	t.Run("Missing key", func(t *testing.T) {
		db := open(t)
		cs := db.Begin(false)
		defer cs.Discard()
		_, err := cs.Get("missing")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Commit is visible", func(t *testing.T) {
		db := open(t)
		cs := db.Begin(true)
		require.NoError(t, cs.Put("a", []byte("1")))
		v, err := cs.Get("a")
		require.NoError(t, err)
		require.Equal(t, []byte("1"), v)
		require.NoError(t, cs.Commit())

		cs = db.Begin(false)
		defer cs.Discard()
		v, err = cs.Get("a")
		require.NoError(t, err)
		require.Equal(t, []byte("1"), v)
	})

	t.Run("Discard leaves nothing behind", func(t *testing.T) {
		db := open(t)
		cs := db.Begin(true)
		require.NoError(t, cs.Put("b", []byte("1")))
		require.NoError(t, cs.Put("c", []byte("2")))
		cs.Discard()

		cs = db.Begin(false)
		defer cs.Discard()
		_, err := cs.Get("b")
		require.ErrorIs(t, err, storage.ErrNotFound)
		_, err = cs.Get("c")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Pending writes are isolated", func(t *testing.T) {
		db := open(t)
		w := db.Begin(true)
		defer w.Discard()
		require.NoError(t, w.Put("d", []byte("1")))

		r := db.Begin(false)
		defer r.Discard()
		_, err := r.Get("d")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Read-only rejects writes", func(t *testing.T) {
		db := open(t)
		cs := db.Begin(false)
		defer cs.Discard()
		require.ErrorIs(t, cs.Put("e", []byte("1")), storage.ErrReadOnly)
	})

	t.Run("Closed change set", func(t *testing.T) {
		db := open(t)
		cs := db.Begin(true)
		require.NoError(t, cs.Commit())
		require.Error(t, cs.Put("f", []byte("1")))
		cs.Discard()
	})
}
