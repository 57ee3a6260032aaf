// Package journal keeps a history of driftwood runs in an embedded
// Badger store. Every command that inspects or mutates a worktree
// appends one entry; the history command reads them back newest first.
package journal

import (
	"bytes"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no entry has the requested ID.
var ErrNotFound = errors.New("journal entry not found")

// Journal wraps Badger for run-history operations.
type Journal struct {
	db *badger.DB
}

// Open opens or creates the journal store at the given path.
func Open(path string) (*Journal, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Journal{db: db}, nil
}

// Close closes the store.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append writes an entry. A missing ID gets a fresh UUID, a zero Time
// gets the current instant; both are returned via the entry itself.
func (j *Journal) Append(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	value, err := e.Encode()
	if err != nil {
		return err
	}

	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeKey(e.Time, e.ID), value)
	})
}

// List returns entries newest first, at most limit of them; limit <= 0
// means all.
func (j *Journal) List(limit int) ([]Entry, error) {
	prefix := makePrefix()
	var out []Entry

	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts just past the last possible key for
		// the prefix.
		seek := append(bytes.Clone(prefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var e Entry
			if err := it.Item().Value(e.Decode); err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the entry with the given ID.
func (j *Journal) Get(id string) (*Entry, error) {
	entries, err := j.List(0)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, ErrNotFound
}

// Prune deletes entries older than the cutoff and reports how many went.
func (j *Journal) Prune(olderThan time.Time) (int, error) {
	prefix := makePrefix()
	bound := makeTimeBound(olderThan)
	deleted := 0

	err := j.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if bytes.Compare(key, bound) >= 0 {
				break
			}
			if err := txn.Delete(key); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Clear deletes every entry and reports how many went.
func (j *Journal) Clear() (int, error) {
	// Everything sorts below the far-future bound.
	return j.Prune(time.Unix(0, 1<<62))
}
