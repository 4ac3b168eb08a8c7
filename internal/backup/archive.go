// Package backup provides a content-addressable archive of snippet exports.
// A snapshot is written before any operation that replaces the whole
// collection, so the previous state can be restored.
package backup

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when a requested snapshot does not exist.
var ErrNotFound = errors.New("backup not found")

// ErrAmbiguous is returned when a hash prefix matches more than one snapshot.
var ErrAmbiguous = errors.New("ambiguous backup prefix")

// Entry describes one stored snapshot.
type Entry struct {
	Hash      string    `json:"hash"`
	Size      int64     `json:"size"`
	Snippets  int       `json:"snippets"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShortHash returns the first 12 characters of the hash.
func (e Entry) ShortHash() string {
	if len(e.Hash) > 12 {
		return e.Hash[:12]
	}
	return e.Hash
}

// Archive defines the contract for snapshot storage.
type Archive interface {
	// Has checks whether a snapshot with the given hash exists.
	Has(ctx context.Context, hash string) (bool, error)

	// Get returns a reader for the snapshot data and its entry.
	// Returns ErrNotFound if the snapshot does not exist.
	Get(ctx context.Context, hash string) (io.ReadCloser, Entry, error)

	// Put stores a snapshot holding the given number of snippets and
	// returns its entry. Storing the same bytes twice keeps one copy and
	// marks it as the newest.
	Put(ctx context.Context, r io.Reader, snippets int) (Entry, error)

	// Delete removes a snapshot. No error if it doesn't exist.
	Delete(ctx context.Context, hash string) error

	// List returns all snapshots, newest first.
	List(ctx context.Context) ([]Entry, error)
}
