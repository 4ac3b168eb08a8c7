// Package store provides the durable snippet table for snip.
// Two embedded backends implement the same contract: bbolt (default) and SQLite.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilupskalvis/snip/internal/models"
)

// Sentinel errors for expected conditions.
var (
	ErrNotFound       = errors.New("snippet not found")
	ErrInvalidRecord  = errors.New("invalid snippet record")
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Backend names accepted by Open.
const (
	BackendBbolt  = "bbolt"
	BackendSQLite = "sqlite"
)

// Batch groups writes that must land in a single transaction.
// Clear runs first, then Delete, then Put.
type Batch struct {
	Clear  bool
	Delete []string
	Put    []models.Snippet
}

// Store defines the contract for snippet persistence.
// Records are keyed by ID; no query capability is offered beyond point lookup
// and a full scan, whose order is undefined.
type Store interface {
	GetAll(ctx context.Context) ([]models.Snippet, error)
	Get(ctx context.Context, id string) (*models.Snippet, error)
	Count(ctx context.Context) (int, error)

	// Put inserts or replaces a record by ID.
	Put(ctx context.Context, s *models.Snippet) error
	// PutMany upserts every record in one transaction.
	PutMany(ctx context.Context, snippets []models.Snippet) error
	// Delete removes a record. Missing IDs are a no-op.
	Delete(ctx context.Context, id string) error
	// Clear removes all records.
	Clear(ctx context.Context) error
	// Replace clears the table and writes snippets in one transaction.
	Replace(ctx context.Context, snippets []models.Snippet) error
	// Apply executes a batch atomically.
	Apply(ctx context.Context, b Batch) error

	Close() error
}

// Open opens the named backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendBbolt:
		return NewBboltStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// validateRecord rejects records that cannot be keyed.
func validateRecord(s *models.Snippet) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	return nil
}
