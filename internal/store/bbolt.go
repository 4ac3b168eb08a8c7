package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kilupskalvis/snip/internal/models"
	bolt "go.etcd.io/bbolt"
)

var bucketSnippets = []byte("snippets")

// BboltStore implements Store using a single bbolt bucket of JSON records.
// bbolt holds an exclusive file lock, so a second process opening the same
// file waits up to the open timeout and then fails.
type BboltStore struct {
	db *bolt.DB
}

var _ Store = (*BboltStore)(nil)

// NewBboltStore opens or creates a bbolt database at the given path.
func NewBboltStore(dbPath string) (*BboltStore, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketSnippets); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucketSnippets, err)
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &BboltStore{db: db}, nil
}

// Close closes the database.
func (s *BboltStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetAll returns every record in key order.
func (s *BboltStore) GetAll(_ context.Context) ([]models.Snippet, error) {
	var snippets []models.Snippet

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnippets).ForEach(func(k, v []byte) error {
			var sn models.Snippet
			if err := json.Unmarshal(v, &sn); err != nil {
				return fmt.Errorf("unmarshal snippet %s: %w", k, err)
			}
			sn.Normalize()
			snippets = append(snippets, sn)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snippets, nil
}

// Get retrieves a record by ID. Returns ErrNotFound if missing.
func (s *BboltStore) Get(_ context.Context, id string) (*models.Snippet, error) {
	var sn *models.Snippet
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSnippets).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		sn = &models.Snippet{}
		if err := json.Unmarshal(data, sn); err != nil {
			return fmt.Errorf("unmarshal snippet %s: %w", id, err)
		}
		sn.Normalize()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sn, nil
}

// Count returns the number of stored records.
func (s *BboltStore) Count(_ context.Context) (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketSnippets).Stats().KeyN
		return nil
	})
	return count, err
}

// Put inserts or replaces a single record.
func (s *BboltStore) Put(ctx context.Context, sn *models.Snippet) error {
	if err := validateRecord(sn); err != nil {
		return err
	}
	return s.Apply(ctx, Batch{Put: []models.Snippet{*sn}})
}

// PutMany upserts all records in one transaction.
func (s *BboltStore) PutMany(ctx context.Context, snippets []models.Snippet) error {
	return s.Apply(ctx, Batch{Put: snippets})
}

// Delete removes a record. Missing IDs are ignored.
func (s *BboltStore) Delete(ctx context.Context, id string) error {
	return s.Apply(ctx, Batch{Delete: []string{id}})
}

// Clear removes every record.
func (s *BboltStore) Clear(ctx context.Context) error {
	return s.Apply(ctx, Batch{Clear: true})
}

// Replace swaps the whole table for snippets.
func (s *BboltStore) Replace(ctx context.Context, snippets []models.Snippet) error {
	return s.Apply(ctx, Batch{Clear: true, Put: snippets})
}

// Apply runs the batch inside one bbolt write transaction. Either every
// write lands or none does.
func (s *BboltStore) Apply(_ context.Context, b Batch) error {
	// Encode outside the write transaction.
	encoded := make([][]byte, len(b.Put))
	for i := range b.Put {
		if err := validateRecord(&b.Put[i]); err != nil {
			return err
		}
		data, err := json.Marshal(&b.Put[i])
		if err != nil {
			return fmt.Errorf("marshal snippet %s: %w", b.Put[i].ID, err)
		}
		encoded[i] = data
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if b.Clear {
			if err := tx.DeleteBucket(bucketSnippets); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return fmt.Errorf("clear snippets: %w", err)
			}
			if _, err := tx.CreateBucket(bucketSnippets); err != nil {
				return fmt.Errorf("recreate bucket %s: %w", bucketSnippets, err)
			}
		}

		bucket := tx.Bucket(bucketSnippets)
		for _, id := range b.Delete {
			if err := bucket.Delete([]byte(id)); err != nil {
				return fmt.Errorf("delete snippet %s: %w", id, err)
			}
		}
		for i, data := range encoded {
			if err := bucket.Put([]byte(b.Put[i].ID), data); err != nil {
				return fmt.Errorf("store snippet %s: %w", b.Put[i].ID, err)
			}
		}
		return nil
	})
}
