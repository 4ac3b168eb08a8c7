package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilupskalvis/snip/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite table. The full record lives in a
// JSON column; position, favorite and updated_at are copied out for indexing.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database and ensures the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(1000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initialize() error {
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// GetAll returns every record
func (s *SQLiteStore) GetAll(ctx context.Context) ([]models.Snippet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM snippets`)
	if err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	defer rows.Close()

	var snippets []models.Snippet
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan snippet row: %w", err)
		}
		var sn models.Snippet
		if err := json.Unmarshal(data, &sn); err != nil {
			return nil, fmt.Errorf("unmarshal snippet %s: %w", id, err)
		}
		sn.Normalize()
		snippets = append(snippets, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snippets: %w", err)
	}
	return snippets, nil
}

// Get retrieves a record by ID. Returns ErrNotFound if missing.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Snippet, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snippets WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snippet %s: %w", id, err)
	}

	sn := &models.Snippet{}
	if err := json.Unmarshal(data, sn); err != nil {
		return nil, fmt.Errorf("unmarshal snippet %s: %w", id, err)
	}
	sn.Normalize()
	return sn, nil
}

// Count returns the number of stored records
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snippets").Scan(&count)
	return count, err
}

// Put inserts or replaces a single record
func (s *SQLiteStore) Put(ctx context.Context, sn *models.Snippet) error {
	if err := validateRecord(sn); err != nil {
		return err
	}
	return s.Apply(ctx, Batch{Put: []models.Snippet{*sn}})
}

// PutMany upserts all records in one transaction
func (s *SQLiteStore) PutMany(ctx context.Context, snippets []models.Snippet) error {
	return s.Apply(ctx, Batch{Put: snippets})
}

// Delete removes a record. Missing IDs are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.Apply(ctx, Batch{Delete: []string{id}})
}

// Clear removes every record
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.Apply(ctx, Batch{Clear: true})
}

// Replace swaps the whole table for snippets
func (s *SQLiteStore) Replace(ctx context.Context, snippets []models.Snippet) error {
	return s.Apply(ctx, Batch{Clear: true, Put: snippets})
}

// Apply runs the batch inside one SQL transaction.
func (s *SQLiteStore) Apply(ctx context.Context, b Batch) error {
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if b.Clear {
		if _, err := tx.ExecContext(ctx, "DELETE FROM snippets"); err != nil {
			return fmt.Errorf("clear snippets: %w", err)
		}
	}

	for _, id := range b.Delete {
		if _, err := tx.ExecContext(ctx, "DELETE FROM snippets WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete snippet %s: %w", id, err)
		}
	}

	if len(b.Put) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO snippets (id, position, favorite, updated_at, data)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				position = excluded.position,
				favorite = excluded.favorite,
				updated_at = excluded.updated_at,
				data = excluded.data`)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		for i, data := range encoded {
			sn := &b.Put[i]
			if _, err := stmt.ExecContext(ctx, sn.ID, sn.Order, sn.Favorite, sn.UpdatedAt, string(data)); err != nil {
				return fmt.Errorf("store snippet %s: %w", sn.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
