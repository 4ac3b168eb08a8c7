package store

import (
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 2

// runMigrations applies any pending SQLite schema migrations
func (s *SQLiteStore) runMigrations() error {
	version, err := s.getSchemaVersion()
	if err != nil {
		return err
	}

	if version < 1 {
		if err := s.migrateToV1(); err != nil {
			return fmt.Errorf("migration to v1 failed: %w", err)
		}
	}

	if version < 2 {
		if err := s.migrateToV2(); err != nil {
			return fmt.Errorf("migration to v2 failed: %w", err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, 0 for a new database
func (s *SQLiteStore) getSchemaVersion() (int, error) {
	var tableName string
	err := s.db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='snip_schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM snip_schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// migrateToV1 creates the snippet table
func (s *SQLiteStore) migrateToV1() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS snip_schema_version (
			version INTEGER PRIMARY KEY
		)`,

		`CREATE TABLE IF NOT EXISTS snippets (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL DEFAULT 0,
			data JSON NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_snippets_position ON snippets(position)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	_, err := s.db.Exec("INSERT OR REPLACE INTO snip_schema_version (version) VALUES (?)", 1)
	return err
}

// migrateToV2 copies the favorite flag out of the JSON record into an
// indexed column
func (s *SQLiteStore) migrateToV2() error {
	if !s.columnExists("snippets", "favorite") {
		if _, err := s.db.Exec(`ALTER TABLE snippets ADD COLUMN favorite BOOLEAN NOT NULL DEFAULT FALSE`); err != nil {
			return err
		}
	}

	migrations := []string{
		`UPDATE snippets SET favorite = COALESCE(json_extract(data, '$.favorite'), 0)`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_favorite ON snippets(favorite)`,
	}
	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	_, err := s.db.Exec("INSERT OR REPLACE INTO snip_schema_version (version) VALUES (?)", 2)
	return err
}

// columnExists checks if a column exists in a table
func (s *SQLiteStore) columnExists(table, column string) bool {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&count)
	return err == nil && count > 0
}
