package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/kilupskalvis/snip/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_FreshDatabase(t *testing.T) {
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "snip.db"))
	require.NoError(t, err)
	defer st.Close()

	version, err := st.getSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
	assert.True(t, st.columnExists("snippets", "favorite"))
	assert.False(t, st.columnExists("snippets", "nope"))
}

func TestMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snip.db")

	st, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, st.runMigrations())
	require.NoError(t, st.Close())

	st, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer st.Close()

	version, err := st.getSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}

func TestMigrations_UpgradeFromV1BackfillsFavorite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snip.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	v1 := &SQLiteStore{db: db}
	require.NoError(t, v1.migrateToV1())

	fav := testSnippet("fav", 0)
	fav.Favorite = true
	plain := testSnippet("plain", 1)
	for _, sn := range []models.Snippet{fav, plain} {
		data, err := json.Marshal(sn)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO snippets (id, position, data) VALUES (?, ?, ?)`, sn.ID, sn.Order, string(data))
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	st, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer st.Close()

	rows, err := st.db.Query(`SELECT id FROM snippets WHERE favorite ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()
	var favorites []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		favorites = append(favorites, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"fav"}, favorites)

	all, err := st.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fav", "plain"}, ids(all))
}
