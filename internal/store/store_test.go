package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/kilupskalvis/snip/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backends = []string{BackendBbolt, BackendSQLite}

// newTestStore opens the named backend in a temp directory for testing.
func newTestStore(t *testing.T, backend string) Store {
	t.Helper()
	st, err := Open(backend, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testSnippet(id string, order int) models.Snippet {
	blocks := []models.CodeBlock{{ID: id + "-b0", Language: "Go", Code: "fmt.Println(1)"}}
	return models.Snippet{
		ID:          id,
		Title:       "snippet " + id,
		CodeBlocks:  blocks,
		Description: "desc",
		Tags:        []string{"x"},
		Language:    models.Languages(blocks),
		CreatedAt:   1000,
		UpdatedAt:   2000,
		Order:       order,
		Versions:    []models.SnippetVersion{},
	}
}

func ids(snippets []models.Snippet) []string {
	out := make([]string, len(snippets))
	for i, s := range snippets {
		out[i] = s.ID
	}
	sort.Strings(out)
	return out
}

// runContract runs fn once per backend as a subtest.
func runContract(t *testing.T, fn func(t *testing.T, st Store)) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			fn(t, newTestStore(t, backend))
		})
	}
}

// ==================== Open ====================

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("leveldb", filepath.Join(t.TempDir(), "x.db"))
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestOpen_DefaultsToBbolt(t *testing.T) {
	st, err := Open("", filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer st.Close()

	_, ok := st.(*BboltStore)
	assert.True(t, ok)
}

// ==================== Contract ====================

func TestStore_EmptyGetAll(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		all, err := st.GetAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)

		count, err := st.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestStore_PutAndGet(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		sn := testSnippet("a", 0)
		sn.Project = "proj"
		sn.Versions = []models.SnippetVersion{{
			ID: "v1", Timestamp: 1500, Title: "old",
			CodeBlocks: []models.CodeBlock{{ID: "b", Language: "Python", Code: "pass"}},
			Tags:       []string{},
		}}

		require.NoError(t, st.Put(ctx, &sn))

		got, err := st.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, sn, *got)
	})
}

func TestStore_GetNotFound(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		_, err := st.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_PutIsIdempotentUpsert(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		sn := testSnippet("a", 0)
		require.NoError(t, st.Put(ctx, &sn))
		require.NoError(t, st.Put(ctx, &sn))

		sn.Title = "renamed"
		require.NoError(t, st.Put(ctx, &sn))

		count, err := st.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		got, err := st.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
	})
}

func TestStore_PutRejectsEmptyID(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		sn := testSnippet("", 0)
		err := st.Put(context.Background(), &sn)
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})
}

func TestStore_PutMany(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		batch := []models.Snippet{testSnippet("a", 0), testSnippet("b", 1), testSnippet("c", 2)}
		require.NoError(t, st.PutMany(ctx, batch))

		all, err := st.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, ids(all))
	})
}

func TestStore_PutManyInvalidRecordWritesNothing(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		batch := []models.Snippet{testSnippet("a", 0), testSnippet("", 1)}
		assert.ErrorIs(t, st.PutMany(ctx, batch), ErrInvalidRecord)

		count, err := st.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestStore_Delete(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		require.NoError(t, st.PutMany(ctx, []models.Snippet{testSnippet("a", 0), testSnippet("b", 1)}))

		require.NoError(t, st.Delete(ctx, "a"))
		require.NoError(t, st.Delete(ctx, "missing")) // no-op

		all, err := st.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, ids(all))
	})
}

func TestStore_Clear(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		require.NoError(t, st.PutMany(ctx, []models.Snippet{testSnippet("a", 0), testSnippet("b", 1)}))
		require.NoError(t, st.Clear(ctx))

		count, err := st.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		// Table is still usable after a clear
		sn := testSnippet("c", 0)
		require.NoError(t, st.Put(ctx, &sn))
		count, err = st.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestStore_Replace(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		require.NoError(t, st.PutMany(ctx, []models.Snippet{testSnippet("a", 0), testSnippet("b", 1)}))
		require.NoError(t, st.Replace(ctx, []models.Snippet{testSnippet("x", 0)}))

		all, err := st.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, ids(all))
	})
}

func TestStore_ApplyDeleteAndPut(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		require.NoError(t, st.PutMany(ctx, []models.Snippet{
			testSnippet("a", 0), testSnippet("b", 1), testSnippet("c", 2),
		}))

		err := st.Apply(ctx, Batch{
			Delete: []string{"a"},
			Put:    []models.Snippet{testSnippet("b", 0), testSnippet("c", 1)},
		})
		require.NoError(t, err)

		all, err := st.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		orders := map[string]int{}
		for _, s := range all {
			orders[s.ID] = s.Order
		}
		assert.Equal(t, map[string]int{"b": 0, "c": 1}, orders)
	})
}

func TestStore_ApplyFailureLeavesTableUntouched(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		require.NoError(t, st.PutMany(ctx, []models.Snippet{testSnippet("a", 0)}))

		err := st.Apply(ctx, Batch{Clear: true, Put: []models.Snippet{testSnippet("", 0)}})
		require.Error(t, err)

		all, err := st.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, ids(all))
	})
}

func TestStore_SurvivesReopen(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "persist.db")

			st, err := Open(backend, path)
			require.NoError(t, err)
			for i := 0; i < 5; i++ {
				sn := testSnippet(fmt.Sprintf("s%d", i), i)
				require.NoError(t, st.Put(ctx, &sn))
			}
			require.NoError(t, st.Close())

			st, err = Open(backend, path)
			require.NoError(t, err)
			defer st.Close()

			count, err := st.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 5, count)
		})
	}
}

func TestStore_NilSlicesComeBackEmpty(t *testing.T) {
	runContract(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		sn := models.Snippet{ID: "bare", Title: "bare"}
		require.NoError(t, st.Put(ctx, &sn))

		got, err := st.Get(ctx, "bare")
		require.NoError(t, err)
		assert.NotNil(t, got.CodeBlocks)
		assert.NotNil(t, got.Tags)
		assert.NotNil(t, got.Language)
		assert.NotNil(t, got.Versions)
	})
}
