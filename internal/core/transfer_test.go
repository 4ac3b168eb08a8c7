package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kilupskalvis/snip/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// seedHistory builds a small collection with versions, favorites and a reorder.
func seedHistory(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	added := addN(t, svc, 3)

	title := "renamed"
	_, _, err := svc.Update(ctx, added[0].ID, models.SnippetUpdate{Title: &title})
	require.NoError(t, err)
	_, _, err = svc.ToggleFavorite(ctx, added[2].ID)
	require.NoError(t, err)
	require.NoError(t, svc.Reorder(ctx, []string{added[2].ID, added[0].ID, added[1].ID}))
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newTestStore(t))
	seedHistory(t, svc)
	original := svc.Snippets()

	data, err := svc.ExportJSON()
	require.NoError(t, err)

	st := newTestStore(t)
	other, _ := newTestService(t, st)
	res, err := other.ImportJSON(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Accepted: 3, Rejected: 0}, res)
	assert.Equal(t, original, other.Snippets())
	assertPersisted(t, st, other)

	// Importing into the same service is also stable.
	_, err = svc.ImportJSON(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, original, svc.Snippets())
}

func TestExportJSON_Empty(t *testing.T) {
	svc, _ := newTestService(t, newTestStore(t))
	data, err := svc.ExportJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestExportJSON_FieldNames(t *testing.T) {
	svc, _ := newTestService(t, newTestStore(t))
	addN(t, svc, 1)

	data, err := svc.ExportJSON()
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"id", "title", "codeBlocks", "description", "tags", "language",
		"favorite", "createdAt", "updatedAt", "order", "versions"} {
		assert.Contains(t, raw[0], key)
	}
	assert.NotContains(t, raw[0], "project")
}

func TestExportYAML(t *testing.T) {
	svc, _ := newTestService(t, newTestStore(t))
	seedHistory(t, svc)

	data, err := svc.ExportYAML()
	require.NoError(t, err)

	var decoded []models.Snippet
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, svc.Snippets(), decoded)
}

func TestImportJSON_ParseErrors(t *testing.T) {
	inputs := map[string]string{
		"invalid":  `[{"id": "a",`,
		"object":   `{"id": "a", "title": "t", "codeBlocks": []}`,
		"null":     `null`,
		"empty":    ``,
		"string":   `"[]"`,
		"trailing": `[] []`,
		"not json": `hello`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := newTestStore(t)
			svc, _ := newTestService(t, st)
			addN(t, svc, 2)
			before := svc.State()

			_, err := svc.ImportJSON(ctx, []byte(input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe))

			assert.Equal(t, before, svc.State())
			assertPersisted(t, st, svc)
		})
	}
}

func TestImportJSON_DropsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newTestStore(t))
	addN(t, svc, 2)

	input := `[
		{"id": "ok1", "title": "Good", "codeBlocks": [{"id": "b", "language": "Go", "code": "x"}], "order": 1},
		{"id": "", "title": "empty id", "codeBlocks": []},
		{"id": 5, "title": "numeric id", "codeBlocks": []},
		{"id": "no-title", "codeBlocks": []},
		{"id": "bad-blocks", "title": "t", "codeBlocks": "nope"},
		{"id": "no-blocks", "title": "t"},
		{"id": "bad-shape", "title": "t", "codeBlocks": [], "order": "first"},
		42,
		{"id": "ok2", "title": "Minimal", "codeBlocks": []}
	]`

	res, err := svc.ImportJSON(ctx, []byte(input))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Accepted: 2, Rejected: 7}, res)

	list := svc.Snippets()
	require.Len(t, list, 2)
	assert.Equal(t, "ok2", list[0].ID)
	assert.Equal(t, "ok1", list[1].ID)

	// Minimal records come back with empty, non-nil collections.
	assert.NotNil(t, list[0].Tags)
	assert.NotNil(t, list[0].Versions)
	assert.NotNil(t, list[0].Language)
}

func TestImportJSON_StoresRecordsVerbatim(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newTestStore(t))

	// Language disagrees with codeBlocks; import does not repair it.
	input := `[{"id": "a", "title": "t", "order": 7, "language": ["Lisp"],
		"codeBlocks": [{"id": "b", "language": "Go", "code": ""}]}]`
	_, err := svc.ImportJSON(ctx, []byte(input))
	require.NoError(t, err)

	sn, ok := svc.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"Lisp"}, sn.Language)
	assert.Equal(t, 7, sn.Order)
}

func TestImportJSON_DuplicateIDLastWins(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, _ := newTestService(t, st)

	input := `[
		{"id": "a", "title": "first", "codeBlocks": []},
		{"id": "b", "title": "other", "codeBlocks": [], "order": 1},
		{"id": "a", "title": "second", "codeBlocks": []}
	]`
	res, err := svc.ImportJSON(ctx, []byte(input))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Accepted: 2, Rejected: 1}, res)

	sn, ok := svc.Get("a")
	require.True(t, ok)
	assert.Equal(t, "second", sn.Title)
	assertPersisted(t, st, svc)
}

func TestImportJSON_EmptyArrayClears(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc, _ := newTestService(t, st)
	addN(t, svc, 3)

	res, err := svc.ImportJSON(ctx, []byte(" [ ] "))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{}, res)
	assert.Empty(t, svc.Snippets())

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
