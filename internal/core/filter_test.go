package core

import (
	"context"
	"testing"

	"github.com/kilupskalvis/snip/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture() []models.Snippet {
	return []models.Snippet{
		{ID: "1", Title: "Quick sort", Tags: []string{"a", "b"}, Language: []string{"x", "Go"},
			CodeBlocks: []models.CodeBlock{{Language: "x"}, {Language: "Go", Code: "func Partition()"}}},
		{ID: "2", Title: "Binary search", Tags: []string{"a"}, Language: []string{"Python", "x"}, Favorite: true,
			CodeBlocks: []models.CodeBlock{{Language: "Python"}, {Language: "x"}}},
		{ID: "3", Title: "Hello", Description: "Greets the WORLD", Tags: []string{"b"}, Language: []string{"Rust"},
			CodeBlocks: []models.CodeBlock{{Language: "Rust", Code: "println!(\"hi\")"}}},
	}
}

func filteredIDs(list []models.Snippet, f models.Filters) []string {
	out := []string{}
	for _, sn := range Filter(list, f) {
		out = append(out, sn.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	list := filterFixture()

	tests := []struct {
		name    string
		filters models.Filters
		want    []string
	}{
		{"empty filters keep all", models.EmptyFilters(), []string{"1", "2", "3"}},
		{"tags are ANDed", models.Filters{Tags: []string{"a", "b"}}, []string{"1"}},
		{"single tag", models.Filters{Tags: []string{"a"}}, []string{"1", "2"}},
		{"languages are ORed", models.Filters{Languages: []string{"x"}}, []string{"1", "2"}},
		{"language union", models.Filters{Languages: []string{"Rust", "Python"}}, []string{"2", "3"}},
		{"favorites only", models.Filters{FavoritesOnly: true}, []string{"2"}},
		{"search title case-insensitive", models.Filters{Search: "QUICK"}, []string{"1"}},
		{"search description", models.Filters{Search: "world"}, []string{"3"}},
		{"search code body", models.Filters{Search: "partition"}, []string{"1"}},
		{"search tags", models.Filters{Search: "b"}, []string{"1", "2", "3"}},
		{"search is trimmed", models.Filters{Search: "  hello  "}, []string{"3"}},
		{"blank search ignored", models.Filters{Search: "   "}, []string{"1", "2", "3"}},
		{"search no match", models.Filters{Search: "haskell"}, []string{}},
		{"combined", models.Filters{Tags: []string{"a"}, Languages: []string{"x"}, FavoritesOnly: true}, []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filteredIDs(list, tt.filters))
		})
	}
}

func TestService_FiltersLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newTestStore(t))
	assert.False(t, svc.HasActiveFilters())

	_, err := svc.Add(ctx, models.SnippetInput{
		Title: "one", Tags: []string{"web", "api"},
		CodeBlocks: []models.CodeBlock{{Language: "TypeScript"}, {Language: "Go"}},
	})
	require.NoError(t, err)
	_, err = svc.Add(ctx, models.SnippetInput{
		Title: "two", Tags: []string{"cli"}, Favorite: true,
		CodeBlocks: []models.CodeBlock{{Language: "Go"}},
	})
	require.NoError(t, err)

	svc.SetFilters(models.FiltersPatch{Languages: ptr([]string{"Go"})})
	assert.True(t, svc.HasActiveFilters())
	assert.Equal(t, []string{"one", "two"}, titles(svc.Filtered()))

	f := svc.SetFilters(models.FiltersPatch{FavoritesOnly: ptr(true)})
	assert.Equal(t, []string{"Go"}, f.Languages, "merge keeps earlier fields")
	assert.Equal(t, []string{"two"}, titles(svc.Filtered()))

	svc.ClearFilters()
	assert.False(t, svc.HasActiveFilters())
	assert.Equal(t, models.EmptyFilters(), svc.Filters())
	assert.Len(t, svc.Filtered(), 2)

	svc.SetFilters(models.FiltersPatch{Search: ptr("  ")})
	assert.False(t, svc.HasActiveFilters())
}

func TestService_AllTagsAndLanguages(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newTestStore(t))
	assert.Empty(t, svc.AllTags())
	assert.Empty(t, svc.AllLanguages())

	_, err := svc.Add(ctx, models.SnippetInput{
		Title: "one", Tags: []string{"web", "api"},
		CodeBlocks: []models.CodeBlock{{Language: "TypeScript"}, {Language: "Go"}},
	})
	require.NoError(t, err)
	_, err = svc.Add(ctx, models.SnippetInput{
		Title: "two", Tags: []string{"api", "cli"},
		CodeBlocks: []models.CodeBlock{{Language: "Go"}, {Language: "Bash"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"api", "cli", "web"}, svc.AllTags())
	assert.Equal(t, []string{"Bash", "Go", "TypeScript"}, svc.AllLanguages())
}
