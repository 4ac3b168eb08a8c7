package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguages(t *testing.T) {
	blocks := []CodeBlock{{Language: "Go"}, {Language: "SQL"}, {Language: "Go"}}
	assert.Equal(t, []string{"Go", "SQL", "Go"}, Languages(blocks))
	assert.Equal(t, []string{}, Languages(nil))
}

func TestUniqueTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueTags([]string{"a", "b", "a", "c", "b"}))
	assert.Equal(t, []string{}, UniqueTags(nil))
}

func TestSnippet_CloneSharesNoSlices(t *testing.T) {
	orig := Snippet{
		ID:         "s1",
		CodeBlocks: []CodeBlock{{ID: "b1", Language: "Go", Code: "x"}},
		Tags:       []string{"a"},
		Language:   []string{"Go"},
		Versions:   []SnippetVersion{{ID: "v1", Tags: []string{"old"}}},
	}

	c := orig.Clone()
	c.CodeBlocks[0].Code = "changed"
	c.Tags[0] = "changed"
	c.Versions[0].Tags[0] = "changed"

	assert.Equal(t, "x", orig.CodeBlocks[0].Code)
	assert.Equal(t, "a", orig.Tags[0])
	assert.Equal(t, "old", orig.Versions[0].Tags[0])
}

func TestSnippet_Normalize(t *testing.T) {
	s := Snippet{ID: "s1", Versions: []SnippetVersion{{ID: "v1"}}}
	s.Normalize()

	assert.NotNil(t, s.CodeBlocks)
	assert.NotNil(t, s.Tags)
	assert.NotNil(t, s.Language)
	assert.NotNil(t, s.Versions[0].CodeBlocks)
	assert.NotNil(t, s.Versions[0].Tags)
}

func TestSnippet_Lookups(t *testing.T) {
	s := Snippet{
		ID:       "0123456789abcdef",
		Tags:     []string{"go", "http"},
		Versions: []SnippetVersion{{ID: "v1"}, {ID: "v2"}},
	}

	assert.Equal(t, "01234567", s.ShortID())
	assert.True(t, s.HasTag("http"))
	assert.False(t, s.HasTag("HTTP"))
	assert.Equal(t, "v2", s.FindVersion("v2").ID)
	assert.Nil(t, s.FindVersion("v3"))
}

func TestFilters_MergeAndActive(t *testing.T) {
	f := EmptyFilters()
	assert.False(t, f.Active())

	search := "  "
	f = f.Merge(FiltersPatch{Search: &search})
	assert.False(t, f.Active(), "whitespace search is inactive")

	tags := []string{"go"}
	fav := true
	f = f.Merge(FiltersPatch{Tags: &tags, FavoritesOnly: &fav})
	assert.True(t, f.Active())
	assert.Equal(t, []string{"go"}, f.Tags)
	assert.Equal(t, []string{}, f.Languages)

	tags[0] = "mutated"
	assert.Equal(t, []string{"go"}, f.Tags, "merge copies the patch slice")
}
