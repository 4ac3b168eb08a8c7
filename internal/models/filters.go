package models

import "strings"

// Filters is the ephemeral view parameter applied to the snippet list.
// It is never persisted.
type Filters struct {
	Search        string   `json:"search"`
	Languages     []string `json:"languages"`
	Tags          []string `json:"tags"`
	FavoritesOnly bool     `json:"favoritesOnly"`
}

// FiltersPatch merges into Filters. Nil fields are left unchanged.
type FiltersPatch struct {
	Search        *string
	Languages     *[]string
	Tags          *[]string
	FavoritesOnly *bool
}

// EmptyFilters returns the reset filter value
func EmptyFilters() Filters {
	return Filters{Languages: []string{}, Tags: []string{}}
}

// Merge returns f with the patch applied
func (f Filters) Merge(p FiltersPatch) Filters {
	out := f.Clone()
	if p.Search != nil {
		out.Search = *p.Search
	}
	if p.Languages != nil {
		out.Languages = cloneStrings(*p.Languages)
	}
	if p.Tags != nil {
		out.Tags = cloneStrings(*p.Tags)
	}
	if p.FavoritesOnly != nil {
		out.FavoritesOnly = *p.FavoritesOnly
	}
	return out
}

// Clone returns a deep copy
func (f Filters) Clone() Filters {
	out := f
	out.Languages = cloneStrings(f.Languages)
	out.Tags = cloneStrings(f.Tags)
	return out
}

// Active reports whether any filter would exclude snippets
func (f Filters) Active() bool {
	return strings.TrimSpace(f.Search) != "" || len(f.Languages) > 0 || len(f.Tags) > 0 || f.FavoritesOnly
}
