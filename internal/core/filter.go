package core

import (
	"sort"
	"strings"

	"github.com/kilupskalvis/snip/internal/models"
)

// Matches reports whether sn passes every active filter. Languages match if
// any one is present; tags match only if all are present.
func Matches(f models.Filters, sn *models.Snippet) bool {
	if f.FavoritesOnly && !sn.Favorite {
		return false
	}

	if len(f.Languages) > 0 && !containsAny(sn.Language, f.Languages) {
		return false
	}

	for _, tag := range f.Tags {
		if !sn.HasTag(tag) {
			return false
		}
	}

	query := strings.ToLower(strings.TrimSpace(f.Search))
	if query != "" && !strings.Contains(strings.ToLower(searchText(sn)), query) {
		return false
	}
	return true
}

// Filter returns the snippets in list that match f, preserving order.
func Filter(list []models.Snippet, f models.Filters) []models.Snippet {
	out := make([]models.Snippet, 0, len(list))
	for i := range list {
		if Matches(f, &list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}

func searchText(sn *models.Snippet) string {
	codes := make([]string, len(sn.CodeBlocks))
	for i, b := range sn.CodeBlocks {
		codes[i] = b.Code
	}
	return strings.Join([]string{
		sn.Title,
		sn.Description,
		strings.Join(sn.Tags, " "),
		strings.Join(codes, "\n\n"),
	}, "\n\n")
}

func containsAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// SetFilters merges the patch into the current filters.
func (s *Service) SetFilters(p models.FiltersPatch) models.Filters {
	s.mu.Lock()
	s.filters = s.filters.Merge(p)
	state := s.stateLocked()
	s.mu.Unlock()

	s.publish(state)
	return state.Filters
}

// ClearFilters resets the filters to their empty value.
func (s *Service) ClearFilters() {
	s.mu.Lock()
	s.filters = models.EmptyFilters()
	state := s.stateLocked()
	s.mu.Unlock()

	s.publish(state)
}

// Filters returns a copy of the current filters.
func (s *Service) Filters() models.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

// HasActiveFilters reports whether the current filters exclude anything.
func (s *Service) HasActiveFilters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Active()
}

// Filtered returns the snippets passing the current filters, in display order.
func (s *Service) Filtered() []models.Snippet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneList(Filter(s.snippets, s.filters))
}

// AllTags returns the sorted set of tags used by any snippet.
func (s *Service) AllTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{})
	for i := range s.snippets {
		for _, t := range s.snippets[i].Tags {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// AllLanguages returns the sorted set of languages used by any code block.
func (s *Service) AllLanguages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{})
	for i := range s.snippets {
		for _, l := range s.snippets[i].Language {
			set[l] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
