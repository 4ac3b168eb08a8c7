package models

// CodeBlock is one fragment of source in a named language
type CodeBlock struct {
	ID       string `json:"id" yaml:"id"`
	Language string `json:"language" yaml:"language"`
	Code     string `json:"code" yaml:"code"`
}

// Snippet is the root entity persisted in the snippet table.
// Language is derived from CodeBlocks and must never be set directly.
type Snippet struct {
	ID          string           `json:"id" yaml:"id"`
	Title       string           `json:"title" yaml:"title"`
	CodeBlocks  []CodeBlock      `json:"codeBlocks" yaml:"codeBlocks"`
	Description string           `json:"description" yaml:"description"`
	Tags        []string         `json:"tags" yaml:"tags"`
	Language    []string         `json:"language" yaml:"language"`
	Favorite    bool             `json:"favorite" yaml:"favorite"`
	Project     string           `json:"project,omitempty" yaml:"project,omitempty"`
	CreatedAt   int64            `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   int64            `json:"updatedAt" yaml:"updatedAt"`
	Order       int              `json:"order" yaml:"order"`
	Versions    []SnippetVersion `json:"versions" yaml:"versions"`
}

// SnippetInput holds the caller-supplied fields of a new snippet.
// ID, timestamps, order, language and versions are assigned by the service.
type SnippetInput struct {
	Title       string
	CodeBlocks  []CodeBlock
	Description string
	Tags        []string
	Favorite    bool
	Project     string
}

// SnippetUpdate is a partial update. Nil fields are left unchanged.
type SnippetUpdate struct {
	Title       *string
	CodeBlocks  *[]CodeBlock
	Description *string
	Tags        *[]string
	Favorite    *bool
	Project     *string
}

// IsEmpty reports whether the update changes nothing
func (u SnippetUpdate) IsEmpty() bool {
	return u.Title == nil && u.CodeBlocks == nil && u.Description == nil &&
		u.Tags == nil && u.Favorite == nil && u.Project == nil
}

// Languages derives the language list of a snippet from its code blocks.
// The result always has one entry per block, in block order.
func Languages(blocks []CodeBlock) []string {
	langs := make([]string, len(blocks))
	for i, b := range blocks {
		langs[i] = b.Language
	}
	return langs
}

// ShortID returns the first 8 characters of the snippet ID
func (s *Snippet) ShortID() string {
	if len(s.ID) > 8 {
		return s.ID[:8]
	}
	return s.ID
}

// HasTag reports whether the snippet carries the given tag
func (s *Snippet) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FindVersion returns the version with the given ID, or nil
func (s *Snippet) FindVersion(versionID string) *SnippetVersion {
	for i := range s.Versions {
		if s.Versions[i].ID == versionID {
			return &s.Versions[i]
		}
	}
	return nil
}

// Clone returns a deep copy that shares no slices with s.
func (s Snippet) Clone() Snippet {
	out := s
	out.CodeBlocks = cloneBlocks(s.CodeBlocks)
	out.Tags = cloneStrings(s.Tags)
	out.Language = cloneStrings(s.Language)
	out.Versions = make([]SnippetVersion, len(s.Versions))
	for i, v := range s.Versions {
		out.Versions[i] = v.Clone()
	}
	return out
}

// Normalize replaces nil slices with empty ones so encoded records always
// carry arrays instead of nulls.
func (s *Snippet) Normalize() {
	if s.CodeBlocks == nil {
		s.CodeBlocks = []CodeBlock{}
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.Language == nil {
		s.Language = []string{}
	}
	if s.Versions == nil {
		s.Versions = []SnippetVersion{}
	}
	for i := range s.Versions {
		if s.Versions[i].CodeBlocks == nil {
			s.Versions[i].CodeBlocks = []CodeBlock{}
		}
		if s.Versions[i].Tags == nil {
			s.Versions[i].Tags = []string{}
		}
	}
}

// UniqueTags drops duplicate tags, keeping the first occurrence.
func UniqueTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func cloneBlocks(in []CodeBlock) []CodeBlock {
	if in == nil {
		return []CodeBlock{}
	}
	out := make([]CodeBlock, len(in))
	copy(out, in)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
