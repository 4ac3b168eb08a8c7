package models

import "time"

// SnippetVersion is an immutable snapshot of a snippet's editable fields,
// captured just before an update is applied.
type SnippetVersion struct {
	ID          string      `json:"id" yaml:"id"`
	Timestamp   int64       `json:"timestamp" yaml:"timestamp"`
	Title       string      `json:"title" yaml:"title"`
	CodeBlocks  []CodeBlock `json:"codeBlocks" yaml:"codeBlocks"`
	Description string      `json:"description" yaml:"description"`
	Tags        []string    `json:"tags" yaml:"tags"`
}

// NewVersion snapshots the editable fields of s
func NewVersion(id string, s *Snippet, timestamp int64) SnippetVersion {
	return SnippetVersion{
		ID:          id,
		Timestamp:   timestamp,
		Title:       s.Title,
		CodeBlocks:  cloneBlocks(s.CodeBlocks),
		Description: s.Description,
		Tags:        cloneStrings(s.Tags),
	}
}

// Clone returns a deep copy of the version
func (v SnippetVersion) Clone() SnippetVersion {
	out := v
	out.CodeBlocks = cloneBlocks(v.CodeBlocks)
	out.Tags = cloneStrings(v.Tags)
	return out
}

// ShortID returns the first 8 characters of the version ID
func (v *SnippetVersion) ShortID() string {
	if len(v.ID) > 8 {
		return v.ID[:8]
	}
	return v.ID
}

// Time converts the epoch-millisecond timestamp to a time.Time
func (v *SnippetVersion) Time() time.Time {
	return time.UnixMilli(v.Timestamp)
}

// EditableFields is the part of a snippet that versions capture.
// It is the common shape used when diffing a version against the present.
type EditableFields struct {
	Title       string      `json:"title"`
	CodeBlocks  []CodeBlock `json:"codeBlocks"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
}

// Editable returns the editable fields of the snippet
func (s *Snippet) Editable() EditableFields {
	return EditableFields{
		Title:       s.Title,
		CodeBlocks:  cloneBlocks(s.CodeBlocks),
		Description: s.Description,
		Tags:        cloneStrings(s.Tags),
	}
}

// Editable returns the editable fields captured by the version
func (v *SnippetVersion) Editable() EditableFields {
	return EditableFields{
		Title:       v.Title,
		CodeBlocks:  cloneBlocks(v.CodeBlocks),
		Description: v.Description,
		Tags:        cloneStrings(v.Tags),
	}
}
