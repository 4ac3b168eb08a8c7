package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kilupskalvis/snip/internal/models"
	"gopkg.in/yaml.v3"
)

// ImportResult reports how many records an import kept and dropped.
type ImportResult struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// importProbe holds the fields a record needs to be accepted. Types are
// checked loosely so a wrong type rejects the record instead of failing the
// whole import.
type importProbe struct {
	ID         any             `json:"id"`
	Title      any             `json:"title"`
	CodeBlocks json.RawMessage `json:"codeBlocks"`
}

// ExportJSON serializes every snippet, versions included, as a pretty-printed
// JSON array in display order.
func (s *Service) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.Snippets(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// ExportYAML serializes the same records as ExportJSON in YAML.
func (s *Service) ExportYAML() ([]byte, error) {
	data, err := yaml.Marshal(s.Snippets())
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// ImportJSON replaces the whole collection with the records in data.
// Input that is not a JSON array fails with a *ParseError and changes
// nothing. Records without a non-empty string id and title, or without a
// codeBlocks array, are dropped and counted in Rejected. When an id repeats,
// the last record wins. Accepted records are stored as given.
func (s *Service) ImportJSON(ctx context.Context, data []byte) (ImportResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return ImportResult{}, &ParseError{Err: fmt.Errorf("expected a JSON array")}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return ImportResult{}, &ParseError{Err: err}
	}

	var result ImportResult
	valid := make([]models.Snippet, 0, len(raw))
	byID := make(map[string]int, len(raw))
	for i, rec := range raw {
		sn, ok := decodeRecord(rec)
		if !ok {
			s.logger.Debug("import record rejected", "index", i)
			result.Rejected++
			continue
		}
		if prev, dup := byID[sn.ID]; dup {
			valid[prev] = sn
			result.Rejected++
			continue
		}
		byID[sn.ID] = len(valid)
		valid = append(valid, sn)
	}
	result.Accepted = len(valid)
	sortSnippets(valid)

	s.mu.Lock()
	if err := s.st.Replace(ctx, valid); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to import snippets", "error", err)
		return ImportResult{}, &StorageError{Op: "import snippets", Err: err}
	}
	s.snippets = valid
	state := s.stateLocked()
	s.mu.Unlock()

	if result.Rejected > 0 {
		s.logger.Warn("import dropped records", "accepted", result.Accepted, "rejected", result.Rejected)
	}
	s.logger.Info("snippets imported", "count", result.Accepted)
	s.publish(state)
	return result, nil
}

func decodeRecord(rec json.RawMessage) (models.Snippet, bool) {
	var probe importProbe
	if err := json.Unmarshal(rec, &probe); err != nil {
		return models.Snippet{}, false
	}
	if id, ok := probe.ID.(string); !ok || id == "" {
		return models.Snippet{}, false
	}
	if title, ok := probe.Title.(string); !ok || title == "" {
		return models.Snippet{}, false
	}
	blocks := bytes.TrimSpace(probe.CodeBlocks)
	if len(blocks) == 0 || blocks[0] != '[' {
		return models.Snippet{}, false
	}

	var sn models.Snippet
	if err := json.Unmarshal(rec, &sn); err != nil {
		return models.Snippet{}, false
	}
	sn.Normalize()
	return sn, true
}

