package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/kilupskalvis/snip/internal/models"
	"github.com/wI2L/jsondiff"
)

// RestoreVersion copies the editable fields of a stored version back onto
// the snippet. It runs as a regular update, so the state being replaced is
// itself kept as a new version. found is false if either ID is unknown.
func (s *Service) RestoreVersion(ctx context.Context, id, versionID string) (models.Snippet, bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Snippet{}, false, nil
	}
	v := s.snippets[idx].FindVersion(versionID)
	if v == nil {
		s.mu.Unlock()
		return models.Snippet{}, false, nil
	}

	fields := v.Editable()
	upd := models.SnippetUpdate{
		Title:       &fields.Title,
		CodeBlocks:  &fields.CodeBlocks,
		Description: &fields.Description,
		Tags:        &fields.Tags,
	}
	return s.updateAndUnlock(ctx, idx, upd, "snippet version restored")
}

// DiffVersion returns the JSON Patch that turns the version's editable
// fields into the snippet's current ones. An empty patch means the version
// matches the present.
func (s *Service) DiffVersion(id, versionID string) (jsondiff.Patch, bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, false, nil
	}
	current := s.snippets[idx]
	v := current.FindVersion(versionID)
	if v == nil {
		s.mu.Unlock()
		return nil, false, nil
	}
	from, to := v.Editable(), current.Editable()
	s.mu.Unlock()

	patch, err := jsondiff.Compare(from, to)
	if err != nil {
		return nil, true, fmt.Errorf("diff version %s: %w", v.ShortID(), err)
	}
	return patch, true, nil
}

// ResolveVersion finds a version of sn by full ID or unique prefix.
func ResolveVersion(sn *models.Snippet, ref string) (*models.SnippetVersion, error) {
	if v := sn.FindVersion(ref); v != nil {
		return v, nil
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: empty version id", ErrNoMatch)
	}

	var match *models.SnippetVersion
	for i := range sn.Versions {
		if strings.HasPrefix(sn.Versions[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
			}
			match = &sn.Versions[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: version %s of %s", ErrNoMatch, ref, sn.ShortID())
	}
	return match, nil
}
