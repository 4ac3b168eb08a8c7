// Package core implements the snippet service: the in-memory snippet list,
// the mutation protocol over the store, version history, filtering and
// import/export.
package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kilupskalvis/snip/internal/models"
	"github.com/kilupskalvis/snip/internal/store"
)

// State is a point-in-time copy of the service state handed to subscribers.
type State struct {
	Snippets []models.Snippet
	Filters  models.Filters
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for mutation events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the UUID generator used for snippets, versions
// and code blocks.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Service owns the authoritative snippet list and mirrors every mutation to
// the store. A single mutex serializes all mutations; the store write happens
// under the lock and the in-memory list is swapped only after it succeeds.
type Service struct {
	st     store.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu       sync.Mutex
	snippets []models.Snippet
	filters  models.Filters

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// New creates a Service over st. Call Load before using it.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		st:       st,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		newID:    uuid.NewString,
		snippets: []models.Snippet{},
		filters:  models.EmptyFilters(),
		subs:     make(map[int]func(State)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load replaces the in-memory list with the store contents, sorted by
// order ascending and then most recently updated first.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	items, err := s.st.GetAll(ctx)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("load snippets: %w", err)
	}
	if items == nil {
		items = []models.Snippet{}
	}
	sortSnippets(items)
	if !isDense(items) {
		s.logger.Warn("snippet order has gaps or duplicates", "count", len(items))
	}
	s.snippets = items
	state := s.stateLocked()
	s.mu.Unlock()

	s.logger.Debug("snippets loaded", "count", len(items))
	s.publish(state)
	return nil
}

// Snippets returns a copy of the full list in display order.
func (s *Service) Snippets() []models.Snippet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneList(s.snippets)
}

// Get returns a copy of the snippet with the given ID.
func (s *Service) Get(id string) (models.Snippet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Snippet{}, false
	}
	return s.snippets[idx].Clone(), true
}

// Lookup resolves a full ID or a unique ID prefix.
func (s *Service) Lookup(ref string) (models.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(ref); idx >= 0 {
		return s.snippets[idx].Clone(), nil
	}
	if ref == "" {
		return models.Snippet{}, fmt.Errorf("%w: empty id", ErrNoMatch)
	}

	match := -1
	for i := range s.snippets {
		if strings.HasPrefix(s.snippets[i].ID, ref) {
			if match >= 0 {
				return models.Snippet{}, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
			}
			match = i
		}
	}
	if match < 0 {
		return models.Snippet{}, fmt.Errorf("%w: %s", ErrNoMatch, ref)
	}
	return s.snippets[match].Clone(), nil
}

// State returns a copy of the snippets and filters.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Add creates a snippet at the end of the manual order.
// The caller is responsible for rejecting empty titles.
func (s *Service) Add(ctx context.Context, in models.SnippetInput) (models.Snippet, error) {
	s.mu.Lock()

	now := s.now().UnixMilli()
	blocks := s.assignBlockIDs(in.CodeBlocks)
	sn := models.Snippet{
		ID:          s.newID(),
		Title:       in.Title,
		CodeBlocks:  blocks,
		Description: in.Description,
		Tags:        models.UniqueTags(in.Tags),
		Language:    models.Languages(blocks),
		Favorite:    in.Favorite,
		Project:     in.Project,
		CreatedAt:   now,
		UpdatedAt:   now,
		Order:       len(s.snippets),
		Versions:    []models.SnippetVersion{},
	}
	sn.Normalize()

	if err := s.st.Put(ctx, &sn); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to add snippet", "title", sn.Title, "error", err)
		return models.Snippet{}, &StorageError{Op: "add snippet", Err: err}
	}

	next := make([]models.Snippet, 0, len(s.snippets)+1)
	next = append(next, s.snippets...)
	next = append(next, sn)
	s.snippets = next
	state := s.stateLocked()
	s.mu.Unlock()

	s.logger.Info("snippet added", "id", sn.ID, "title", sn.Title)
	s.publish(state)
	return sn.Clone(), nil
}

// Update snapshots the current editable fields into a new version, applies
// upd and persists the result. A missing ID is a silent no-op reported
// through found=false.
func (s *Service) Update(ctx context.Context, id string, upd models.SnippetUpdate) (models.Snippet, bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("update of unknown snippet ignored", "id", id)
		return models.Snippet{}, false, nil
	}
	return s.updateAndUnlock(ctx, idx, upd, "snippet updated")
}

// ToggleFavorite flips the favorite flag. It goes through Update, so it also
// records a version.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (models.Snippet, bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Snippet{}, false, nil
	}
	fav := !s.snippets[idx].Favorite
	return s.updateAndUnlock(ctx, idx, models.SnippetUpdate{Favorite: &fav}, "snippet favorite toggled")
}

// updateAndUnlock runs the snapshot-then-apply sequence for the snippet at
// idx. s.mu must be held on entry; it is released before returning.
func (s *Service) updateAndUnlock(ctx context.Context, idx int, upd models.SnippetUpdate, event string) (models.Snippet, bool, error) {
	prev := s.snippets[idx]
	now := s.now().UnixMilli()

	next := prev.Clone()
	version := models.NewVersion(s.newID(), &prev, now)

	if upd.Title != nil {
		next.Title = *upd.Title
	}
	if upd.CodeBlocks != nil {
		next.CodeBlocks = s.assignBlockIDs(*upd.CodeBlocks)
	}
	if upd.Description != nil {
		next.Description = *upd.Description
	}
	if upd.Tags != nil {
		next.Tags = models.UniqueTags(*upd.Tags)
	}
	if upd.Favorite != nil {
		next.Favorite = *upd.Favorite
	}
	if upd.Project != nil {
		next.Project = *upd.Project
	}
	next.Language = models.Languages(next.CodeBlocks)
	next.UpdatedAt = max(now, prev.UpdatedAt)
	next.Versions = append(next.Versions, version)
	next.Normalize()

	if err := s.st.Put(ctx, &next); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to update snippet", "id", prev.ID, "error", err)
		return models.Snippet{}, true, &StorageError{Op: "update snippet", Err: err}
	}

	list := cloneShallow(s.snippets)
	list[idx] = next
	s.snippets = list
	state := s.stateLocked()
	s.mu.Unlock()

	s.logger.Info(event, "id", next.ID, "versions", len(next.Versions))
	s.publish(state)
	return next.Clone(), true, nil
}

// Delete removes a snippet and renumbers the rest densely, preserving their
// relative order. The delete and the renumbering land in one store batch.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}

	left := make([]models.Snippet, 0, len(s.snippets)-1)
	for i := range s.snippets {
		if i == idx {
			continue
		}
		sn := s.snippets[i]
		sn.Order = len(left)
		left = append(left, sn)
	}

	if err := s.st.Apply(ctx, store.Batch{Delete: []string{id}, Put: left}); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to delete snippet", "id", id, "error", err)
		return true, &StorageError{Op: "delete snippet", Err: err}
	}

	s.snippets = left
	state := s.stateLocked()
	s.mu.Unlock()

	s.logger.Info("snippet deleted", "id", id, "remaining", len(left))
	s.publish(state)
	return true, nil
}

// Reorder assigns each listed snippet the order equal to its index in
// orderedIDs. Snippets not listed keep their previous order; unknown IDs are
// ignored. The list is re-sorted by order and bulk-persisted.
func (s *Service) Reorder(ctx context.Context, orderedIDs []string) error {
	pos := make(map[string]int, len(orderedIDs))
	for i, id := range orderedIDs {
		pos[id] = i
	}

	s.mu.Lock()
	updated := cloneShallow(s.snippets)
	for i := range updated {
		if p, ok := pos[updated[i].ID]; ok {
			updated[i].Order = p
		}
	}
	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].Order < updated[j].Order
	})

	if err := s.st.PutMany(ctx, updated); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to reorder snippets", "error", err)
		return &StorageError{Op: "reorder snippets", Err: err}
	}

	s.snippets = updated
	state := s.stateLocked()
	s.mu.Unlock()

	s.logger.Info("snippets reordered", "count", len(updated))
	s.publish(state)
	return nil
}

// Renumber rewrites order as 0..N-1 following the current display order.
// It is idempotent, so it is safe to run after an interrupted delete.
func (s *Service) Renumber(ctx context.Context) error {
	s.mu.Lock()
	updated := cloneShallow(s.snippets)
	for i := range updated {
		updated[i].Order = i
	}

	if err := s.st.PutMany(ctx, updated); err != nil {
		s.mu.Unlock()
		return &StorageError{Op: "renumber snippets", Err: err}
	}

	s.snippets = updated
	state := s.stateLocked()
	s.mu.Unlock()

	s.logger.Info("snippets renumbered", "count", len(updated))
	s.publish(state)
	return nil
}

// Subscribe registers fn to receive the state after every committed
// mutation and filter change. Calling the returned function unsubscribes.
func (s *Service) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) publish(state State) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (s *Service) stateLocked() State {
	return State{Snippets: cloneList(s.snippets), Filters: s.filters.Clone()}
}

func (s *Service) indexOf(id string) int {
	for i := range s.snippets {
		if s.snippets[i].ID == id {
			return i
		}
	}
	return -1
}

// assignBlockIDs copies blocks, giving a fresh ID to any block whose ID is
// empty or repeats an earlier one.
func (s *Service) assignBlockIDs(blocks []models.CodeBlock) []models.CodeBlock {
	out := make([]models.CodeBlock, len(blocks))
	seen := make(map[string]bool, len(blocks))
	for i, b := range blocks {
		if b.ID == "" || seen[b.ID] {
			b.ID = s.newID()
		}
		seen[b.ID] = true
		out[i] = b
	}
	return out
}

// sortSnippets orders by order ascending, then updatedAt descending.
func sortSnippets(list []models.Snippet) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].UpdatedAt > list[j].UpdatedAt
	})
}

// isDense reports whether the order values are exactly 0..N-1.
func isDense(list []models.Snippet) bool {
	seen := make([]bool, len(list))
	for i := range list {
		o := list[i].Order
		if o < 0 || o >= len(list) || seen[o] {
			return false
		}
		seen[o] = true
	}
	return true
}

func cloneList(in []models.Snippet) []models.Snippet {
	out := make([]models.Snippet, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// cloneShallow copies the slice header array. Records are never mutated in
// place, so sharing their inner slices is safe.
func cloneShallow(in []models.Snippet) []models.Snippet {
	out := make([]models.Snippet, len(in))
	copy(out, in)
	return out
}
