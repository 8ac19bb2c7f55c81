package services

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driven"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
	"github.com/custodia-labs/ragplay/internal/logger"
)

// maxChunkFetches bounds the parallel chunk requests issued for one query.
const maxChunkFetches = 8

// Verify interface compliance.
var _ driving.SessionService = (*Session)(nil)

// Session holds the in-memory model of one console session.
//
// Remote calls are made without holding the lock. Their results are applied
// only if the epoch (bumped on every playground switch) and, for query
// selection, the selection sequence are unchanged since the call was issued.
type Session struct {
	api driven.PlaygroundAPI

	mu          sync.Mutex
	epoch       uint64
	seq         uint64
	active      string
	playgrounds []domain.Playground
	queries     []domain.Query
	activeQuery string
	chunks      []domain.Chunk
	index       map[string]int
}

// NewSession creates an empty session backed by the given API.
func NewSession(api driven.PlaygroundAPI) *Session {
	return &Session{
		api:   api,
		index: make(map[string]int),
	}
}

// SetActivePlayground replaces the active playground id.
func (s *Session) SetActivePlayground(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.active {
		return
	}
	logger.Debug("session: active playground %q -> %q", s.active, id)
	s.active = id
	s.epoch++
	s.seq++
	s.queries = nil
	s.activeQuery = ""
	s.chunks = nil
	s.index = make(map[string]int)
}

// ActivePlayground returns the active playground id.
func (s *Session) ActivePlayground() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// GetPlayground looks up a known playground by id.
func (s *Session) GetPlayground(id string) (domain.Playground, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pg := range s.playgrounds {
		if pg.ID == id {
			return clonePlayground(pg), true
		}
	}
	return domain.Playground{}, false
}

// Playgrounds returns a copy of the known playgrounds.
func (s *Session) Playgrounds() []domain.Playground {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePlaygrounds(s.playgrounds)
}

// SetPlaygrounds applies an update to the known playgrounds.
func (s *Session) SetPlaygrounds(update driving.Updater[domain.Playground]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playgrounds = clonePlaygrounds(update(clonePlaygrounds(s.playgrounds)))
}

// Queries returns the active playground's queries.
func (s *Session) Queries() []domain.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneQueries(s.queries)
}

// SetQueries applies an update to the query list. The selection is
// cleared if the active query is no longer listed.
func (s *Session) SetQueries(update driving.Updater[domain.Query]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = cloneQueries(update(cloneQueries(s.queries)))
	s.dropOrphanSelectionLocked()
}

// Chunks returns the displayed chunks in display order.
func (s *Session) Chunks() []domain.Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.chunks)
}

// SetChunks applies an update to the displayed chunks. Labels of chunks
// that survive the update are kept; new chunks get fresh labels.
func (s *Session) SetChunks(update driving.Updater[domain.Chunk]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := update(slices.Clone(s.chunks))
	seen := make(map[string]bool, len(next))
	chunks := make([]domain.Chunk, 0, len(next))
	for _, c := range next {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		chunks = append(chunks, c)
	}
	for id := range s.index {
		if !seen[id] {
			delete(s.index, id)
		}
	}
	for _, c := range chunks {
		s.labelLocked(c.ID)
	}
	s.chunks = chunks
}

// ChunkIndex returns a copy of the chunk label map.
func (s *Session) ChunkIndex() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.index)
}

// AddChunks appends chunks that are not displayed yet and labels them in order.
func (s *Session) AddChunks(chunks ...domain.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		if _, ok := s.index[c.ID]; ok {
			continue
		}
		s.chunks = append(s.chunks, c)
		s.labelLocked(c.ID)
	}
}

// RemoveChunk hides a chunk and frees its label.
func (s *Session) RemoveChunk(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[id]; !ok {
		return false
	}
	s.chunks = slices.DeleteFunc(s.chunks, func(c domain.Chunk) bool { return c.ID == id })
	delete(s.index, id)
	return true
}

// ActiveQuery returns the active query id.
func (s *Session) ActiveQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeQuery
}

// SetActiveQuery selects a query and displays its result chunks in place of
// the previous query's. Selecting the active query again does nothing.
// On failure the selection and displayed chunks are left as they were.
func (s *Session) SetActiveQuery(ctx context.Context, id string) error {
	s.mu.Lock()
	if id == "" {
		s.clearSelectionLocked()
		s.mu.Unlock()
		return nil
	}
	if id == s.activeQuery {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.selectQuery(ctx, id)
}

// ToggleActiveQuery deselects id if it is active, otherwise selects it.
func (s *Session) ToggleActiveQuery(ctx context.Context, id string) error {
	s.mu.Lock()
	if id == "" || id == s.activeQuery {
		s.clearSelectionLocked()
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.selectQuery(ctx, id)
}

func (s *Session) selectQuery(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.active == "" {
		s.mu.Unlock()
		return domain.ErrNoActivePlayground
	}
	idx := slices.IndexFunc(s.queries, func(q domain.Query) bool { return q.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("query %s: %w", id, domain.ErrNotFound)
	}
	s.seq++
	seq, epoch, pg := s.seq, s.epoch, s.active
	results := uniqueIDs(s.queries[idx].Results)
	s.mu.Unlock()

	fetched, err := s.fetchChunks(ctx, pg, results)
	if err != nil {
		return fmt.Errorf("fetch results of query %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || seq != s.seq {
		logger.Debug("session: dropping stale results of query %s", id)
		return domain.ErrStale
	}
	// The query list may have been replaced while the results were in flight.
	if !slices.ContainsFunc(s.queries, func(q domain.Query) bool { return q.ID == id }) {
		logger.Debug("session: query %s left the list, dropping its results", id)
		return domain.ErrStale
	}
	s.activeQuery = id
	s.replaceQueryChunksLocked(fetched)
	return nil
}

// fetchChunks fetches every chunk in parallel. Any failure fails the batch.
func (s *Session) fetchChunks(ctx context.Context, playgroundID string, ids []string) ([]domain.Chunk, error) {
	chunks := make([]domain.Chunk, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxChunkFetches)
	for i, id := range ids {
		g.Go(func() error {
			c, err := s.api.GetChunk(gctx, playgroundID, id)
			if err != nil {
				return err
			}
			c.ID = id
			chunks[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// replaceQueryChunksLocked swaps the query-origin chunks for results.
// Point chunks that are also results keep their label and become query chunks.
func (s *Session) replaceQueryChunksLocked(results []domain.Chunk) {
	isResult := make(map[string]bool, len(results))
	for _, c := range results {
		isResult[c.ID] = true
	}

	chunks := make([]domain.Chunk, 0, len(s.chunks)+len(results))
	for _, c := range s.chunks {
		switch {
		case isResult[c.ID]:
		case c.Role == domain.ChunkRoleQuery:
			delete(s.index, c.ID)
		default:
			chunks = append(chunks, c)
		}
	}
	for _, c := range results {
		c.Role = domain.ChunkRoleQuery
		chunks = append(chunks, c)
		s.labelLocked(c.ID)
	}
	s.chunks = chunks
}

// ClickPoint displays the chunk behind a projection point.
// Clicking a point whose chunk is already displayed does nothing.
func (s *Session) ClickPoint(ctx context.Context, chunkID string) error {
	s.mu.Lock()
	if s.active == "" {
		s.mu.Unlock()
		return domain.ErrNoActivePlayground
	}
	if _, ok := s.index[chunkID]; ok {
		s.mu.Unlock()
		return nil
	}
	epoch, pg := s.epoch, s.active
	s.mu.Unlock()

	chunk, err := s.api.GetChunk(ctx, pg, chunkID)
	if err != nil {
		return fmt.Errorf("fetch chunk %s: %w", chunkID, err)
	}
	chunk.ID = chunkID
	chunk.Role = domain.ChunkRolePoint

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		logger.Debug("session: dropping stale chunk %s", chunkID)
		return domain.ErrStale
	}
	if _, ok := s.index[chunkID]; ok {
		return nil
	}
	s.chunks = append([]domain.Chunk{chunk}, s.chunks...)
	s.labelLocked(chunkID)
	return nil
}

// SubmitQuery submits text against the active playground, lists the new
// query first and selects it. If only the selection fails, the query is
// returned together with the error.
func (s *Session) SubmitQuery(ctx context.Context, text string) (domain.Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Query{}, fmt.Errorf("query text is empty: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	if s.active == "" {
		s.mu.Unlock()
		return domain.Query{}, domain.ErrNoActivePlayground
	}
	epoch, pg := s.epoch, s.active
	s.mu.Unlock()

	q, err := s.api.SubmitQuery(ctx, pg, text)
	if err != nil {
		return domain.Query{}, fmt.Errorf("submit query: %w", err)
	}

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		logger.Debug("session: dropping stale query %s", q.ID)
		return q, domain.ErrStale
	}
	if !slices.ContainsFunc(s.queries, func(existing domain.Query) bool { return existing.ID == q.ID }) {
		s.queries = append([]domain.Query{cloneQuery(q)}, s.queries...)
	}
	s.mu.Unlock()

	return q, s.SetActiveQuery(ctx, q.ID)
}

// LoadQueries replaces the query list with the backend's list.
func (s *Session) LoadQueries(ctx context.Context) error {
	s.mu.Lock()
	if s.active == "" {
		s.mu.Unlock()
		return domain.ErrNoActivePlayground
	}
	epoch, pg := s.epoch, s.active
	s.mu.Unlock()

	queries, err := s.api.ListQueries(ctx, pg)
	if err != nil {
		return fmt.Errorf("list queries: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		logger.Debug("session: dropping stale query list of playground %s", pg)
		return domain.ErrStale
	}
	s.queries = cloneQueries(queries)
	s.dropOrphanSelectionLocked()
	return nil
}

// Snapshot returns a consistent deep copy of the session state.
func (s *Session) Snapshot() driving.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return driving.SessionSnapshot{
		Epoch:            s.epoch,
		ActivePlayground: s.active,
		Playgrounds:      clonePlaygrounds(s.playgrounds),
		Queries:          cloneQueries(s.queries),
		ActiveQuery:      s.activeQuery,
		Chunks:           slices.Clone(s.chunks),
		ChunkIndex:       maps.Clone(s.index),
	}
}

func (s *Session) labelLocked(id string) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = NextChunkIndex(s.index)
}

// clearSelectionLocked deselects the active query and hides its chunks.
// A pending selection is invalidated.
func (s *Session) clearSelectionLocked() {
	s.seq++
	s.activeQuery = ""
	s.chunks = slices.DeleteFunc(s.chunks, func(c domain.Chunk) bool {
		if c.Role == domain.ChunkRoleQuery {
			delete(s.index, c.ID)
			return true
		}
		return false
	})
}

func (s *Session) dropOrphanSelectionLocked() {
	if s.activeQuery == "" {
		return
	}
	if !slices.ContainsFunc(s.queries, func(q domain.Query) bool { return q.ID == s.activeQuery }) {
		s.clearSelectionLocked()
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func clonePlayground(pg domain.Playground) domain.Playground {
	pg.DocumentNames = slices.Clone(pg.DocumentNames)
	return pg
}

func clonePlaygrounds(pgs []domain.Playground) []domain.Playground {
	if pgs == nil {
		return nil
	}
	out := make([]domain.Playground, len(pgs))
	for i, pg := range pgs {
		out[i] = clonePlayground(pg)
	}
	return out
}

func cloneQuery(q domain.Query) domain.Query {
	q.Results = slices.Clone(q.Results)
	return q
}

func cloneQueries(qs []domain.Query) []domain.Query {
	if qs == nil {
		return nil
	}
	out := make([]domain.Query, len(qs))
	for i, q := range qs {
		out[i] = cloneQuery(q)
	}
	return out
}
