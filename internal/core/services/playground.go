package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driven"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
	"github.com/custodia-labs/ragplay/internal/logger"
)

// Ensure PlaygroundService implements the interface.
var _ driving.PlaygroundService = (*PlaygroundService)(nil)

// PlaygroundService manages playgrounds through the backend and mirrors
// every change into the session.
type PlaygroundService struct {
	api     driven.PlaygroundAPI
	session driving.SessionService
}

// NewPlaygroundService creates a new playground service.
func NewPlaygroundService(api driven.PlaygroundAPI, session driving.SessionService) *PlaygroundService {
	return &PlaygroundService{
		api:     api,
		session: session,
	}
}

// List fetches all playgrounds and replaces the session's list.
func (s *PlaygroundService) List(ctx context.Context) ([]domain.Playground, error) {
	pgs, err := s.api.ListPlaygrounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list playgrounds: %w", err)
	}
	s.session.SetPlaygrounds(driving.Replace(pgs))
	return pgs, nil
}

// Create creates a playground and makes it active.
func (s *PlaygroundService) Create(ctx context.Context, service domain.Service, documentIDs []string) (domain.Playground, error) {
	if len(documentIDs) == 0 {
		return domain.Playground{}, fmt.Errorf("no documents selected: %w", domain.ErrInvalidInput)
	}
	pg, err := s.api.CreatePlayground(ctx, service, documentIDs)
	if err != nil {
		return domain.Playground{}, fmt.Errorf("create playground: %w", err)
	}
	logger.Info("created playground %s with %s", pg.ID, pg.Service)
	s.session.SetPlaygrounds(func(prev []domain.Playground) []domain.Playground {
		prev = slices.DeleteFunc(prev, func(p domain.Playground) bool { return p.ID == pg.ID })
		return append(prev, pg)
	})
	s.session.SetActivePlayground(pg.ID)
	return pg, nil
}

// Rename shows the new title immediately and puts the old one back if the
// backend rejects it.
func (s *PlaygroundService) Rename(ctx context.Context, id, title string) (domain.Playground, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Playground{}, fmt.Errorf("title is empty: %w", domain.ErrInvalidInput)
	}

	old, known := s.session.GetPlayground(id)
	if known {
		s.session.SetPlaygrounds(setTitle(id, title))
	}

	pg, err := s.api.RenamePlayground(ctx, id, title)
	if err != nil {
		if known {
			s.session.SetPlaygrounds(setTitle(id, old.Title))
		}
		return domain.Playground{}, fmt.Errorf("rename playground: %w", err)
	}
	s.session.SetPlaygrounds(setTitle(id, pg.Title))
	return pg, nil
}

func setTitle(id, title string) driving.Updater[domain.Playground] {
	return func(prev []domain.Playground) []domain.Playground {
		for i := range prev {
			if prev[i].ID == id {
				prev[i].Title = title
			}
		}
		return prev
	}
}

// Delete deletes a playground. If it was active, the session is cleared.
func (s *PlaygroundService) Delete(ctx context.Context, id string) error {
	if _, err := s.api.DeletePlayground(ctx, id); err != nil {
		return fmt.Errorf("delete playground: %w", err)
	}
	s.forget(id)
	return nil
}

// forget drops playgrounds from the session, deactivating the active one if listed.
func (s *PlaygroundService) forget(ids ...string) {
	if len(ids) == 0 {
		return
	}
	s.session.SetPlaygrounds(func(prev []domain.Playground) []domain.Playground {
		return slices.DeleteFunc(prev, func(p domain.Playground) bool { return slices.Contains(ids, p.ID) })
	})
	if slices.Contains(ids, s.session.ActivePlayground()) {
		s.session.SetActivePlayground("")
	}
}

// Open makes a playground active and loads its queries. Unknown ids are
// resolved by refreshing the playground list first.
func (s *PlaygroundService) Open(ctx context.Context, id string) (domain.Playground, error) {
	pg, ok := s.session.GetPlayground(id)
	if !ok {
		if _, err := s.List(ctx); err != nil {
			return domain.Playground{}, err
		}
		pg, ok = s.session.GetPlayground(id)
		if !ok {
			return domain.Playground{}, fmt.Errorf("playground %s: %w", id, domain.ErrNotFound)
		}
	}
	s.session.SetActivePlayground(id)
	if err := s.session.LoadQueries(ctx); err != nil {
		return pg, err
	}
	return pg, nil
}

// Documents returns the names of a playground's documents.
func (s *PlaygroundService) Documents(ctx context.Context, id string) ([]string, error) {
	names, err := s.api.ListPlaygroundDocuments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list playground documents: %w", err)
	}
	return names, nil
}

// Points returns the projection points of a playground.
func (s *PlaygroundService) Points(ctx context.Context, id string) ([]domain.Point, error) {
	points, err := s.api.ListPlaygroundPoints(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list playground points: %w", err)
	}
	return points, nil
}

// Models returns the embedding services offered by the backend.
func (s *PlaygroundService) Models(ctx context.Context) ([]domain.EmbeddingModel, error) {
	models, err := s.api.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return models, nil
}

// Find ranks the known playgrounds by edit distance between title and
// their titles, case-insensitively. A title containing the query scores
// 0 on an exact match and 1 otherwise.
// A limit of zero or less returns every playground.
func (s *PlaygroundService) Find(ctx context.Context, title string, limit int) ([]driving.PlaygroundMatch, error) {
	pgs := s.session.Playgrounds()
	if len(pgs) == 0 {
		var err error
		if pgs, err = s.List(ctx); err != nil {
			return nil, err
		}
	}

	needle := strings.ToLower(strings.TrimSpace(title))
	matches := make([]driving.PlaygroundMatch, 0, len(pgs))
	for _, pg := range pgs {
		hay := strings.ToLower(pg.Title)
		dist := levenshtein.ComputeDistance(needle, hay)
		if needle != "" && strings.Contains(hay, needle) {
			dist = len(hay) - len(needle)
			if dist > 0 {
				dist = 1
			}
		}
		matches = append(matches, driving.PlaygroundMatch{Playground: pg, Distance: dist})
	}
	slices.SortStableFunc(matches, func(a, b driving.PlaygroundMatch) int {
		return a.Distance - b.Distance
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
