package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"burncast/internal/forecast"
	"burncast/internal/project"
)

// Store is an in-memory implementation of project.Store, used by tests and
// by ad-hoc forecasts that never touch disk.
type Store struct {
	mu          sync.RWMutex
	nextID      int64
	projects    map[int64]*project.Project
	periods     map[int64][]forecast.PeriodRecord
	adjustments map[int64][]forecast.ProductivityAdjustment
}

var _ project.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		nextID:      1,
		projects:    make(map[int64]*project.Project),
		periods:     make(map[int64][]forecast.PeriodRecord),
		adjustments: make(map[int64][]forecast.ProductivityAdjustment),
	}
}

func (s *Store) CreateProject(_ context.Context, p *project.Project) error {
	if p == nil || p.Name == "" {
		return project.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.projects {
		if existing.Name == p.Name {
			return project.ErrDuplicateKey
		}
	}

	p.ID = s.nextID
	s.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *Store) GetProject(_ context.Context, id int64) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, project.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) GetProjectByName(_ context.Context, name string) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, project.ErrNotFound
}

func (s *Store) ListProjects(_ context.Context) ([]project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]project.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateProject(_ context.Context, p *project.Project) error {
	if p == nil {
		return project.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[p.ID]; !ok {
		return project.ErrNotFound
	}
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *Store) DeleteProject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return project.ErrNotFound
	}
	delete(s.projects, id)
	delete(s.periods, id)
	delete(s.adjustments, id)
	return nil
}

func (s *Store) ReplacePeriods(_ context.Context, projectID int64, periods []forecast.PeriodRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return project.ErrNotFound
	}
	s.periods[projectID] = sortedPeriods(periods)
	return nil
}

func (s *Store) AppendPeriods(_ context.Context, projectID int64, periods []forecast.PeriodRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return project.ErrNotFound
	}
	s.periods[projectID] = sortedPeriods(append(s.periods[projectID], periods...))
	return nil
}

func (s *Store) GetPeriods(_ context.Context, projectID int64) ([]forecast.PeriodRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.projects[projectID]; !ok {
		return nil, project.ErrNotFound
	}
	return append([]forecast.PeriodRecord(nil), s.periods[projectID]...), nil
}

func (s *Store) ReplaceAdjustments(_ context.Context, projectID int64, adjustments []forecast.ProductivityAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return project.ErrNotFound
	}
	s.adjustments[projectID] = append([]forecast.ProductivityAdjustment(nil), adjustments...)
	return nil
}

func (s *Store) GetAdjustments(_ context.Context, projectID int64) ([]forecast.ProductivityAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.projects[projectID]; !ok {
		return nil, project.ErrNotFound
	}
	return append([]forecast.ProductivityAdjustment(nil), s.adjustments[projectID]...), nil
}

func (s *Store) Close() error { return nil }

func sortedPeriods(periods []forecast.PeriodRecord) []forecast.PeriodRecord {
	out := append([]forecast.PeriodRecord(nil), periods...)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
