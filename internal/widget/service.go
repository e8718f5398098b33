package widget

import (
	"context"
	"time"

	"github.com/botize/botize/internal/common"
)

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// Create stores a new widget with stock defaults under a fresh uuid.
func (s *Service) Create(ctx context.Context, name string) (*Widget, error) {
	w := Default(name)
	w.ID = common.NewUUID()
	if err := s.repo.Create(ctx, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Widget, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Widget, error) {
	return s.repo.List(ctx)
}

// Update replaces the record's mutable fields; id and creation time are
// preserved.
func (s *Service) Update(ctx context.Context, id string, updated Widget) (*Widget, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// Duplicate clones a widget under a fresh id with " (Copy)" appended to
// its name.
func (s *Service) Duplicate(ctx context.Context, id string) (*Widget, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := *existing
	clone.ID = common.NewUUID()
	clone.Name = existing.Name + " (Copy)"
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}

	if err := s.repo.Create(ctx, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

// AddContextSource appends an extracted source to the widget's reference
// material, stamping id and time.
func (s *Service) AddContextSource(ctx context.Context, id string, src ContextSource) (*Widget, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	src.ID = common.NewUUID()
	src.AddedAt = time.Now()
	existing.ContextSources = append(existing.ContextSources, src)
	existing.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}
