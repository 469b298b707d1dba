package cardset

import (
	"context"
	"fmt"
)

// Service provides set administration.
type Service struct {
	repo Repository
}

// NewService creates a new set service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all sets ordered by name with their card counts.
func (s *Service) List(ctx context.Context) ([]Set, error) {
	return s.repo.List(ctx)
}

// Get returns a set by id.
func (s *Service) Get(ctx context.Context, id int64) (Set, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new set and returns it.
func (s *Service) Create(ctx context.Context, in Input) (Set, error) {
	id, err := s.repo.Create(ctx, in.normalize())
	if err != nil {
		return Set{}, fmt.Errorf("create set: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update replaces the writable fields of a set.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Set, error) {
	if err := s.repo.Update(ctx, id, in.normalize()); err != nil {
		return Set{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a set. Its cards are removed with it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
