package category

import (
	"context"
)

// Service provides category-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every category in store order.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

// Create inserts a new category and returns it with its assigned ID.
func (s *Service) Create(ctx context.Context, in Input) (Category, error) {
	c := in.toCategory("")
	if err := s.repo.Create(ctx, &c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// GetByID returns a category by its ID.
func (s *Service) GetByID(ctx context.Context, id string) (Category, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces both fields of an existing category.
func (s *Service) Update(ctx context.Context, id string, in Input) (Category, error) {
	return s.repo.Update(ctx, in.toCategory(id))
}

// Delete removes a category. Books referencing it are left untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

