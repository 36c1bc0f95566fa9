package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of books matching the query.
func (s *Service) List(ctx context.Context, q Query) ([]Book, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	books, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Create inserts a new book. The category reference is stored as given.
func (s *Service) Create(ctx context.Context, in Input) (Book, error) {
	b, err := in.toBook("")
	if err != nil {
		return Book{}, err
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// GetByID returns a book by its ID.
func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces all five fields of an existing book.
func (s *Service) Update(ctx context.Context, id string, in Input) (Book, error) {
	b, err := in.toBook(id)
	if err != nil {
		return Book{}, err
	}
	return s.repo.Update(ctx, b)
}

// Delete removes a book.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
