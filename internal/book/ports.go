package book

import (
	"context"
)

//go:generate mockgen -destination=mock_repository.go -package=book bookshelf/internal/book Repository

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, error)
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id string) (Book, error)
	Update(ctx context.Context, b Book) (Book, error)
	Delete(ctx context.Context, id string) error
}
