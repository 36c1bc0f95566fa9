package category

import (
	"context"
)

//go:generate mockgen -destination=mock_repository.go -package=category bookshelf/internal/category Repository

// Repository defines the contract for category data storage.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (Category, error)
	Update(ctx context.Context, c Category) (Category, error)
	Delete(ctx context.Context, id string) error
}
