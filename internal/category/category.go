package category

import "errors"

// ErrNotFound is returned when a category does not exist.
var ErrNotFound = errors.New("category not found")

// Category groups books. It owns no relationships.
type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Input is the request body for create and full update.
type Input struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (in Input) toCategory(id string) Category {
	return Category{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
	}
}
