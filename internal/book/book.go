package book

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidCategoryID is returned when categoryId is not an identifier
	// the active store can hold.
	ErrInvalidCategoryID = errors.New("invalid category id")
	// ErrInvalidPublishedDate is returned when publishedDate cannot be parsed.
	ErrInvalidPublishedDate = errors.New("invalid published date")
)

// Book represents a book entity. CategoryID is a reference that is never
// checked against the categories collection.
type Book struct {
	ID            string    `json:"id"`
	CategoryID    string    `json:"categoryId"`
	Name          string    `json:"name"`
	PublishedDate time.Time `json:"publishedDate"`
	Pages         int       `json:"pages"`
	Author        string    `json:"author"`
}

// Input is the request body for create and full update.
type Input struct {
	CategoryID    string `json:"categoryId" validate:"required"`
	Name          string `json:"name" validate:"required"`
	PublishedDate string `json:"publishedDate" validate:"required"`
	Pages         *int   `json:"pages" validate:"required,gt=0,max=2147483647"`
	Author        string `json:"author" validate:"required"`
}

func (in Input) toBook(id string) (Book, error) {
	published, err := ParseDate(in.PublishedDate)
	if err != nil {
		return Book{}, err
	}
	b := Book{
		ID:            id,
		CategoryID:    in.CategoryID,
		Name:          in.Name,
		PublishedDate: published,
		Author:        in.Author,
	}
	if in.Pages != nil {
		b.Pages = *in.Pages
	}
	return b, nil
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Query defines filters and pagination for listing books. A nil filter
// field is not applied; set fields are combined with AND.
type Query struct {
	// Name and Author match as case-insensitive substrings.
	Name   *string
	Author *string
	// PublishedDate matches exactly.
	PublishedDate *time.Time
	// CategoryID matches exactly.
	CategoryID *string

	Limit int
	Skip  int
}

// Matches reports whether b satisfies every filter set on q.
func (q Query) Matches(b Book) bool {
	if q.Name != nil && !containsFold(b.Name, *q.Name) {
		return false
	}
	if q.Author != nil && !containsFold(b.Author, *q.Author) {
		return false
	}
	if q.PublishedDate != nil && !b.PublishedDate.Equal(*q.PublishedDate) {
		return false
	}
	if q.CategoryID != nil && b.CategoryID != *q.CategoryID {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
