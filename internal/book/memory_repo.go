package book

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo keeps books in process memory in insertion order.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Book
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Book)}
}

func (r *MemoryRepo) List(ctx context.Context, q Query) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Book{}
	skipped := 0
	for _, id := range r.order {
		if len(out) >= q.Limit {
			break
		}
		b := r.byID[id]
		if !q.Matches(b) {
			continue
		}
		if skipped < q.Skip {
			skipped++
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = uuid.NewString()
	b.PublishedDate = b.PublishedDate.UTC()
	r.byID[b.ID] = *b
	r.order = append(r.order, b.ID)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepo) Update(ctx context.Context, b Book) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[b.ID]; !ok {
		return Book{}, ErrNotFound
	}
	b.PublishedDate = b.PublishedDate.UTC()
	r.byID[b.ID] = b
	return b, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
