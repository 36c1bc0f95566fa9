package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS categories (
		id          UUID PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// EnsureSchema creates the categories table when missing.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create categories table: %w", err)
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Category, error) {
	const listSQL = `
		SELECT id::text, title, description
		FROM categories
		ORDER BY created_at, id`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, listSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, c *Category) error {
	const insertSQL = `INSERT INTO categories (id, title, description) VALUES ($1, $2, $3)`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	id := uuid.New()
	if _, err := r.db.Exec(ctx, insertSQL, id, c.Title, c.Description); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	c.ID = id.String()
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Category, error) {
	const getSQL = `SELECT id::text, title, description FROM categories WHERE id = $1`

	uid, err := uuid.Parse(id)
	if err != nil {
		return Category{}, ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var c Category
	if err := r.db.QueryRow(ctx, getSQL, uid).Scan(&c.ID, &c.Title, &c.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepo) Update(ctx context.Context, c Category) (Category, error) {
	const updateSQL = `
		UPDATE categories SET title = $2, description = $3
		WHERE id = $1
		RETURNING id::text, title, description`

	uid, err := uuid.Parse(c.ID)
	if err != nil {
		return Category{}, ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out Category
	if err := r.db.QueryRow(ctx, updateSQL, uid, c.Title, c.Description).Scan(&out.ID, &out.Title, &out.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, fmt.Errorf("update category: %w", err)
	}
	return out, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
