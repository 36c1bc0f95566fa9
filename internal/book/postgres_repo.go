package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// category_id carries no foreign key: dangling references are allowed.
const schemaSQL = `
	CREATE TABLE IF NOT EXISTS books (
		id             UUID PRIMARY KEY,
		category_id    UUID NOT NULL,
		name           TEXT NOT NULL,
		published_date TIMESTAMPTZ NOT NULL,
		pages          INTEGER NOT NULL,
		author         TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS books_category_id_idx ON books (category_id)`

const selectColumns = `id::text, category_id::text, name, published_date, pages, author`

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

// EnsureSchema creates the books table when missing.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.CategoryID, &b.Name, &b.PublishedDate, &b.Pages, &b.Author)
	b.PublishedDate = b.PublishedDate.UTC()
	return b, err
}

// buildWhere returns the WHERE clause and its arguments for q. ok is false
// when the filter can match nothing.
func buildWhere(q Query) (where string, args []any, ok bool) {
	clauses := []string{"1=1"}
	argn := 1

	if q.Name != nil {
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", argn))
		args = append(args, likePattern(*q.Name))
		argn++
	}
	if q.PublishedDate != nil {
		clauses = append(clauses, fmt.Sprintf("published_date = $%d", argn))
		args = append(args, q.PublishedDate.UTC())
		argn++
	}
	if q.Author != nil {
		clauses = append(clauses, fmt.Sprintf("author ILIKE $%d", argn))
		args = append(args, likePattern(*q.Author))
		argn++
	}
	if q.CategoryID != nil {
		categoryID, err := uuid.Parse(*q.CategoryID)
		if err != nil {
			return "", nil, false
		}
		clauses = append(clauses, fmt.Sprintf("category_id = $%d", argn))
		args = append(args, categoryID)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args, true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, error) {
	where, args, ok := buildWhere(q)
	if !ok {
		return []Book{}, nil
	}

	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		ORDER BY created_at, id
		LIMIT $%d OFFSET $%d`,
		selectColumns, where, len(args)+1, len(args)+2)

	argsWithPage := append(args, q.Limit, q.Skip)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, dataSQL, argsWithPage...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	categoryID, err := uuid.Parse(b.CategoryID)
	if err != nil {
		return ErrInvalidCategoryID
	}

	insertSQL := `
		INSERT INTO books (id, category_id, name, published_date, pages, author)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + selectColumns

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(ctx, insertSQL, uuid.New(), categoryID, b.Name, b.PublishedDate.UTC(), b.Pages, b.Author)
	created, err := scanBook(row)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	*b = created
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return Book{}, ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM books WHERE id = $1`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Update(ctx context.Context, b Book) (Book, error) {
	uid, err := uuid.Parse(b.ID)
	if err != nil {
		return Book{}, ErrNotFound
	}
	categoryID, err := uuid.Parse(b.CategoryID)
	if err != nil {
		return Book{}, ErrInvalidCategoryID
	}

	updateSQL := `
		UPDATE books
		SET category_id = $2, name = $3, published_date = $4, pages = $5, author = $6
		WHERE id = $1
		RETURNING ` + selectColumns

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	updated, err := scanBook(r.db.QueryRow(ctx, updateSQL, uid, categoryID, b.Name, b.PublishedDate.UTC(), b.Pages, b.Author))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("update book: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
