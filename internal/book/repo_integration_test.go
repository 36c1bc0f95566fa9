package book

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// testRepository exercises the behaviour every Repository must share.
// categoryA and categoryB must be identifiers the store accepts.
func testRepository(t *testing.T, repo Repository, categoryA, categoryB, malformedID string) {
	ctx := context.Background()
	published := time.Date(1965, time.August, 1, 0, 0, 0, 0, time.UTC)

	dune := Book{CategoryID: categoryA, Name: "Dune", PublishedDate: published, Pages: 412, Author: "Frank Herbert"}
	require.NoError(t, repo.Create(ctx, &dune))
	require.NotEmpty(t, dune.ID)

	messiah := Book{CategoryID: categoryA, Name: "Dune Messiah", PublishedDate: published.AddDate(4, 0, 0), Pages: 256, Author: "Frank Herbert"}
	require.NoError(t, repo.Create(ctx, &messiah))
	foundation := Book{CategoryID: categoryB, Name: "Foundation", PublishedDate: published.AddDate(-14, 0, 0), Pages: 255, Author: "Isaac Asimov"}
	require.NoError(t, repo.Create(ctx, &foundation))

	got, err := repo.GetByID(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, dune.Name, got.Name)
	assert.True(t, published.Equal(got.PublishedDate))

	list := func(q Query) []string {
		t.Helper()
		if q.Limit == 0 {
			q.Limit = DefaultLimit
		}
		books, err := repo.List(ctx, q)
		require.NoError(t, err)
		require.NotNil(t, books)
		names := make([]string, 0, len(books))
		for _, b := range books {
			names = append(names, b.Name)
		}
		return names
	}

	assert.ElementsMatch(t, []string{"Dune", "Dune Messiah"}, list(Query{Author: strPtr("HERB")}))
	assert.Empty(t, list(Query{Author: strPtr("xyz")}))
	assert.ElementsMatch(t, []string{"Dune", "Dune Messiah"}, list(Query{Name: strPtr("dune")}))
	assert.Equal(t, []string{"Dune"}, list(Query{PublishedDate: &published}))
	assert.Equal(t, []string{"Foundation"}, list(Query{CategoryID: &categoryB}))
	assert.Empty(t, list(Query{CategoryID: strPtr("not-an-identifier")}))
	assert.Equal(t, []string{"Dune Messiah"}, list(Query{Author: strPtr("frank"), PublishedDate: &messiah.PublishedDate}))
	assert.Len(t, list(Query{Limit: 2}), 2)
	assert.Len(t, list(Query{Limit: 2, Skip: 2}), 1)
	assert.Empty(t, list(Query{Limit: 2, Skip: 4}))

	replacement := Book{ID: dune.ID, CategoryID: categoryB, Name: "Dune", PublishedDate: published, Pages: 500, Author: "F. Herbert"}
	updated, err := repo.Update(ctx, replacement)
	require.NoError(t, err)
	assert.Equal(t, dune.ID, updated.ID)
	assert.Equal(t, 500, updated.Pages)
	assert.Equal(t, categoryB, updated.CategoryID)

	_, err = repo.GetByID(ctx, malformedID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Update(ctx, Book{ID: malformedID, CategoryID: categoryA, Name: "a", PublishedDate: published, Pages: 1, Author: "b"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, malformedID), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, dune.ID))
	_, err = repo.GetByID(ctx, dune.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, dune.ID), ErrNotFound)
	_, err = repo.Update(ctx, replacement)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_Contract(t *testing.T) {
	testRepository(t, NewMemoryRepo(), "fiction", "classics", "missing")
}

func TestMemoryRepo_PageSize(t *testing.T) {
	ctx := context.Background()
	const total = 23

	repo := NewMemoryRepo()
	for i := 0; i < total; i++ {
		b := Book{CategoryID: "c", Name: fmt.Sprintf("Book %02d", i), Pages: i + 1, Author: "Anon"}
		require.NoError(t, repo.Create(ctx, &b))
	}

	svc := NewService(repo)
	for _, limit := range []int{1, 5, 10, 23, 100} {
		for page := 1; page <= 6; page++ {
			books, err := svc.List(ctx, Query{Limit: limit, Skip: (page - 1) * limit})
			require.NoError(t, err)

			want := min(limit, max(0, total-(page-1)*limit))
			assert.Len(t, books, want, "page=%d limit=%d", page, limit)
			if want > 0 {
				assert.Equal(t, fmt.Sprintf("Book %02d", (page-1)*limit), books[0].Name)
			}
		}
	}
}

func TestService_PagePastEnd(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	for i := 0; i < 3; i++ {
		b := Book{CategoryID: "c", Name: "n", Pages: 1, Author: "a"}
		require.NoError(t, repo.Create(ctx, &b))
	}

	q, details := parseListQuery(map[string][]string{"page": {"1000000"}, "limit": {"150"}})
	require.Empty(t, details)
	books, err := NewService(repo).List(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, books)

	q, details = parseListQuery(map[string][]string{"limit": {"150"}})
	require.Empty(t, details)
	books, err = NewService(repo).List(ctx, q)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestService_MemoryUpdateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	created, err := svc.Create(ctx, duneInput())
	require.NoError(t, err)

	in := duneInput()
	in.Pages = intPtr(500)
	first, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	second, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestService_DefaultsLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	for i := 0; i < 15; i++ {
		b := Book{CategoryID: "c", Name: "n", Pages: 1, Author: "a"}
		require.NoError(t, repo.Create(ctx, &b))
	}

	books, err := NewService(repo).List(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, books, DefaultLimit)
}

func TestMongoRepo_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("Skipping integration test: cannot ping mongo: %v", err)
	}

	db := client.Database("bookshelf_test_" + bson.NewObjectID().Hex())
	t.Cleanup(func() { _ = db.Drop(ctx) })

	repo := NewMongoRepo(db, 5*time.Second)
	require.NoError(t, repo.EnsureIndexes(ctx))

	testRepository(t, repo, bson.NewObjectID().Hex(), bson.NewObjectID().Hex(), "not-an-object-id")

	b := Book{CategoryID: "nope", Name: "x", Pages: 1, Author: "y"}
	assert.ErrorIs(t, repo.Create(ctx, &b), ErrInvalidCategoryID)
}

func TestPostgresRepo_Integration(t *testing.T) {
	dsn := os.Getenv("DB_TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to test database: %v", err)
	}
	t.Cleanup(db.Close)
	if err := db.Ping(ctx); err != nil {
		t.Skipf("Skipping integration test: cannot ping test database: %v", err)
	}

	repo := NewPostgresRepo(db, 5*time.Second)
	require.NoError(t, repo.EnsureSchema(ctx))
	_, err = db.Exec(ctx, `TRUNCATE books`)
	require.NoError(t, err)

	testRepository(t, repo, uuid.NewString(), uuid.NewString(), "not-a-uuid")

	b := Book{CategoryID: "nope", Name: "x", Pages: 1, Author: "y"}
	assert.ErrorIs(t, repo.Create(ctx, &b), ErrInvalidCategoryID)
}
