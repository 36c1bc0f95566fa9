package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/book"
	"bookshelf/internal/category"
	"bookshelf/internal/store"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	categories := category.NewService(st.Categories)
	books := book.NewService(st.Books)

	nCategories, nBooks, err := seed(ctx, categories, books)
	require.NoError(t, err)
	assert.Equal(t, len(catalog), nCategories)
	assert.Equal(t, 7, nBooks)

	all, err := categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(catalog))

	author := "herbert"
	found, err := books.List(ctx, book.Query{Author: &author, Limit: book.DefaultLimit})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Dune", found[0].Name)
	assert.Equal(t, all[0].ID, found[0].CategoryID)
}
