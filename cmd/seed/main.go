package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/category"
	"bookshelf/internal/config"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/store"
)

type seedBook struct {
	name, published, author string
	pages                   int
}

var catalog = []struct {
	category category.Input
	books    []seedBook
}{
	{
		category: category.Input{Title: "Science Fiction", Description: "Speculative stories about science and the future"},
		books: []seedBook{
			{name: "Dune", published: "1965-08-01", author: "Frank Herbert", pages: 412},
			{name: "Foundation", published: "1951-06-01", author: "Isaac Asimov", pages: 255},
			{name: "The Left Hand of Darkness", published: "1969-03-01", author: "Ursula K. Le Guin", pages: 304},
		},
	},
	{
		category: category.Input{Title: "History", Description: "Accounts of past events"},
		books: []seedBook{
			{name: "The Guns of August", published: "1962-01-01", author: "Barbara W. Tuchman", pages: 511},
			{name: "SPQR", published: "2015-10-20", author: "Mary Beard", pages: 608},
		},
	},
	{
		category: category.Input{Title: "Programming", Description: "Software engineering and computer science"},
		books: []seedBook{
			{name: "The Go Programming Language", published: "2015-10-26", author: "Alan A. A. Donovan", pages: 380},
			{name: "Structure and Interpretation of Computer Programs", published: "1985-01-01", author: "Harold Abelson", pages: 657},
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.StoreDriver == config.DriverMemory {
		fmt.Fprintln(os.Stderr, "seeding the memory store has no lasting effect; set STORE_DRIVER to mongo or postgres")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer func() { _ = st.Close(ctx) }()

	categories, books, err := seed(ctx, category.NewService(st.Categories), book.NewService(st.Books))
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete",
		zap.Int("categories", categories),
		zap.Int("books", books),
	)
}

func seed(ctx context.Context, categories *category.Service, books *book.Service) (int, int, error) {
	var nCategories, nBooks int
	for _, entry := range catalog {
		c, err := categories.Create(ctx, entry.category)
		if err != nil {
			return nCategories, nBooks, fmt.Errorf("create category %q: %w", entry.category.Title, err)
		}
		nCategories++

		for _, sb := range entry.books {
			pages := sb.pages
			_, err := books.Create(ctx, book.Input{
				CategoryID:    c.ID,
				Name:          sb.name,
				PublishedDate: sb.published,
				Pages:         &pages,
				Author:        sb.author,
			})
			if err != nil {
				return nCategories, nBooks, fmt.Errorf("create book %q: %w", sb.name, err)
			}
			nBooks++
		}
	}
	return nCategories, nBooks, nil
}
