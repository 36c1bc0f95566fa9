package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookshelf/internal/category"
	"bookshelf/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.Config{StoreDriver: config.DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(ctx) })

	require.NoError(t, s.Ready(ctx))

	c := category.Category{Title: "Fiction", Description: "Fiction books"}
	require.NoError(t, s.Categories.Create(ctx, &c))
	got, err := s.Categories.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StoreDriver: "sqlite"}, zap.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
