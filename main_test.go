package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"productapi/internal/config"
	"productapi/internal/models"
	"productapi/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedProducts_EmptyStore(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()

	require.NoError(t, seedProducts(context.Background(), repo, discardLogger()))

	products, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 5)

	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
		assert.NotZero(t, p.ID)
		assert.NotNil(t, p.Description)
	}
	assert.Equal(t, []string{"Laptop", "Mouse", "Keyboard", "Monitor", "Headphones"}, names)
	assert.True(t, decimal.RequireFromString("999.99").Equal(products[0].Price))
}

func TestSeedProducts_SkipsNonEmptyStore(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	existing := models.Product{Name: "Existing", Price: decimal.NewFromInt(1)}
	require.NoError(t, repo.Save(context.Background(), &existing))

	require.NoError(t, seedProducts(context.Background(), repo, discardLogger()))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSeedProducts_IsIdempotent(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()

	require.NoError(t, seedProducts(context.Background(), repo, discardLogger()))
	require.NoError(t, seedProducts(context.Background(), repo, discardLogger()))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestOpenRepository_Memory(t *testing.T) {
	cfg := &config.Config{DatabaseDriver: config.DriverMemory}

	repo, pinger, closeStore, err := openRepository(cfg, discardLogger())
	require.NoError(t, err)
	defer closeStore()

	assert.IsType(t, &repositories.InMemoryProductRepository{}, repo)
	assert.Nil(t, pinger)
}

func TestOpenRepository_SQLite(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDSN:    "file:open_repository_test?mode=memory&cache=shared",
		LogLevel:       "error",
	}

	repo, pinger, closeStore, err := openRepository(cfg, discardLogger())
	require.NoError(t, err)
	defer closeStore()

	assert.IsType(t, &repositories.GORMProductRepository{}, repo)
	require.NotNil(t, pinger)
	assert.NoError(t, pinger.PingContext(context.Background()))
}
