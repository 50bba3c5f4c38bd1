package repositories_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/models"
	"productapi/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runProductRepositoryTests exercises the ProductRepository contract against
// a fresh, empty store returned by newRepo.
func runProductRepositoryTests(t *testing.T, newRepo func(t *testing.T) repositories.ProductRepository) {
	ctx := context.Background()

	save := func(t *testing.T, repo repositories.ProductRepository, name, price string) models.Product {
		t.Helper()
		p := models.Product{Name: name, Price: decimal.RequireFromString(price)}
		require.NoError(t, repo.Save(ctx, &p))
		return p
	}

	t.Run("save assigns increasing ids", func(t *testing.T) {
		repo := newRepo(t)
		first := save(t, repo, "Laptop", "999.99")
		second := save(t, repo, "Mouse", "29.99")

		assert.NotZero(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("get returns stored product", func(t *testing.T) {
		repo := newRepo(t)
		description := "Wireless mouse"
		p := models.Product{Name: "Mouse", Price: decimal.RequireFromString("29.99"), Description: &description}
		require.NoError(t, repo.Save(ctx, &p))

		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mouse", got.Name)
		assert.True(t, p.Price.Equal(got.Price), "price %s != %s", p.Price, got.Price)
		require.NotNil(t, got.Description)
		assert.Equal(t, description, *got.Description)
	})

	t.Run("get missing product", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(ctx, 999)
		assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	})

	t.Run("list is empty then ordered by id", func(t *testing.T) {
		repo := newRepo(t)
		products, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)

		save(t, repo, "B", "2")
		save(t, repo, "A", "1")

		products, err = repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "B", products[0].Name)
		assert.Equal(t, "A", products[1].Name)
	})

	t.Run("save updates existing row", func(t *testing.T) {
		repo := newRepo(t)
		p := save(t, repo, "Original", "10")

		p.Name = "Updated"
		p.Price = decimal.RequireFromString("20.5")
		require.NoError(t, repo.Save(ctx, &p))

		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated", got.Name)
		assert.True(t, decimal.RequireFromString("20.5").Equal(got.Price))

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("delete and exists", func(t *testing.T) {
		repo := newRepo(t)
		p := save(t, repo, "Doomed", "1")

		exists, err := repo.ExistsByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, repo.DeleteByID(ctx, p.ID))

		exists, err = repo.ExistsByID(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		assert.ErrorIs(t, repo.DeleteByID(ctx, p.ID), repositories.ErrProductNotFound)
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		repo := newRepo(t)
		save(t, repo, "Laptop Pro", "1999.99")
		save(t, repo, "Gaming Laptop", "1499.99")
		save(t, repo, "Mouse", "29.99")

		for _, term := range []string{"laptop", "LAPTOP", "aPt"} {
			products, err := repo.SearchByName(ctx, term)
			require.NoError(t, err)
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.ElementsMatch(t, []string{"Laptop Pro", "Gaming Laptop"}, names, "term %q", term)
		}

		products, err := repo.SearchByName(ctx, "tablet")
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("search folds non-ASCII case", func(t *testing.T) {
		repo := newRepo(t)
		save(t, repo, "ÉCRAN Pro", "249.99")
		save(t, repo, "Écran Mini", "99.99")
		save(t, repo, "Ecran Basic", "49.99")

		for _, term := range []string{"écran", "ÉCRAN", "éCrAn"} {
			products, err := repo.SearchByName(ctx, term)
			require.NoError(t, err)
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.ElementsMatch(t, []string{"ÉCRAN Pro", "Écran Mini"}, names, "term %q", term)
		}
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		repo := newRepo(t)
		save(t, repo, "100% Cotton Shirt", "15")
		save(t, repo, "Cotton Socks", "5")
		save(t, repo, "usb_cable", "3")
		save(t, repo, "usbXcable", "3")

		products, err := repo.SearchByName(ctx, "100%")
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "100% Cotton Shirt", products[0].Name)

		products, err = repo.SearchByName(ctx, "b_c")
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "usb_cable", products[0].Name)
	})

	t.Run("count", func(t *testing.T) {
		repo := newRepo(t)
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		save(t, repo, "One", "1")
		save(t, repo, "Two", "2")

		count, err = repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestInMemoryProductRepository(t *testing.T) {
	runProductRepositoryTests(t, func(*testing.T) repositories.ProductRepository {
		return repositories.NewInMemoryProductRepository()
	})
}

func TestInMemoryProductRepository_GetReturnsCopy(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	p := models.Product{Name: "Original", Price: decimal.NewFromInt(1)}
	require.NoError(t, repo.Save(context.Background(), &p))

	got, err := repo.Get(context.Background(), p.ID)
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := repo.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Name)
}

func newSQLiteRepository(t *testing.T) repositories.ProductRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.DriverSQLite, dsn, slog.LevelError)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return repositories.NewGORMProductRepository(db)
}

func TestGORMProductRepository_SQLite(t *testing.T) {
	runProductRepositoryTests(t, newSQLiteRepository)
}

func TestGORMProductRepository_SQLite_RejectsNegativePrice(t *testing.T) {
	repo := newSQLiteRepository(t)

	p := models.Product{Name: "Broken", Price: decimal.NewFromInt(-1)}
	assert.Error(t, repo.Save(context.Background(), &p))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
