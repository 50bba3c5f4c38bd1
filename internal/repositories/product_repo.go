package repositories

import (
	"context"
	"errors"

	"productapi/internal/models"
)

// ErrProductNotFound is returned when no product exists with the requested ID.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// List returns every product ordered by ID.
	List(ctx context.Context) ([]models.Product, error)
	// Get returns ErrProductNotFound if no product has the given ID.
	Get(ctx context.Context, id int64) (*models.Product, error)
	// Save inserts the product when its ID is zero and assigns the new ID,
	// otherwise it overwrites the row with the same ID.
	Save(ctx context.Context, product *models.Product) error
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// SearchByName returns products whose name contains term, ignoring case, ordered by ID.
	SearchByName(ctx context.Context, term string) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
}
