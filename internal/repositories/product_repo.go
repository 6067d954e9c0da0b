package repositories

import (
	"context"
	"errors"

	"productsvc/internal/models"
)

// ProductRepository defines the persistence capabilities the product service relies on.
type ProductRepository interface {
	// Insert stores a new product and returns its generated ID.
	Insert(ctx context.Context, product *models.Product) (uint, error)
	// Find returns every product ordered by ID.
	Find(ctx context.Context) ([]models.Product, error)
	// FindOneBy returns the product with the given ID, or nil when there is none.
	FindOneBy(ctx context.Context, id uint) (*models.Product, error)
	// Save writes all fields of an existing product, failing with
	// ErrProductNotFound when the row no longer exists.
	Save(ctx context.Context, product *models.Product) (*models.Product, error)
	// Delete removes the product with the given ID.
	Delete(ctx context.Context, id uint) (models.DeleteResult, error)
}

// ErrProductNotFound is returned by Save when the product row is gone.
var ErrProductNotFound = errors.New("product not found")
