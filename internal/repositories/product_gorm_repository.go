package repositories

import (
	"context"
	"errors"
	"fmt"

	"productsvc/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Insert creates a new product row. The generated ID is written back to product.
// Driver errors are returned as is; the service names the failed operation.
func (r *GORMProductRepository) Insert(ctx context.Context, product *models.Product) (uint, error) {
	product.ID = 0 // always let the store assign the key
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return 0, err
	}
	return product.ID, nil
}

// Find retrieves all products from the database.
func (r *GORMProductRepository) Find(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

// FindOneBy retrieves a single product by its ID. A missing row yields (nil, nil).
func (r *GORMProductRepository) FindOneBy(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &product, nil
}

// Save updates every mutable column of an existing product. It never inserts:
// a row deleted since it was read yields ErrProductNotFound.
func (r *GORMProductRepository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	res := r.db.WithContext(ctx).
		Model(product).
		Select("Name", "Description", "Price").
		Updates(product)
	if res.Error != nil {
		return nil, fmt.Errorf("save product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("save product %d: %w", product.ID, ErrProductNotFound)
	}
	return product, nil
}

// Delete removes a product by its ID. Zero affected rows is not an error.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) (models.DeleteResult, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return models.DeleteResult{}, res.Error
	}
	return models.DeleteResult{Raw: []any{}, Affected: res.RowsAffected}, nil
}
