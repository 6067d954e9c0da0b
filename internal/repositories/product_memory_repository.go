package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"productsvc/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// IDs come from a monotonically increasing counter and are never reused.
type MemoryProductRepository struct {
	products map[uint]models.Product
	lastID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
	}
}

// Insert adds a new product.
func (r *MemoryProductRepository) Insert(_ context.Context, product *models.Product) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	product.ID = r.lastID
	r.products[product.ID] = *product
	return product.ID, nil
}

// Find returns all products ordered by ID.
func (r *MemoryProductRepository) Find(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// FindOneBy returns a copy of the product with the given ID, or nil.
func (r *MemoryProductRepository) FindOneBy(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// Save overwrites an existing product. It never inserts.
func (r *MemoryProductRepository) Save(_ context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return nil, fmt.Errorf("save product %d: %w", product.ID, ErrProductNotFound)
	}
	r.products[product.ID] = *product
	saved := *product
	return &saved, nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id uint) (models.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return models.DeleteResult{Raw: []any{}, Affected: 0}, nil
	}
	delete(r.products, id)
	return models.DeleteResult{Raw: []any{}, Affected: 1}, nil
}
