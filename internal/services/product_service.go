package services

import (
	"context"
	"errors"

	"productsvc/internal/apperrors"
	"productsvc/internal/models"
	"productsvc/internal/repositories"

	"go.uber.org/zap"
)

// ProductNotFoundMessage is reported when a product lookup matches no row.
const ProductNotFoundMessage = "Product not found"

// Product lifecycle event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher publishes product lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// ProductEvent is the payload of a product lifecycle event.
type ProductEvent struct {
	ProductID uint            `json:"product_id"`
	Product   *models.Product `json:"product,omitempty"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher // nil disables events
	logger    *zap.Logger
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.Named("product_service"),
	}
}

// CreateProduct inserts a product built from dto and returns the stored row.
func (s *ProductService) CreateProduct(ctx context.Context, dto models.CreateProductDTO) (*models.Product, error) {
	product := &models.Product{
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
	}

	id, err := s.repo.Insert(ctx, product)
	if err != nil {
		s.logger.Error("insert failed", zap.Error(err))
		return nil, apperrors.Internal("create product", err)
	}

	created, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventProductCreated, ProductEvent{ProductID: created.ID, Product: created})
	return created, nil
}

// GetProducts retrieves all products. An empty store yields an empty slice.
func (s *ProductService) GetProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.Find(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindOneBy(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound(ProductNotFoundMessage)
	}
	return product, nil
}

// UpdateProduct overwrites name, description and price of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, dto models.CreateProductDTO) (*models.Product, error) {
	target, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	target.Name = dto.Name
	target.Description = dto.Description
	target.Price = dto.Price

	saved, err := s.repo.Save(ctx, target)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.NotFound(ProductNotFoundMessage)
		}
		return nil, err
	}

	s.publish(ctx, EventProductUpdated, ProductEvent{ProductID: saved.ID, Product: saved})
	return saved, nil
}

// DeleteProduct deletes a product by its ID. Deleting a missing ID is not an
// error; the result then reports zero affected rows.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) (models.DeleteResult, error) {
	result, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete failed", zap.Uint("id", id), zap.Error(err))
		return models.DeleteResult{}, apperrors.Internal("delete product", err)
	}
	if result.Raw == nil {
		result.Raw = []any{}
	}

	if result.Affected > 0 {
		s.publish(ctx, EventProductDeleted, ProductEvent{ProductID: id})
	}
	return result, nil
}

// publish is best effort: a broker failure never fails the request.
func (s *ProductService) publish(ctx context.Context, eventType string, event ProductEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		s.logger.Warn("failed to publish product event",
			zap.String("type", eventType),
			zap.Uint("product_id", event.ProductID),
			zap.Error(err))
	}
}
