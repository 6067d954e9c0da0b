package handlers

import (
	"productsvc/internal/models"
	"productsvc/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products. It only adapts the
// transport; errors from the service are returned unchanged for the app's
// error handler to render.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes under /product.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, middleware ...fiber.Handler) {
	productRoutes := router.Group("/product", middleware...)
	productRoutes.Post("/create", h.HandleCreateProduct)
	productRoutes.Get("/all", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Patch("/update/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/delete/:id", h.HandleDeleteProduct)
}

// HandleCreateProduct creates a product from the request body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var dto models.CreateProductDTO
	if err := parseBody(c, h.validate, &dto); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetProducts lists every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProduct returns one product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleUpdateProduct replaces name, description and price of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var dto models.CreateProductDTO
	if err := parseBody(c, h.validate, &dto); err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, dto)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product and reports the affected row count.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
