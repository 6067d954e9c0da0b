package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"productsvc/internal/handlers"
	"productsvc/internal/middleware"
	"productsvc/internal/models"
	"productsvc/internal/repositories"
	"productsvc/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB opens a private in-memory SQLite database for the calling test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// newApp wires the handlers the way main does, with an optional auth guard.
func newApp(repo repositories.ProductRepository, authService *services.AuthService) *fiber.App {
	logger := zap.NewNop()
	app := fiber.New(fiber.Config{ErrorHandler: handlers.NewErrorHandler(logger)})

	var guard []fiber.Handler
	if authService != nil {
		handlers.NewAuthHandler(authService).RegisterRoutes(app)
		guard = append(guard, middleware.AuthRequired(authService))
	}
	productService := services.NewProductService(repo, nil, logger)
	handlers.NewProductHandler(productService).RegisterRoutes(app, guard...)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestProductEndpoints(t *testing.T) {
	app := newApp(repositories.NewGORMProductRepository(openTestDB(t)), nil)

	// --- GET /product/all on an empty store ---
	resp := doJSON(t, app, http.MethodGet, "/product/all", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	// --- POST /product/create ---
	resp = doJSON(t, app, http.MethodPost, "/product/create",
		models.CreateProductDTO{Name: "Mango", Description: "test", Price: "220"}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.Product](t, resp)
	assert.Equal(t, models.Product{ID: 1, Name: "Mango", Description: "test", Price: "220"}, created)

	// --- GET /product/:id ---
	resp = doJSON(t, app, http.MethodGet, "/product/1", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[models.Product](t, resp))

	// --- PATCH /product/update/:id ---
	resp = doJSON(t, app, http.MethodPatch, "/product/update/1",
		models.CreateProductDTO{Name: "Mango2", Description: "test2", Price: "440"}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.Product{ID: 1, Name: "Mango2", Description: "test2", Price: "440"}, decode[models.Product](t, resp))

	// --- GET /product/all ---
	resp = doJSON(t, app, http.MethodGet, "/product/all", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	products := decode[[]models.Product](t, resp)
	require.Len(t, products, 1)
	assert.Equal(t, "Mango2", products[0].Name)

	// --- DELETE /product/delete/:id ---
	resp = doJSON(t, app, http.MethodDelete, "/product/delete/1", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw":[],"affected":1}`, string(raw))

	// Deleting again is not an error
	resp = doJSON(t, app, http.MethodDelete, "/product/delete/1", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), decode[models.DeleteResult](t, resp).Affected)

	// Verify deletion
	resp = doJSON(t, app, http.MethodGet, "/product/1", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[handlers.ErrorResponse](t, resp)
	assert.Equal(t, handlers.ErrorResponse{StatusCode: 404, Message: "Product not found", Error: "Not Found"}, body)

	// IDs are not reused
	resp = doJSON(t, app, http.MethodPost, "/product/create",
		models.CreateProductDTO{Name: "Apple", Description: "red", Price: "120"}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, uint(2), decode[models.Product](t, resp).ID)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	app := newApp(repo, nil)

	resp := doJSON(t, app, http.MethodPatch, "/product/update/5",
		models.CreateProductDTO{Name: "Mango", Description: "test", Price: "220"}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product not found", decode[handlers.ErrorResponse](t, resp).Message)

	products, err := repo.Find(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductEndpoints_BadInput(t *testing.T) {
	app := newApp(repositories.NewMemoryProductRepository(), nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"non numeric id", http.MethodGet, "/product/abc", nil},
		{"zero id", http.MethodDelete, "/product/delete/0", nil},
		{"missing fields", http.MethodPost, "/product/create", map[string]string{"name": "Mango"}},
		{"update missing price", http.MethodPatch, "/product/update/1", map[string]string{"name": "Mango", "description": "test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, tt.method, tt.path, tt.body, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Bad Request", decode[handlers.ErrorResponse](t, resp).Error)
		})
	}

	resp := doJSON(t, app, http.MethodPost, "/product/create", map[string]string{"name": "Mango"}, "")
	body := decode[handlers.ErrorResponse](t, resp)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Contains(t, body.Errors, "Description")
	assert.Contains(t, body.Errors, "Price")
}

// brokenRepository fails every write.
type brokenRepository struct {
	*repositories.MemoryProductRepository
}

func (brokenRepository) Insert(context.Context, *models.Product) (uint, error) {
	return 0, errors.New("connection refused")
}

func (brokenRepository) Delete(context.Context, uint) (models.DeleteResult, error) {
	return models.DeleteResult{}, errors.New("connection refused")
}

func TestProductEndpoints_PersistenceFailure(t *testing.T) {
	app := newApp(brokenRepository{repositories.NewMemoryProductRepository()}, nil)

	resp := doJSON(t, app, http.MethodPost, "/product/create",
		models.CreateProductDTO{Name: "Mango", Description: "test", Price: "220"}, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "[connection refused]: Failed to create product", decode[handlers.ErrorResponse](t, resp).Message)

	resp = doJSON(t, app, http.MethodDelete, "/product/delete/1", nil, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "[connection refused]: Failed to delete product", decode[handlers.ErrorResponse](t, resp).Message)
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestProductEndpoints_ClosedDatabase(t *testing.T) {
	db := openTestDB(t)
	app := newApp(repositories.NewGORMProductRepository(db), nil)
	closeDB(t, db)

	resp := doJSON(t, app, http.MethodPost, "/product/create",
		models.CreateProductDTO{Name: "Mango", Description: "test", Price: "220"}, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "[sql: database is closed]: Failed to create product", decode[handlers.ErrorResponse](t, resp).Message)

	resp = doJSON(t, app, http.MethodDelete, "/product/delete/1", nil, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "[sql: database is closed]: Failed to delete product", decode[handlers.ErrorResponse](t, resp).Message)
}

func TestLogin_ClosedDatabase(t *testing.T) {
	db := openTestDB(t)
	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), "test_jwt_secret", zap.NewNop())
	app := newApp(repositories.NewGORMProductRepository(db), authService)
	closeDB(t, db)

	resp := doJSON(t, app, http.MethodPost, "/auth/login", map[string]string{"username": "authuser", "password": "securepassword"}, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", decode[handlers.ErrorResponse](t, resp).Message)
}

func TestAuthFlow(t *testing.T) {
	db := openTestDB(t)
	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), "test_jwt_secret", zap.NewNop())
	app := newApp(repositories.NewGORMProductRepository(db), authService)

	// Product routes are guarded
	resp := doJSON(t, app, http.MethodGet, "/product/all", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	register := map[string]string{"username": "authuser", "email": "auth@example.com", "password": "securepassword"}
	resp = doJSON(t, app, http.MethodPost, "/auth/register", register, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decode[map[string]any](t, resp)
	assert.Equal(t, "User registered successfully", registered["message"])
	assert.NotContains(t, registered["user"], "password")

	// Duplicate registration
	resp = doJSON(t, app, http.MethodPost, "/auth/register", register, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password
	resp = doJSON(t, app, http.MethodPost, "/auth/login", map[string]string{"username": "authuser", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/login", map[string]string{"username": "authuser", "password": "securepassword"}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token := decode[map[string]string](t, resp)["token"]
	require.NotEmpty(t, token)

	resp = doJSON(t, app, http.MethodPost, "/product/create",
		models.CreateProductDTO{Name: "Mango", Description: "test", Price: "220"}, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/product/all", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.Product](t, resp), 1)
}
