package handlers

import (
	"errors"
	"net/http"

	"productsvc/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// NewErrorHandler returns the fiber.ErrorHandler that renders errors returned
// by handlers and middleware.
func NewErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := ErrorResponse{
			StatusCode: fiber.StatusInternalServerError,
			Message:    "Internal server error",
		}

		var appErr *apperrors.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			resp.StatusCode = appErr.Kind.StatusCode()
			resp.Message = appErr.Message
			resp.Errors = appErr.Details
		case errors.As(err, &fiberErr):
			resp.StatusCode = fiberErr.Code
			resp.Message = fiberErr.Message
		}
		resp.Error = http.StatusText(resp.StatusCode)

		if resp.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return c.Status(resp.StatusCode).JSON(resp)
	}
}
