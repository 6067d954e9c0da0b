package handlers

import (
	"errors"
	"fmt"

	"productsvc/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the request body into dst and validates it.
func parseBody(c *fiber.Ctx, validate *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.BadRequest(fmt.Sprintf("Invalid request body: %v", err), nil)
	}
	return validateStruct(validate, dst)
}

func validateStruct(validate *validator.Validate, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.BadRequest(err.Error(), nil)
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return apperrors.BadRequest("Validation failed", errorMessages)
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest(fmt.Sprintf("Validation failed (numeric %s is expected)", name), nil)
	}
	return uint(id), nil
}
