package utils

import (
	"errors"
	"log/slog"
	"net/http"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ParseAndValidate decodes the body into dest and validates it, writing a
// 400 response and returning false on failure.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {
	logger := logging.FromContext(r.Context())

	if err := DecodeJSONBody(r, dest); err != nil {
		logger.Warn("Invalid request body", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError(err.Error()))

		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
		} else {
			response.Error(w, appErrors.ValidationError("Invalid input data").WithError(err))
		}

		return false
	}

	return true
}

// ParseID reads a uuid path value.
func ParseID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return uuid.Nil, appErrors.BadRequestError("Missing " + name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, appErrors.BadRequestError("Invalid " + name + " format").WithError(err)
	}

	return id, nil
}
