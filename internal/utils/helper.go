package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var ErrEmptyBody = errors.New("request body cannot be empty")

func DecodeJSONBody(r *http.Request, dest any) error {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}

	if len(body) == 0 {
		return ErrEmptyBody
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}

	return nil
}

// ValidateStruct returns validator.ValidationErrors unwrapped so callers can
// render them field by field.
func ValidateStruct(validate *validator.Validate, data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return validationErrs
	}

	return fmt.Errorf("unexpected validation error: %w", err)
}
