package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/go-playground/validator/v10"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	_ = WriteJSON(w, statusCode, APIResponse{Success: true, Data: data})
}

// NoContent writes a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error renders err as an error envelope. Anything that is not an AppError
// becomes a 500 with a generic message.
func Error(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorResponse := &ErrorResponse{
		Code:    errors.ErrCodeInternal,
		Message: "An unexpected error occurred",
	}

	if appErr, ok := errors.IsAppError(err); ok {
		statusCode = appErr.StatusCode
		errorResponse = &ErrorResponse{Code: appErr.Code, Message: appErr.Message}

		if appErr.Detail != "" {
			errorResponse.Details = []string{appErr.Detail}
		}
	}

	_ = WriteJSON(w, statusCode, APIResponse{Success: false, Error: errorResponse})
}

func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	errMsgs := make([]string, 0, len(errs))

	for _, err := range errs {
		var message string

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field %s is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field %s must be a valid email address", err.Field())
		case "url":
			message = fmt.Sprintf("Field %s must be a valid URL", err.Field())
		case "min":
			message = fmt.Sprintf("Field %s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field %s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("Field %s must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("Field %s must be at least %s", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field %s is invalid: %s=%s", err.Field(), err.Tag(), err.Param())
		}

		errMsgs = append(errMsgs, message)
	}

	_ = WriteJSON(w, http.StatusBadRequest, APIResponse{
		Success: false,
		Error: &ErrorResponse{
			Code:    errors.ErrCodeValidation,
			Message: "Validation failed",
			Details: errMsgs,
		},
	})
}
