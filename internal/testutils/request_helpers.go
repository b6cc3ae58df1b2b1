package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

func newRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return req.WithContext(logging.WithLogger(req.Context(), logger))
}

// CreateTestRequestWithContext builds a request authenticated as a customer.
func CreateTestRequestWithContext(method, target string, body io.Reader, userID uuid.UUID, pathParams map[string]string) *http.Request {
	return CreateTestRequestWithRole(method, target, body, userID, models.RoleCustomer, pathParams)
}

func CreateTestRequestWithRole(method, target string, body io.Reader, userID uuid.UUID, role models.Role, pathParams map[string]string) *http.Request {
	req := newRequest(method, target, body, pathParams)
	claims := &models.Claims{UserID: userID, Email: "test@example.com", Role: role}

	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	return newRequest(method, target, body, pathParams)
}
