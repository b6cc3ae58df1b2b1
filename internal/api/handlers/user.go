package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Warn("User registration failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("User registered", slog.String("userId", user.ID.String()))
		response.Success(w, http.StatusCreated, user)
	}
}

func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Error("Login failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if resp.RetryAfter > 0 {
			logger.Warn("Login rate limited", slog.Int("retryAfter", resp.RetryAfter))
			w.Header().Set("Retry-After", strconv.Itoa(resp.RetryAfter))
			response.Error(w, errors.TooManyRequestsError(resp.Message).
				WithDetail(fmt.Sprintf("retry after %d seconds", resp.RetryAfter)))
			return
		}

		if !resp.Success {
			logger.Warn("Invalid login attempt", slog.Int("remainingTries", resp.RemainingTries))
			response.Error(w, errors.UnauthorizedError(resp.Message))
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

// Profile returns the authenticated user.
func (h *UserHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		user, err := h.userService.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, user)
	}
}
