package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/access"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtKey: jwtKey}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))

			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))

			return
		}

		claims := &models.Claims{}

		token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(t *jwt.Token) (any, error) {
			return m.jwtKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			logger.Warn("JWT validation failed", slog.Any("error", err))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))

			return
		}

		if claims.UserID == uuid.Nil || !claims.Role.Valid() {
			logger.Warn("Token is missing subject or role")
			response.Error(w, errors.UnauthorizedError("Invalid token claims"))

			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)

		requestScopedLogger := logger.With(
			slog.String("userId", claims.UserID.String()),
			slog.String("role", string(claims.Role)),
		)
		ctx = logging.WithLogger(ctx, requestScopedLogger)

		requestScopedLogger.Debug("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		if err := access.RequireAdmin(actor); err != nil {
			logging.FromContext(r.Context()).Warn("Admin route denied")
			response.Error(w, err)

			return
		}

		next.ServeHTTP(w, r)
	}
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok && claims != nil
}

func ActorFromContext(ctx context.Context) (access.Actor, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return access.Actor{}, false
	}

	return access.ActorFromClaims(claims), true
}
