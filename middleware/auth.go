package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-storefront/models"
	"go-storefront/store"
	"go-storefront/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// TokenParser validates a bearer token.
type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

// UserLoader fetches the user a token belongs to.
type UserLoader interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Auth resolves the bearer token of a request to a stored user.
type Auth struct {
	tokens TokenParser
	users  UserLoader
	logger *zap.Logger
}

func NewAuth(tokens TokenParser, users UserLoader, logger *zap.Logger) *Auth {
	return &Auth{tokens: tokens, users: users, logger: logger}
}

// Middleware verifies the JWT, loads the user and attaches it to the context.
// Tokens for users that no longer exist are rejected.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.WriteError(w, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}

		claims, err := a.tokens.Parse(parts[1])
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		user, err := a.users.GetUserByID(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteError(w, http.StatusUnauthorized, "Not authorized, user not found")
			return
		}
		if err != nil {
			a.logger.Error("load token user", zap.String("user", claims.UserID), zap.Error(err))
			utils.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// AdminMiddleware ensures that the user has admin privileges
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin {
			utils.WriteError(w, http.StatusForbidden, "Forbidden: Admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}
