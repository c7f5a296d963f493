package auth

import (
	"context"
	"net/http"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"go.uber.org/zap"
)

// ContextKey is the type for request context keys set by the middleware
type ContextKey string

const (
	// UserIDKey holds the authenticated user's id
	UserIDKey ContextKey = "user_id"
	// UserEmailKey holds the authenticated user's email
	UserEmailKey ContextKey = "user_email"
)

// Middleware wraps HTTP handlers with JWT authentication
type Middleware struct {
	jwtService *JWTService
	storage    repository.Storage
	log        *zap.Logger
}

func NewMiddleware(jwtService *JWTService, storage repository.Storage, log *zap.Logger) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		storage:    storage,
		log:        log,
	}
}

// RequireAuth rejects requests without a valid bearer token
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.log.Debug("missing authorization header")
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		tokenString := ExtractTokenFromBearer(authHeader)
		if tokenString == "" {
			m.log.Debug("invalid authorization header format")
			http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.log.Debug("invalid token", zap.Error(err))
			if err == ErrExpiredToken {
				http.Error(w, "Token expired", http.StatusUnauthorized)
			} else {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
			}
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserEmailKey, claims.Email)

		m.log.Debug("authenticated user",
			zap.Int64("user_id", claims.UserID),
			zap.String("email", claims.Email))

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin runs after RequireAuth and rejects non-admin accounts. The
// admin flag is read from storage rather than the token so revocation takes
// effect immediately.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		user, err := m.storage.GetUserByID(r.Context(), userID)
		if err != nil {
			m.log.Debug("admin check failed", zap.Int64("user_id", userID), zap.Error(err))
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		if !user.IsAdmin {
			m.log.Debug("admin access denied", zap.Int64("user_id", userID))
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserIDFromContext extracts the authenticated user's id
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetUserEmailFromContext extracts the authenticated user's email
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// CORS handles cross-origin requests from the web frontend
func (m *Middleware) CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowedOrigins := []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}

		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	}
}
