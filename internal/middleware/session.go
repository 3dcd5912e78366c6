// internal/middleware/session.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"relawan-hub/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Token expiration time - 24 hours
const tokenExpiration = 24 * time.Hour

// Claims carries the denormalized author identity inside a session token.
// The subject is the user id; name and avatar ride along so a token is a
// complete author snapshot.
type Claims struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates session tokens. It replaces the
// browser-local mock session of the original client: identity travels as a
// signed token and is read from the request context, never from ambient
// state.
type SessionManager struct {
	secret []byte
	// required enforces a valid token on write requests; reads stay public.
	required bool
}

func NewSessionManager(secret string, required bool) *SessionManager {
	return &SessionManager{
		secret:   []byte(secret),
		required: required,
	}
}

// GenerateToken creates a new session token for the given author identity.
func (sm *SessionManager) GenerateToken(author models.AuthorInfo) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name:      author.Name,
		AvatarURL: author.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "relawan-hub-api",
			Subject:   author.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sm.secret)
}

// ValidateToken validates the provided session token
func (sm *SessionManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return sm.secret, nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// unprotectedWrites are write routes that never require a session token.
var unprotectedWrites = map[string]bool{
	"/api/session":    true,
	"/api/moderation": true,
}

// Middleware attaches the token's author to the request context and, when
// enforcement is on, rejects write requests without a valid token. Read
// requests are always public.
func (sm *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		author, err := sm.authorFromHeader(r)
		if err == nil && author != nil {
			r = r.WithContext(SetAuthorInContext(r.Context(), *author))
		}

		isWrite := r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodDelete
		if sm.required && isWrite && !unprotectedWrites[r.URL.Path] {
			if err != nil {
				http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
				return
			}
			if author == nil {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// authorFromHeader extracts and validates the bearer token, if any. A
// missing header returns (nil, nil).
func (sm *SessionManager) authorFromHeader(r *http.Request) (*models.AuthorInfo, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errors.New("invalid authorization format")
	}

	claims, err := sm.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return nil, err
	}

	return &models.AuthorInfo{
		UserID:    claims.Subject,
		Name:      claims.Name,
		AvatarURL: claims.AvatarURL,
	}, nil
}

// Define a custom context key type to avoid collisions
type contextKey string

// AuthorKey is the key used to store the session author in the context
const AuthorKey contextKey = "session_author"

// SetAuthorInContext saves the session author in the request context
func SetAuthorInContext(ctx context.Context, author models.AuthorInfo) context.Context {
	return context.WithValue(ctx, AuthorKey, author)
}

// GetAuthorFromContext retrieves the session author from the context
func GetAuthorFromContext(ctx context.Context) (models.AuthorInfo, bool) {
	author, ok := ctx.Value(AuthorKey).(models.AuthorInfo)
	return author, ok
}
