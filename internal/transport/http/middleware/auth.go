package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tkucar/inkwell/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// Auth requires a bearer token issued by the external identity provider and
// puts the resolved identity tuple into the request context. The core never
// reads ambient session state; everything downstream receives the identity
// explicitly.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFromRequest(r, jwtSecret)
			if !ok {
				http.Error(w, `{"error":{"code":"UNAUTHENTICATED","message":"Missing or invalid token"}}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests pass through untouched. Used on routes open to guests,
// like comment creation.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity, ok := identityFromRequest(r, jwtSecret); ok {
				r = r.WithContext(WithIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity returns a context carrying the identity tuple.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity extracts the identity tuple placed by Auth or OptionalAuth.
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

func identityFromRequest(r *http.Request, jwtSecret string) (domain.Identity, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return domain.Identity{}, false
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, false
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Identity{}, false
	}

	identity := domain.Identity{TokenIdentifier: sub}
	if name, ok := claims["name"].(string); ok {
		identity.DisplayName = name
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		identity.Email = &email
	}
	if picture, ok := claims["picture"].(string); ok && picture != "" {
		identity.AvatarURL = &picture
	}
	return identity, true
}
