package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tkucar/inkwell/internal/domain"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestAuthExtractsIdentity(t *testing.T) {
	c := qt.New(t)

	var got domain.Identity
	var ok bool
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetIdentity(r.Context())
	}))

	token := signToken(t, jwt.MapClaims{
		"sub":     "provider|abc123",
		"name":    "Alice",
		"email":   "alice@example.com",
		"picture": "https://img.example.com/alice.png",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got.TokenIdentifier, qt.Equals, "provider|abc123")
	c.Assert(got.DisplayName, qt.Equals, "Alice")
	c.Assert(*got.Email, qt.Equals, "alice@example.com")
	c.Assert(*got.AvatarURL, qt.Equals, "https://img.example.com/alice.png")
}

func TestAuthRejectsMissingOrBadToken(t *testing.T) {
	c := qt.New(t)

	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	// No header.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)

	// Wrong secret.
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"})
	signed, err := other.SignedString([]byte("wrong-secret"))
	c.Assert(err, qt.IsNil)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)

	// Expired token.
	expired := signToken(t, jwt.MapClaims{
		"sub": "provider|abc123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	c := qt.New(t)

	var ok bool
	handler := OptionalAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetIdentity(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(ok, qt.IsFalse)

	token := signToken(t, jwt.MapClaims{
		"sub": "provider|abc123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	c.Assert(ok, qt.IsTrue)
}
