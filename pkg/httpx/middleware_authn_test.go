package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaplusconsultants/policytrain/pkg/httpx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret"

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func sessionClaims(sub, email string, exp time.Time) *httpx.SessionClaims {
	return &httpx.SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestParseSessionToken(t *testing.T) {
	t.Run("valid token round-trips claims", func(t *testing.T) {
		raw := signToken(t, jwt.SigningMethodHS256,
			sessionClaims("acct-1", "casey@example.com", time.Now().Add(time.Hour)))

		claims, err := httpx.ParseSessionToken(raw, testSecret)
		require.NoError(t, err)
		require.Equal(t, "acct-1", claims.Subject)
		require.Equal(t, "casey@example.com", claims.Email)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		raw := signToken(t, jwt.SigningMethodHS256,
			sessionClaims("acct-1", "casey@example.com", time.Now().Add(time.Hour)))

		_, err := httpx.ParseSessionToken(raw, "other-secret")
		require.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		raw := signToken(t, jwt.SigningMethodHS256,
			sessionClaims("acct-1", "casey@example.com", time.Now().Add(-time.Hour)))

		_, err := httpx.ParseSessionToken(raw, testSecret)
		require.Error(t, err)
	})

	t.Run("rejects token without expiry", func(t *testing.T) {
		raw := signToken(t, jwt.SigningMethodHS256, &httpx.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "acct-1"},
		})

		_, err := httpx.ParseSessionToken(raw, testSecret)
		require.Error(t, err)
	})

	t.Run("rejects token without subject", func(t *testing.T) {
		raw := signToken(t, jwt.SigningMethodHS256,
			sessionClaims("", "casey@example.com", time.Now().Add(time.Hour)))

		_, err := httpx.ParseSessionToken(raw, testSecret)
		require.Error(t, err)
	})
}

func TestAuthnMiddleware(t *testing.T) {
	var gotUserID, gotEmail string
	handler := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID = httpx.UserIDFromContext(r.Context())
			gotEmail = httpx.EmailFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}),
		httpx.AuthnMiddleware(testSecret),
	)

	t.Run("injects identity into context", func(t *testing.T) {
		raw := signToken(t, jwt.SigningMethodHS256,
			sessionClaims("acct-1", "casey@example.com", time.Now().Add(time.Hour)))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "acct-1", gotUserID)
		require.Equal(t, "casey@example.com", gotEmail)
	})

	t.Run("missing header is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
