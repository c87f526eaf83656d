package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireAuth_MissingHeader(t *testing.T) {
	srv := setupTestServer(t)

	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/subjects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "authorization header")
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	srv := setupTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/v1/subjects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// "Basic" scheme is not accepted.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subjects", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec2 := httptest.NewRecorder()
	srv.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	srv := setupTestServer(t)

	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/subjects", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, env.Error, "Invalid or expired token")
}

func TestRequireAuth_ValidToken(t *testing.T) {
	srv := setupTestServer(t)
	token := signupUser(t, srv, "ada", "ada@example.com")

	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/subjects", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestAuthEndpoints_RateLimited(t *testing.T) {
	srv := setupTestServer(t)

	body := map[string]string{
		"email":    "ada@example.com",
		"password": "wrongpassword",
	}

	// Exhaust the per-IP burst, then expect 429.
	limited := false
	for range authRateBurst + 1 {
		rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", body)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited, "expected a 429 after exhausting the auth burst")
}
