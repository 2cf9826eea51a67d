package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	decodeJSON(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	api := newTestAPI(t)
	api.registerUser(t, "alice")

	rec := api.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already exists")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	api := newTestAPI(t)
	api.registerUser(t, "alice")

	rec := api.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")
}

func TestRegister_ShortPassword(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	api.registerUser(t, "alice")

	rec := api.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decodeJSON(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_UniformFailureMessage(t *testing.T) {
	api := newTestAPI(t)
	api.registerUser(t, "alice")

	// Unknown user and bad password must be indistinguishable.
	unknown := api.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "password123",
	})
	badPassword := api.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, badPassword.Code)
	assert.JSONEq(t, unknown.Body.String(), badPassword.Body.String())
}

func TestMe(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerUser(t, "alice")

	rec := api.request(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user struct {
		Username string `json:"username"`
	}
	decodeJSON(t, rec, &user)
	assert.Equal(t, "alice", user.Username)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/auth/me", "/api/comments", "/api/notifications"} {
		rec := api.request(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := api.request(t, http.MethodGet, "/api/comments", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
