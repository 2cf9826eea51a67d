package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nestboard/backend/internal/middleware"
	"github.com/nestboard/backend/internal/repositories"
	"github.com/nestboard/backend/internal/services"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

type testAPI struct {
	echo          *echo.Echo
	users         *repositories.MemoryUserRepository
	comments      *repositories.MemoryCommentRepository
	notifications *repositories.MemoryNotificationRepository
}

// newTestAPI wires the full route table against in-memory repositories,
// mirroring router.SetupRoutes without a database.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	users := repositories.NewMemoryUserRepository()
	comments := repositories.NewMemoryCommentRepository(users)
	notifications := repositories.NewMemoryNotificationRepository(users, comments)

	commentService := services.NewCommentService(comments, notifications, services.SystemClock())
	notificationService := services.NewNotificationService(notifications)

	e := echo.New()

	authHandler := NewAuthHandler(users, testJWTSecret, 24*time.Hour)
	authHandler.RegisterAuthRoutes(e.Group("/api/auth"))

	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	authHandler.RegisterProtectedRoutes(api)
	NewCommentHandler(commentService, users).RegisterCommentRoutes(api)
	NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)

	return &testAPI{echo: e, users: users, comments: comments, notifications: notifications}
}

func (a *testAPI) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

// registerUser registers via the API and returns the bearer token.
func (a *testAPI) registerUser(t *testing.T, username string) string {
	t.Helper()
	rec := a.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
