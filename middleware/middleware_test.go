package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/repositories"
	"booking-api/services"
	"booking-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubUsers implementa solo lo que usa AdminMiddleware
type stubUsers struct {
	services.UserService
	users map[string]*domain.User
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.NewNotFound("user not found")
}

func newAuth(t *testing.T) (services.AuthService, *utils.JWTManager) {
	t.Helper()
	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	sessions := repositories.NewMemorySessionRepository()
	t.Cleanup(func() { _ = sessions.Close() })
	return services.NewAuthService(nil, sessions, nil, jwt, utils.NewNopLogger()), jwt
}

func protectedRouter(auth services.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c), "admin": IsAdmin(c)})
	})
	router.GET("/private/:id", handlers...)
	return router
}

func TestAuthMiddleware(t *testing.T) {
	auth, jwt := newAuth(t)
	router := protectedRouter(auth)
	token, err := jwt.GenerateAccessToken("u-1", "ana@test.com", "Ana", []string{"GUEST"})
	require.NoError(t, err)

	// Sin token
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"unauthorized"`)

	// Bearer
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)

	// Cookie
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/private/x", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Token inválido
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/private/x", nil)
	req.Header.Set("Authorization", "Bearer nope")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	auth, jwt := newAuth(t)
	users := &stubUsers{users: map[string]*domain.User{
		"admin": {ID: "admin", Roles: domain.Roles{domain.RoleAdmin}},
		"guest": {ID: "guest", Roles: domain.Roles{domain.RoleGuest}},
	}}
	router := protectedRouter(auth, AdminMiddleware(users))

	call := func(userID string, tokenRoles ...string) int {
		token, err := jwt.GenerateAccessToken(userID, userID+"@test.com", userID, tokenRoles)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private/x", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("admin"))
	// El rol del token no alcanza: se mira la base
	assert.Equal(t, http.StatusForbidden, call("guest", "ADMIN"))
	assert.Equal(t, http.StatusUnauthorized, call("deleted"))
}

func TestSelfOrAdminMiddleware(t *testing.T) {
	auth, jwt := newAuth(t)
	router := protectedRouter(auth, SelfOrAdminMiddleware("id"))

	call := func(path, userID string, roles ...string) int {
		token, err := jwt.GenerateAccessToken(userID, "x@test.com", "x", roles)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("/private/u-1", "u-1", "GUEST"))
	assert.Equal(t, http.StatusForbidden, call("/private/u-2", "u-1", "GUEST"))
	assert.Equal(t, http.StatusOK, call("/private/u-2", "root", "ADMIN"))
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2, utils.NewNopLogger())
	router := gin.New()
	router.POST("/login", limiter.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Otra IP tiene su propio cupo
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetrics(t *testing.T) {
	metrics := NewMetrics()
	router := gin.New()
	router.Use(metrics.Middleware())
	router.GET("/metrics", metrics.Handler())
	router.GET("/v1/property/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/property/abc", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `booking_api_http_requests_total{method="GET",path="/v1/property/:id",status="204"} 1`), body)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/x", func(c *gin.Context) { c.JSON(http.StatusOK, dto.SuccessResponse{Message: "ok"}) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
