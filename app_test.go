package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booking-api/config"
	"booking-api/events"
	"booking-api/repositories"
	"booking-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Cabecera PNG mínima: alcanza para que mimetype la reconozca
var pngImage = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type testServer struct {
	router    *gin.Engine
	publisher *events.RecordingPublisher
	db        *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.PasswordCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := utils.NewNopLogger()
	require.NoError(t, migrate(db, logger))

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		LoginRateLimit:  100,
		LoginBurst:      100,
		MaxUploadBytes:  1 << 20,
	}
	publisher := &events.RecordingPublisher{}

	app := newApplication(cfg, db, logger, repositories.NewMemorySessionRepository(), publisher)
	router, err := app.routes()
	require.NoError(t, err)

	return &testServer{router: router, publisher: publisher, db: db}
}

// envelope es {"message", "data"} o {"error", "message"}
type envelope struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var body envelope
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func (s *testServer) json(t *testing.T, method, path, token string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(t, req)
}

func (s *testServer) register(t *testing.T, name, email string, roles ...string) {
	t.Helper()
	rec, body := s.json(t, http.MethodPost, "/v1/auth/register", "", map[string]interface{}{
		"name": name, "email": email, "password": "secret123", "role": roles,
	})
	require.Equal(t, http.StatusCreated, rec.Code, body.Message)
}

func (s *testServer) login(t *testing.T, email string) (string, []*http.Cookie) {
	t.Helper()
	rec, body := s.json(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, body.Message)

	var session struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &session))
	return session.AccessToken, rec.Result().Cookies()
}

func propertyForm(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "cover.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (s *testServer) createProperty(t *testing.T, token, propertyType string) string {
	t.Helper()
	form, contentType := propertyForm(t, map[string]string{
		"title":         "Casa en la playa",
		"description":   "Frente al mar",
		"type":          propertyType,
		"street":        "Av. Atlântica 100",
		"city":          "Rio de Janeiro",
		"state":         "RJ",
		"country":       "Brasil",
		"zipCode":       "22010-000",
		"pricePerNight": "100",
	}, pngImage)

	req := httptest.NewRequest(http.MethodPost, "/v1/property", form)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, body := s.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code, body.Message)

	var property struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &property))
	return property.ID
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "Host", "host@example.com", "HOST")
	hostToken, cookies := s.login(t, "host@example.com")
	require.NotNil(t, findCookie(cookies, "access_token"))
	require.NotNil(t, findCookie(cookies, "refresh_token"))

	propertyID := s.createProperty(t, hostToken, "HOUSING")
	messages := s.publisher.Snapshot()
	require.Len(t, messages, 1)
	assert.Equal(t, events.ActionCreate, messages[0].Action)
	assert.Equal(t, propertyID, messages[0].PropertyID)

	s.register(t, "Guest", "guest@example.com")
	guestToken, _ := s.login(t, "guest@example.com")

	// 2 noches a 100 = 200
	rec, body := s.json(t, http.MethodPost, "/v1/property/"+propertyID+"/reserve", guestToken, map[string]string{
		"startDate": "2025-05-16", "endDate": "2025-05-18",
	})
	require.Equal(t, http.StatusCreated, rec.Code, body.Message)
	var reservation struct {
		ID         string  `json:"id"`
		Status     string  `json:"status"`
		TotalPrice float64 `json:"totalPrice"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &reservation))
	assert.Equal(t, "PENDING", reservation.Status)
	assert.Equal(t, 200.0, reservation.TotalPrice)

	rec, body = s.json(t, http.MethodPost, "/v1/property/"+propertyID+"/reserve", guestToken, map[string]string{
		"startDate": "2025-05-17", "endDate": "2025-05-19",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", body.Error)

	rec, body = s.json(t, http.MethodGet, "/v1/reservations/me", guestToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []struct {
		PropertyTitle string `json:"propertyTitle"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Casa en la playa", mine[0].PropertyTitle)

	rec, body = s.json(t, http.MethodPost, "/v1/property/"+propertyID+"/rate", guestToken, map[string]interface{}{
		"rating": 5, "comment": "Excelente",
	})
	require.Equal(t, http.StatusCreated, rec.Code, body.Message)

	rec, body = s.json(t, http.MethodGet, "/v1/property/"+propertyID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []struct {
		AuthorName string `json:"authorName"`
		Rating     int    `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Guest", reviews[0].AuthorName)
	assert.Equal(t, 5, reviews[0].Rating)

	// Solo el anfitrión ve la agenda y puede borrar
	rec, _ = s.json(t, http.MethodGet, "/v1/property/"+propertyID+"/reservations", guestToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = s.json(t, http.MethodDelete, "/v1/property/"+propertyID, guestToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = s.json(t, http.MethodDelete, "/v1/property/"+propertyID, hostToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, body.Message)
	var result repositories.CascadeResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Equal(t, int64(1), result.Reviews)
	assert.Equal(t, int64(1), result.Reservations)
	assert.Equal(t, int64(1), result.Photos)

	rec, body = s.json(t, http.MethodGet, "/v1/property/"+propertyID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body.Error)
	assert.Equal(t, events.ActionDelete, s.publisher.Snapshot()[1].Action)
}

func TestCreatePropertyRejectsBadUploads(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Host", "host@example.com", "HOST")
	token, _ := s.login(t, "host@example.com")

	fields := map[string]string{
		"title": "Salón", "description": "Fiestas", "type": "EVENTS", "street": "Calle 1",
		"city": "Córdoba", "state": "CBA", "country": "AR", "zipCode": "5000", "pricePerNight": "50",
	}

	form, contentType := propertyForm(t, fields, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/property", form)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, body := s.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", body.Error)

	form, contentType = propertyForm(t, fields, []byte("%PDF-1.4 definitely not an image"))
	req = httptest.NewRequest(http.MethodPost, "/v1/property", form)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, body = s.do(t, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "unsupported_media", body.Error)

	var count int64
	require.NoError(t, s.db.Table("property").Count(&count).Error)
	assert.Zero(t, count)
}

func TestPhotoDownload(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Host", "host@example.com", "HOST")
	token, _ := s.login(t, "host@example.com")
	propertyID := s.createProperty(t, token, "SPORTS")

	rec, body := s.json(t, http.MethodGet, "/v1/property/"+propertyID+"/photos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var photos []struct {
		ID      string `json:"id"`
		IsCover bool   `json:"isCover"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &photos))
	require.Len(t, photos, 1)
	assert.True(t, photos[0].IsCover)

	req := httptest.NewRequest(http.MethodGet, "/v1/photos/"+photos[0].ID, nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, pngImage, rec.Body.Bytes())
}

func TestRefreshAndLogout(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Guest", "guest@example.com")
	_, cookies := s.login(t, "guest@example.com")
	refresh := findCookie(cookies, "refresh_token")
	require.NotNil(t, refresh)

	// Sin cookie: 400
	rec, _ := s.json(t, http.MethodPost, "/v1/auth/refresh", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	req.AddCookie(refresh)
	rec, body := s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, body.Message)
	assert.NotNil(t, findCookie(rec.Result().Cookies(), "access_token"))

	req = httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.AddCookie(refresh)
	rec, _ = s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := findCookie(rec.Result().Cookies(), "refresh_token")
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)

	// El refresh token no sirve como Bearer
	req = httptest.NewRequest(http.MethodGet, "/v1/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh.Value)
	rec, _ = s.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// El refresh revocado ya no sirve
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	req.AddCookie(refresh)
	rec, body = s.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", body.Error)
}

func TestCheckAcceptsCookie(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Guest", "guest@example.com")
	_, cookies := s.login(t, "guest@example.com")

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/check", nil)
	req.AddCookie(findCookie(cookies, "access_token"))
	rec, _ := s.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.json(t, http.MethodPost, "/v1/auth/check", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.json(t, http.MethodGet, "/v1/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// El registro público ignora el rol ADMIN
	s.register(t, "Mallory", "mallory@example.com", "ADMIN")
	token, _ := s.login(t, "mallory@example.com")

	rec, _ = s.json(t, http.MethodGet, "/v1/user", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, seedAdmin(context.Background(), s.db, "admin@example.com", "secret123", utils.NewNopLogger()))
	adminToken, _ := s.login(t, "admin@example.com")

	rec, body := s.json(t, http.MethodGet, "/v1/user", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &users))
	assert.Len(t, users, 2)

	rec, _ = s.json(t, http.MethodGet, "/v1/user/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.json(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "booking_api_http_requests_total")
}
