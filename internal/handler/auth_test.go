package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/config"
	"github.com/pitchcoach-app/auth-service/internal/handler"
	"github.com/pitchcoach-app/auth-service/internal/middleware"
	"github.com/pitchcoach-app/auth-service/internal/model"
	"github.com/pitchcoach-app/auth-service/internal/repository"
	"github.com/pitchcoach-app/auth-service/internal/router"
	"github.com/pitchcoach-app/auth-service/internal/service"
	"github.com/pitchcoach-app/auth-service/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer wires the full HTTP stack against an in-memory store,
// the same construction order as main.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.RefreshToken{}, &model.AuditLog{}))

	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "pitchcoach-auth-test",
			Environment: "test",
			Timeout:     5 * time.Second,
		},
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Auth: config.AuthConfig{
			MinPasswordLen: 6,
		},
		RateLimit: config.RateLimitConfig{
			Request:  1000,
			Duration: time.Minute,
		},
	}

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, refreshRepo)
	audit := service.NewAuditService(auditRepo)
	sessions := service.NewSessionService(userRepo, tokens, audit, bcrypt.MinCost, cfg.Auth.MinPasswordLen)
	users := service.NewUserService(userRepo, tokens, audit, bcrypt.MinCost, cfg.Auth.MinPasswordLen)

	rdb := redis.NewClient(redis.Config{Enabled: false}, zap.NewNop())

	return router.NewRouter(
		handler.NewAuthHandler(sessions),
		handler.NewUserHandler(users),
		handler.NewHealthHandler(db, rdb),
		middleware.NewAuthMiddleware(tokens),
		rdb,
		cfg,
	).SetupRoutes()
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func register(t *testing.T, r *gin.Engine, email string) map[string]any {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/auth/register", "", gin.H{
		"firstName": "Alice",
		"lastName":  "Doe",
		"email":     email,
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)
}

func TestRegisterEndpoint(t *testing.T) {
	r := newTestServer(t)

	body := register(t, r, "alice@example.com")

	user, ok := body["user"].(map[string]any)
	require.True(t, ok, "response must embed the user object")
	assert.NotEmpty(t, user["id"])
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "Alice", user["firstName"])
	assert.NotContains(t, user, "password")

	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
}

func TestRegisterValidation(t *testing.T) {
	r := newTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing email", gin.H{"firstName": "A", "lastName": "B", "password": "secret123"}},
		{"bad email", gin.H{"firstName": "A", "lastName": "B", "email": "nope", "password": "secret123"}},
		{"short password", gin.H{"firstName": "A", "lastName": "B", "email": "a@b.com", "password": "123"}},
		{"missing names", gin.H{"email": "a@b.com", "password": "secret123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["code"])
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newTestServer(t)

	register(t, r, "alice@example.com")

	w := doJSON(r, http.MethodPost, "/auth/register", "", gin.H{
		"firstName": "Other",
		"lastName":  "Person",
		"email":     "Alice@Example.COM",
		"password":  "different456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", decode(t, w)["code"])
}

func TestLoginEndpoint(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "alice@example.com")

	w := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
}

func TestLoginBadCredentials(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "alice@example.com")

	for name, creds := range map[string]gin.H{
		"wrong password": {"email": "alice@example.com", "password": "wrong-password"},
		"unknown email":  {"email": "nobody@example.com", "password": "secret123"},
	} {
		w := doJSON(r, http.MethodPost, "/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w)["code"], name)
	}
}

func TestRefreshTokenEndpoint(t *testing.T) {
	r := newTestServer(t)
	registered := register(t, r, "alice@example.com")
	oldRefresh := registered["refreshToken"].(string)

	w := doJSON(r, http.MethodPost, "/auth/refresh-token", "", gin.H{"refreshToken": oldRefresh})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
	assert.NotEqual(t, oldRefresh, body["refreshToken"])
	assert.NotContains(t, body, "user", "refresh returns tokens only")

	// The consumed value is rejected on replay
	w = doJSON(r, http.MethodPost, "/auth/refresh-token", "", gin.H{"refreshToken": oldRefresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", decode(t, w)["code"])
}

func TestRefreshTokenMissing(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/auth/refresh-token", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["code"])
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	r := newTestServer(t)
	registered := register(t, r, "alice@example.com")
	access := registered["accessToken"].(string)
	refresh := registered["refreshToken"].(string)

	// Authenticated logout with a refresh token
	w := doJSON(r, http.MethodPost, "/auth/logout", access, gin.H{"refreshToken": refresh})
	assert.Equal(t, http.StatusOK, w.Code)

	// The revoked refresh token no longer works
	w = doJSON(r, http.MethodPost, "/auth/refresh-token", "", gin.H{"refreshToken": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Repeat logout, anonymous logout and an empty body all still succeed
	w = doJSON(r, http.MethodPost, "/auth/logout", access, gin.H{"refreshToken": refresh})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileRequiresAuth(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(r, http.MethodGet, "/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", decode(t, w)["code"])
}

func TestProfileEndpoint(t *testing.T) {
	r := newTestServer(t)
	registered := register(t, r, "alice@example.com")
	access := registered["accessToken"].(string)

	w := doJSON(r, http.MethodGet, "/user/profile", access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.NotContains(t, body, "password")
}

func TestUpdateProfileEndpoint(t *testing.T) {
	r := newTestServer(t)
	registered := register(t, r, "alice@example.com")
	access := registered["accessToken"].(string)

	w := doJSON(r, http.MethodPut, "/user/profile", access, gin.H{"firstName": "Alicia"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Alicia", decode(t, w)["firstName"])
}

func TestChangePasswordEndpoint(t *testing.T) {
	r := newTestServer(t)
	registered := register(t, r, "alice@example.com")
	access := registered["accessToken"].(string)

	w := doJSON(r, http.MethodPut, "/user/change-password", access, gin.H{
		"currentPassword": "wrong-password",
		"newPassword":     "newsecret456",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INCORRECT_PASSWORD", decode(t, w)["code"])

	w = doJSON(r, http.MethodPut, "/user/change-password", access, gin.H{
		"currentPassword": "secret123",
		"newPassword":     "newsecret456",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// New password takes effect immediately
	w = doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "newsecret456",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuditLogsEndpoint(t *testing.T) {
	r := newTestServer(t)
	registered := register(t, r, "alice@example.com")
	access := registered["accessToken"].(string)

	w := doJSON(r, http.MethodGet, "/user/audit-logs", access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.EqualValues(t, 1, body["total"])

	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)

	entry := data[0].(map[string]any)
	assert.Equal(t, "register", entry["eventType"])
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "up", body["database"])
	assert.Equal(t, "disabled", body["redis"])
}
