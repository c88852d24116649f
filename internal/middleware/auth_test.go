package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pitchcoach-app/auth-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGateRouter(tokens *service.TokenService) *gin.Engine {
	mw := NewAuthMiddleware(tokens)

	r := gin.New()
	r.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserID(c)})
	})
	r.GET("/open", mw.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserID(c)})
	})
	return r
}

func doGet(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	code, _ := body["code"].(string)
	return code
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	tokens := service.NewTokenService("gate-secret", 15*time.Minute, time.Hour, nil)
	r := newGateRouter(tokens)

	access, _, err := tokens.IssueAccessToken("user-42")
	require.NoError(t, err)

	w := doGet(r, "/protected", "Bearer "+access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-42")
}

func TestRequireAuthMissingHeader(t *testing.T) {
	tokens := service.NewTokenService("gate-secret", 15*time.Minute, time.Hour, nil)
	r := newGateRouter(tokens)

	w := doGet(r, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", errorCode(t, w))
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	tokens := service.NewTokenService("gate-secret", 15*time.Minute, time.Hour, nil)
	r := newGateRouter(tokens)

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc", "sometoken"} {
		w := doGet(r, "/protected", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.Equal(t, "AUTHENTICATION_REQUIRED", errorCode(t, w), "header %q", header)
	}
}

// Expired and invalid tokens carry distinct codes so clients know
// whether to refresh or to re-authenticate.
func TestRequireAuthExpiredVersusInvalid(t *testing.T) {
	tokens := service.NewTokenService("gate-secret", -time.Minute, time.Hour, nil)
	r := newGateRouter(tokens)

	expired, _, err := tokens.IssueAccessToken("user-42")
	require.NoError(t, err)

	w := doGet(r, "/protected", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, w))

	w = doGet(r, "/protected", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, w))
}

func TestOptionalAuthResolvesIdentityWhenPresent(t *testing.T) {
	tokens := service.NewTokenService("gate-secret", 15*time.Minute, time.Hour, nil)
	r := newGateRouter(tokens)

	access, _, err := tokens.IssueAccessToken("user-42")
	require.NoError(t, err)

	w := doGet(r, "/open", "Bearer "+access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-42")
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	tokens := service.NewTokenService("gate-secret", 15*time.Minute, time.Hour, nil)
	r := newGateRouter(tokens)

	// No header and a garbage token both pass through anonymously
	for _, header := range []string{"", "Bearer garbage"} {
		w := doGet(r, "/open", header)
		assert.Equal(t, http.StatusOK, w.Code, "header %q", header)
		assert.Contains(t, w.Body.String(), `"userId":""`, "header %q", header)
	}
}
