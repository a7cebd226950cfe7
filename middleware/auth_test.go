package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-room-backend/models"
	"meeting-room-backend/utils"
)

const testSecret = "test-secret"

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	authed := r.Group("/", Auth(testSecret, log))
	authed.GET("/whoami", func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "role": identity.Role, "token": TokenFrom(c)})
	})
	authed.GET("/admin-only", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(t *testing.T, r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r := testRouter()
	token, err := utils.GenerateToken(7, models.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)

	w := doRequest(t, r, "/whoami", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestAuthRejects(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, r, "/whoami", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		token, err := utils.GenerateToken(7, models.RoleUser, testSecret, -time.Minute)
		require.NoError(t, err)
		w := doRequest(t, r, "/whoami", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := utils.GenerateToken(7, models.RoleUser, "other", time.Hour)
		require.NoError(t, err)
		w := doRequest(t, r, "/whoami", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	r := testRouter()

	userToken, err := utils.GenerateToken(7, models.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)
	w := doRequest(t, r, "/admin-only", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := utils.GenerateToken(1, models.RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)
	w = doRequest(t, r, "/admin-only", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
