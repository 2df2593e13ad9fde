package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"foodgram/config"
	"foodgram/jwt"
	"foodgram/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAuth(t *testing.T) (*gorm.DB, *jwt.TokenManager) {
	t.Helper()
	db, err := config.SetupDatabase(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return db, jwt.NewTokenManager(key, &key.PublicKey, time.Hour)
}

func issue(t *testing.T, db *gorm.DB, tokens *jwt.TokenManager, role string) string {
	t.Helper()
	user := &models.User{
		Username:  role,
		Email:     role + "@example.com",
		FirstName: "First",
		LastName:  "Last",
		Password:  "hash",
		Role:      role,
	}
	require.NoError(t, db.Create(user).Error)
	token, err := tokens.IssueToken(db, user)
	require.NoError(t, err)
	return token
}

func perform(router *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", tokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", tokenFromHeader("Token abc"))
	assert.Equal(t, "", tokenFromHeader("Basic abc"))
	assert.Equal(t, "", tokenFromHeader(""))
}

func TestAuthMiddleware(t *testing.T) {
	db, tokens := setupAuth(t)
	token := issue(t, db, tokens, models.RoleUser)

	router := gin.New()
	router.Use(AuthMiddleware(db, tokens))
	router.GET("/", func(c *gin.Context) {
		userID, _ := c.Get("UserID")
		role, _ := c.Get("Role")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})

	w := perform(router, "Token "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1,"role":"user"}`, w.Body.String())

	//不合法的Token視為匿名
	w = perform(router, "Bearer broken")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":null,"role":null}`, w.Body.String())
}

func TestCheckLoginMiddleware(t *testing.T) {
	db, tokens := setupAuth(t)
	token := issue(t, db, tokens, models.RoleUser)

	router := gin.New()
	router.Use(AuthMiddleware(db, tokens), CheckLoginMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusUnauthorized, perform(router, "").Code)
	assert.Equal(t, http.StatusNoContent, perform(router, "Bearer "+token).Code)

	_, err := jwt.RevokeToken(db, token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, perform(router, "Bearer "+token).Code)
}

func TestCheckAdminPermissionMiddleware(t *testing.T) {
	db, tokens := setupAuth(t)
	userToken := issue(t, db, tokens, models.RoleUser)
	adminToken := issue(t, db, tokens, models.RoleAdmin)

	router := gin.New()
	router.Use(AuthMiddleware(db, tokens), CheckLoginMiddleware(), CheckAdminPermissionMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusForbidden, perform(router, "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusNoContent, perform(router, "Bearer "+adminToken).Code)
}

func TestLoggerAndRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	router := gin.New()
	router.Use(LoggerMiddleware(logger), RecoveryMiddleware(logger))
	router.GET("/", func(c *gin.Context) {
		panic("boom")
	})

	w := perform(router, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())

	requests := logs.FilterMessage("request").All()
	require.Len(t, requests, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), requests[0].ContextMap()["status"])
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://foodgram.example"}))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://foodgram.example")
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://foodgram.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
